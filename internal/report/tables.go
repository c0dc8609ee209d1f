package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/paneldb"
)

// Usual-resident population of England and Wales at the 2011 census, the
// denominator for the population-share columns.
const censusPopulationEW = 56_075_912

// writeTex writes a LaTeX fragment, creating the directory if needed.
func writeTex(path string, body string, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating table directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logging.LogOperation(logger, "table written", slog.String("path", path))

	return nil
}

// summaryVariable names one tabulated panel variable and how to read it off
// a row.
type summaryVariable struct {
	label string
	value func(paneldb.PanelRow) float64
}

var summaryVariables = []summaryVariable{
	{"Real LA value (\\pounds)", func(r paneldb.PanelRow) float64 { return r.AdjustedLAValue }},
	{"LA case volume", func(r paneldb.PanelRow) float64 { return float64(r.LAVolume) }},
	{"Unique providers", func(r paneldb.PanelRow) float64 { return float64(r.UniqueProviders) }},
}

// WriteSummaryStats tabulates the key activity variables, on the full sample
// and restricted to the central 80 percent band.
func WriteSummaryStats(path string, rows []paneldb.PanelRow, logger *slog.Logger) error {
	var b strings.Builder
	b.WriteString("\\begin{tabular}{lrrrrrrrr}\n")
	b.WriteString("\\toprule\n")
	b.WriteString("Variable & N & Mean & SD & Min & P25 & Median & P75 & Max \\\\\n")

	writePanel := func(caption string, trim bool) {
		b.WriteString("\\midrule\n")
		fmt.Fprintf(&b, "\\multicolumn{9}{l}{\\textit{%s}} \\\\\n", caption)
		for _, v := range summaryVariables {
			values := make([]float64, len(rows))
			for i, r := range rows {
				values[i] = v.value(r)
			}
			if trim {
				values = centralBand(values)
			}
			s := summarise(values)
			fmt.Fprintf(&b, "%s & %d & %s & %s & %s & %s & %s & %s & %s \\\\\n",
				v.label, s.N,
				withCommas(s.Mean), withCommas(s.SD), withCommas(s.Min),
				withCommas(s.P25), withCommas(s.Median), withCommas(s.P75), withCommas(s.Max))
		}
	}

	writePanel("Full sample", false)
	writePanel("Central 80\\% band", true)

	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{tabular}\n")

	return writeTex(path, b.String(), logger)
}

// WriteQuarterlySummary tabulates the national series, one row per quarter.
func WriteQuarterlySummary(path string, series []paneldb.QuarterSeries, logger *slog.Logger) error {
	var b strings.Builder
	b.WriteString("\\begin{longtable}{lrrrrr}\n")
	b.WriteString("\\toprule\n")
	b.WriteString("Quarter & Volume & Real value & Providers & Desert share & Desert population \\\\\n")
	b.WriteString("\\midrule\n")
	b.WriteString("\\endhead\n")

	for _, q := range series {
		fmt.Fprintf(&b, "%s & %s & %s & %s & %s & %s \\\\\n",
			q.YearQuarter,
			withCommas(float64(q.TotalVolume)),
			money(q.AdjustedValue),
			withCommas(float64(q.TotalUniqueProviders)),
			percent(q.PropZero),
			withCommas(q.PopZero))
	}

	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{longtable}\n")

	return writeTex(path, b.String(), logger)
}

// WriteLACrossPanel tabulates per-district averages with each district's
// share of the England and Wales census population.
func WriteLACrossPanel(path string, averages []paneldb.LAAverage, logger *slog.Logger) error {
	var b strings.Builder
	b.WriteString("\\begin{longtable}{llrrrrr}\n")
	b.WriteString("\\toprule\n")
	b.WriteString("Code & Local authority & Mean volume & Mean real value & Mean providers & Desert quarters & Population share \\\\\n")
	b.WriteString("\\midrule\n")
	b.WriteString("\\endhead\n")

	for _, a := range averages {
		fmt.Fprintf(&b, "%s & %s & %s & %s & %.1f & %d & %s \\\\\n",
			a.LACode,
			latexEscape(a.LAName),
			withCommas(a.MeanVolume),
			money(a.MeanValue),
			a.MeanProviders,
			a.DesertQuarters,
			percent(a.ResidentsTotal/censusPopulationEW))
	}

	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{longtable}\n")

	return writeTex(path, b.String(), logger)
}

// WriteTopBottomDistricts tabulates the districts with the highest and
// lowest average case volumes.
func WriteTopBottomDistricts(path string, averages []paneldb.LAAverage, n int, logger *slog.Logger) error {
	ranked := append([]paneldb.LAAverage(nil), averages...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanVolume > ranked[j].MeanVolume
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	top := ranked[:n]
	bottom := ranked[len(ranked)-n:]

	var b strings.Builder
	b.WriteString("\\begin{longtable}{llrr}\n")
	b.WriteString("\\toprule\n")
	b.WriteString("Code & Local authority & Mean volume & Mean real value \\\\\n")
	b.WriteString("\\midrule\n")
	b.WriteString("\\endhead\n")

	writeGroup := func(caption string, group []paneldb.LAAverage) {
		fmt.Fprintf(&b, "\\multicolumn{4}{l}{\\textit{%s}} \\\\\n", caption)
		for _, a := range group {
			fmt.Fprintf(&b, "%s & %s & %s & %s \\\\\n",
				a.LACode, latexEscape(a.LAName),
				withCommas(a.MeanVolume), money(a.MeanValue))
		}
	}

	writeGroup(fmt.Sprintf("Top %d districts by volume", n), top)
	b.WriteString("\\midrule\n")
	writeGroup(fmt.Sprintf("Bottom %d districts by volume", n), bottom)

	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{longtable}\n")

	return writeTex(path, b.String(), logger)
}

// variableDefinitions documents the analysis variables for the paper's
// appendix. Definitions, not values, so the table is static.
var variableDefinitions = [][2]string{
	{"la_total_volume", "Civil legal aid completions in the district that quarter"},
	{"la_total_value", "Nominal value of those completions (\\pounds)"},
	{"adjusted_la_total_value", "Real value: nominal divided by the CPIH index (2015 = 1)"},
	{"unique_providers", "Distinct provider firms with completions in the district that quarter"},
	{"la_val_vol", "Real value per case in the district; zero when volume is zero"},
	{"volume_index, value_index, cases_index", "National series rebased to 100 at 2012-q4"},
	{"unemployment_rate", "Census 2011 unemployed over economically active"},
	{"prop_hh_owned", "Census 2011 share of households owning their home"},
	{"prop_eth_white", "Census 2011 share of residents identifying as White"},
	{"exposure", "District mean of real value per resident over the twelve pre-reform quarters"},
	{"post", "1 from 2013-q1, the first quarter under the LASPO scope cuts"},
	{"desert", "1 when the district has no active provider that quarter"},
	{"ever_desert", "1 when the district is a desert in any quarter of the panel"},
	{"prop_zero", "Share of districts that are deserts that quarter"},
	{"pop_zero", "Census population living in desert districts that quarter"},
	{"is_rural", "Predominantly rural under the DEFRA classification"},
}

// WriteVariableDefinitions writes the variable-definitions appendix table.
func WriteVariableDefinitions(path string, logger *slog.Logger) error {
	var b strings.Builder
	b.WriteString("\\begin{tabular}{lp{9cm}}\n")
	b.WriteString("\\toprule\n")
	b.WriteString("Variable & Definition \\\\\n")
	b.WriteString("\\midrule\n")

	for _, d := range variableDefinitions {
		fmt.Fprintf(&b, "%s & %s \\\\\n", latexEscape(d[0]), d[1])
	}

	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{tabular}\n")

	return writeTex(path, b.String(), logger)
}

// WriteEverDesertByRurality cross-tabulates ever-desert status against the
// rural classification.
func WriteEverDesertByRurality(path string, averages []paneldb.LAAverage, logger *slog.Logger) error {
	var counts [2][2]int // [rural][everDesert]
	for _, a := range averages {
		r, d := 0, 0
		if a.Rural {
			r = 1
		}
		if a.EverDesert {
			d = 1
		}
		counts[r][d]++
	}

	var b strings.Builder
	b.WriteString("\\begin{tabular}{lrrr}\n")
	b.WriteString("\\toprule\n")
	b.WriteString(" & Never desert & Ever desert & Total \\\\\n")
	b.WriteString("\\midrule\n")
	fmt.Fprintf(&b, "Urban & %d & %d & %d \\\\\n", counts[0][0], counts[0][1], counts[0][0]+counts[0][1])
	fmt.Fprintf(&b, "Rural & %d & %d & %d \\\\\n", counts[1][0], counts[1][1], counts[1][0]+counts[1][1])
	fmt.Fprintf(&b, "Total & %d & %d & %d \\\\\n",
		counts[0][0]+counts[1][0], counts[0][1]+counts[1][1], len(averages))
	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{tabular}\n")

	return writeTex(path, b.String(), logger)
}
