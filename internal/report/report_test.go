package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapanel.civiljustice.org.uk/paneldb"
)

func TestWithCommas(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{56075912, "56,075,912"},
		{-1234567, "-1,234,567"},
		{1234.5, "1,234.50"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, withCommas(c.in), "value %v", c.in)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "\\pounds1,500", money(1500))
	assert.Equal(t, "\\pounds2.4m", money(2_400_000))
	assert.Equal(t, "\\pounds-1.2m", money(-1_200_000))
}

func TestLatexEscape(t *testing.T) {
	assert.Equal(t, "King's Lynn \\& West Norfolk", latexEscape("King's Lynn & West Norfolk"))
	assert.Equal(t, "50\\%", latexEscape("50%"))
	assert.Equal(t, "a\\_b", latexEscape("a_b"))
}

func TestSummarise(t *testing.T) {
	s := summarise([]float64{4, 1, 3, 2, 5})

	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.Min, 1e-12)
	assert.InDelta(t, 5.0, s.Max, 1e-12)
	assert.InDelta(t, 3.0, s.Median, 1e-12)
}

func TestCentralBand(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}

	kept := centralBand(values)

	for _, v := range kept {
		assert.GreaterOrEqual(t, v, 10.0)
		assert.LessOrEqual(t, v, 90.0)
	}
	assert.Less(t, len(kept), len(values))
	assert.Greater(t, len(kept), 70)
}

func sampleRows() []paneldb.PanelRow {
	return []paneldb.PanelRow{
		{YearQuarter: "2012-q3", LACode: "E06000001", LAName: "Hartlepool",
			LAVolume: 10, AdjustedLAValue: 2000, LAValVol: 200, UniqueProviders: 2},
		{YearQuarter: "2012-q3", LACode: "W06000001", LAName: "Isle of Anglesey",
			LAVolume: 0, AdjustedLAValue: 0, UniqueProviders: 0, Desert: true, EverDesert: true, Rural: true},
		{YearQuarter: "2012-q4", LACode: "E06000001", LAName: "Hartlepool",
			LAVolume: 8, AdjustedLAValue: 1600, LAValVol: 200, UniqueProviders: 2},
		{YearQuarter: "2012-q4", LACode: "W06000001", LAName: "Isle of Anglesey",
			LAVolume: 1, AdjustedLAValue: 100, LAValVol: 100, UniqueProviders: 1, EverDesert: true, Rural: true},
	}
}

func sampleAverages() []paneldb.LAAverage {
	return []paneldb.LAAverage{
		{LACode: "E06000001", LAName: "Hartlepool", MeanVolume: 9, MeanValue: 1800,
			MeanProviders: 2, ResidentsTotal: 92000},
		{LACode: "W06000001", LAName: "Isle of Anglesey", MeanVolume: 0.5, MeanValue: 50,
			MeanProviders: 0.5, DesertQuarters: 1, EverDesert: true, Rural: true, ResidentsTotal: 70000},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteSummaryStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary_stats.tex")

	require.NoError(t, WriteSummaryStats(path, sampleRows(), nil))

	body := readFile(t, path)
	assert.Contains(t, body, "\\begin{tabular}")
	assert.Contains(t, body, "Full sample")
	assert.Contains(t, body, "Central 80\\% band")
	assert.Contains(t, body, "Unique providers")
}

func TestWriteEverDesertByRurality(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rurality.tex")

	require.NoError(t, WriteEverDesertByRurality(path, sampleAverages(), nil))

	body := readFile(t, path)
	// One urban never-desert district, one rural ever-desert district
	assert.Contains(t, body, "Urban & 1 & 0 & 1")
	assert.Contains(t, body, "Rural & 0 & 1 & 1")
	assert.Contains(t, body, "Total & 1 & 1 & 2")
}

func TestWriteLACrossPanel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cross.tex")

	require.NoError(t, WriteLACrossPanel(path, sampleAverages(), nil))

	body := readFile(t, path)
	assert.Contains(t, body, "Hartlepool")
	// 92,000 of 56,075,912 residents rounds to 0.2 percent
	assert.Contains(t, body, "0.2\\%")
}

func TestWriteTopBottomDistricts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topbottom.tex")

	require.NoError(t, WriteTopBottomDistricts(path, sampleAverages(), 1, nil))

	body := readFile(t, path)
	assert.Contains(t, body, "Top 1 districts by volume")
	assert.Contains(t, body, "Bottom 1 districts by volume")
	top := strings.Index(body, "Hartlepool")
	bottom := strings.Index(body, "Isle of Anglesey")
	assert.Less(t, top, bottom)
}

func TestWriteQuarterlySummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quarterly.tex")
	series := []paneldb.QuarterSeries{
		{YearQuarter: "2012-q4", TotalVolume: 11, AdjustedValue: 2100,
			TotalUniqueProviders: 3, PropZero: 0.5, PopZero: 70000},
	}

	require.NoError(t, WriteQuarterlySummary(path, series, nil))

	body := readFile(t, path)
	assert.Contains(t, body, "2012-q4")
	assert.Contains(t, body, "50.0\\%")
	assert.Contains(t, body, "70,000")
}

func TestWriteCharts(t *testing.T) {
	dir := t.TempDir()
	series := []paneldb.QuarterSeries{
		{YearQuarter: "2012-q3", TotalVolume: 10, AdjustedValue: 2000, ValVol: 200, TotalUniqueProviders: 2},
		{YearQuarter: "2012-q4", TotalVolume: 11, AdjustedValue: 2100, ValVol: 190, TotalUniqueProviders: 3},
		{YearQuarter: "2013-q1", TotalVolume: 6, AdjustedValue: 900, ValVol: 150, TotalUniqueProviders: 2},
	}

	require.NoError(t, WriteTimeSeries(dir, series, nil))

	for _, spec := range timeSeriesSpecs {
		_, err := os.Stat(filepath.Join(dir, spec.file))
		assert.NoError(t, err, spec.file)
	}

	require.NoError(t, WriteDistributions(dir, sampleRows(), nil))
	_, err := os.Stat(filepath.Join(dir, "la_volume_dist.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "la_volume_dist_80pc.png"))
	assert.NoError(t, err)

	require.NoError(t, WriteValueDistributionsByYear(filepath.Join(dir, "violin.png"), sampleRows(), nil))
	_, err = os.Stat(filepath.Join(dir, "violin.png"))
	assert.NoError(t, err)

	require.NoError(t, WriteRebasedIndices(filepath.Join(dir, "rebased_indices.png"), series, nil))
	_, err = os.Stat(filepath.Join(dir, "rebased_indices.png"))
	assert.NoError(t, err)
}

func TestWriteVariableDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variable_definitions.tex")

	require.NoError(t, WriteVariableDefinitions(path, nil))

	body := readFile(t, path)
	assert.Contains(t, body, "ever\\_desert")
	assert.Contains(t, body, "CPIH index")
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel_summary.xlsx")

	require.NoError(t, WriteWorkbook(path, []paneldb.QuarterSeries{
		{YearQuarter: "2012-q4", TotalVolume: 11},
	}, sampleAverages(), nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
