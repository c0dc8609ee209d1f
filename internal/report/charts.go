package report

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/paneldb"
)

// House palette, light to dark.
var (
	greenLight       = color.RGBA{R: 0xd9, G: 0xf0, B: 0xd3, A: 255}
	greenLightMedium = color.RGBA{R: 0xa6, G: 0xdb, B: 0xa0, A: 255}
	greenMedium      = color.RGBA{R: 0x5a, G: 0xae, B: 0x61, A: 255}
	greenMediumDark  = color.RGBA{R: 0x1b, G: 0x78, B: 0x37, A: 255}
	greenDark        = color.RGBA{R: 0x00, G: 0x44, B: 0x1b, A: 255}
)

func savePlot(p *plot.Plot, w, h vg.Length, path string, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	logging.LogOperation(logger, "chart written", slog.String("path", path))

	return nil
}

// writeHistogram draws one distribution as a 100-bin histogram.
func writeHistogram(path, title, xlabel string, values []float64, logger *slog.Logger) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Frequency"

	h, err := plotter.NewHist(plotter.Values(values), 100)
	if err != nil {
		return fmt.Errorf("building histogram %s: %w", title, err)
	}
	h.FillColor = greenMedium
	h.LineStyle.Color = greenDark
	p.Add(h)

	return savePlot(p, 16*vg.Inch, 5*vg.Inch, path, logger)
}

// WriteDistributions draws histograms of the key activity variables, once on
// the full sample and once truncated at the 80th percentile. The variables
// are strongly right-skewed, so the truncated versions show the body of the
// distribution.
func WriteDistributions(dir string, rows []paneldb.PanelRow, logger *slog.Logger) error {
	for _, v := range summaryVariables {
		values := make([]float64, len(rows))
		for i, r := range rows {
			values[i] = v.value(r)
		}

		slug := map[string]string{
			summaryVariables[0].label: "adjusted_la_value",
			summaryVariables[1].label: "la_volume",
			summaryVariables[2].label: "unique_providers",
		}[v.label]

		full := filepath.Join(dir, slug+"_dist.png")
		if err := writeHistogram(full, v.label, v.label, values, logger); err != nil {
			return err
		}

		cutoff := quantile(values, 0.8)
		trimmed := make([]float64, 0, len(values))
		for _, x := range values {
			if x <= cutoff {
				trimmed = append(trimmed, x)
			}
		}
		truncated := filepath.Join(dir, slug+"_dist_80pc.png")
		title := v.label + " (up to 80th percentile)"
		if err := writeHistogram(truncated, title, v.label, trimmed, logger); err != nil {
			return err
		}
	}

	return nil
}

// timeSeriesSpec names one national series to plot by quarter.
type timeSeriesSpec struct {
	file  string
	title string
	ylab  string
	value func(paneldb.QuarterSeries) float64
}

var timeSeriesSpecs = []timeSeriesSpec{
	{"total_volume.png", "Total Legal Aid Volume by Quarter", "Total Volume",
		func(q paneldb.QuarterSeries) float64 { return float64(q.TotalVolume) }},
	{"total_value.png", "Total Real Legal Aid Value by Quarter", "Real Value (£)",
		func(q paneldb.QuarterSeries) float64 { return q.AdjustedValue }},
	{"val_vol.png", "Real Value per Case by Quarter", "Real Value per Case (£)",
		func(q paneldb.QuarterSeries) float64 { return q.ValVol }},
	{"unique_providers.png", "Unique Providers by Quarter", "Unique Providers",
		func(q paneldb.QuarterSeries) float64 { return float64(q.TotalUniqueProviders) }},
	{"desert_share.png", "Share of Districts with No Provider by Quarter", "Desert Share",
		func(q paneldb.QuarterSeries) float64 { return q.PropZero }},
	{"desert_population.png", "Population Living in Districts with No Provider by Quarter", "Population",
		func(q paneldb.QuarterSeries) float64 { return q.PopZero }},
}

// The three national series rebased to 100 at 2012-q4, drawn together.
var indexSpecs = []struct {
	label string
	color color.RGBA
	value func(paneldb.QuarterSeries) float64
}{
	{"Volume", greenLightMedium, func(q paneldb.QuarterSeries) float64 { return q.VolumeIndex }},
	{"Real value", greenMediumDark, func(q paneldb.QuarterSeries) float64 { return q.ValueIndex }},
	{"Value per case", greenDark, func(q paneldb.QuarterSeries) float64 { return q.CasesIndex }},
}

// WriteRebasedIndices draws the volume, real value and value-per-case
// indices on one chart, all rebased to 100 at 2012-q4.
func WriteRebasedIndices(path string, series []paneldb.QuarterSeries, logger *slog.Logger) error {
	p := plot.New()
	p.Title.Text = "National Legal Aid Indices (2012-q4 = 100)"
	p.X.Label.Text = "Quarter"
	p.Y.Label.Text = "Index"
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = -0.9
	p.Legend.Top = true

	labels := make([]string, len(series))
	for i, q := range series {
		labels[i] = q.YearQuarter
	}

	for _, spec := range indexSpecs {
		points := make(plotter.XYs, len(series))
		for i, q := range series {
			points[i].X = float64(i)
			points[i].Y = spec.value(q)
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("building index series %s: %w", spec.label, err)
		}
		line.Color = spec.color
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(spec.label, line)
	}

	base, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 100}, {X: float64(len(series) - 1), Y: 100},
	})
	if err != nil {
		return fmt.Errorf("building baseline: %w", err)
	}
	base.Color = color.Black
	base.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(base)

	p.NominalX(labels...)
	p.Add(plotter.NewGrid())

	return savePlot(p, 16*vg.Inch, 5*vg.Inch, path, logger)
}

// WriteTimeSeries draws the national quarterly series with a dashed marker
// at 2012-q4, the last quarter before the LASPO reforms took effect.
func WriteTimeSeries(dir string, series []paneldb.QuarterSeries, logger *slog.Logger) error {
	labels := make([]string, len(series))
	laspoX := -1.0
	for i, q := range series {
		labels[i] = q.YearQuarter
		if q.YearQuarter == "2012-q4" {
			laspoX = float64(i)
		}
	}

	for _, spec := range timeSeriesSpecs {
		p := plot.New()
		p.Title.Text = spec.title
		p.X.Label.Text = "Quarter"
		p.Y.Label.Text = spec.ylab
		p.X.Tick.Label.Rotation = 0.8
		p.X.Tick.Label.XAlign = -0.9

		points := make(plotter.XYs, len(series))
		var lo, hi float64
		for i, q := range series {
			v := spec.value(q)
			points[i].X = float64(i)
			points[i].Y = v
			if i == 0 || v < lo {
				lo = v
			}
			if i == 0 || v > hi {
				hi = v
			}
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("building series %s: %w", spec.title, err)
		}
		line.Color = greenMediumDark
		line.Width = vg.Points(2)
		p.Add(line)

		markers, err := plotter.NewScatter(points)
		if err != nil {
			return fmt.Errorf("building markers %s: %w", spec.title, err)
		}
		markers.GlyphStyle.Color = greenMediumDark
		markers.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(markers)

		if laspoX >= 0 {
			cutover, err := plotter.NewLine(plotter.XYs{
				{X: laspoX, Y: lo}, {X: laspoX, Y: hi},
			})
			if err != nil {
				return fmt.Errorf("building cutover marker: %w", err)
			}
			cutover.Color = color.Black
			cutover.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
			p.Add(cutover)
		}

		p.NominalX(labels...)
		p.Add(plotter.NewGrid())

		if err := savePlot(p, 16*vg.Inch, 5*vg.Inch, filepath.Join(dir, spec.file), logger); err != nil {
			return err
		}
	}

	return nil
}

// WriteValueDistributionsByYear draws box plots of per-case real value by
// calendar year, showing how the distribution shifted around the reforms.
func WriteValueDistributionsByYear(path string, rows []paneldb.PanelRow, logger *slog.Logger) error {
	byYear := make(map[string][]float64)
	for _, r := range rows {
		if r.LAVolume == 0 {
			continue
		}
		year := r.YearQuarter[:4]
		byYear[year] = append(byYear[year], r.LAValVol)
	}

	p := plot.New()
	p.Title.Text = "Real Value per Case by Year"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Real Value per Case (£)"

	var labels []string
	x := 0.0
	for year := 2010; year <= 2019; year++ {
		key := fmt.Sprintf("%d", year)
		values := byYear[key]
		if len(values) == 0 {
			continue
		}

		box, err := plotter.NewBoxPlot(vg.Points(30), x, plotter.Values(values))
		if err != nil {
			return fmt.Errorf("building box plot for %s: %w", key, err)
		}
		box.FillColor = greenLightMedium
		p.Add(box)

		labels = append(labels, key)
		x++
	}

	p.NominalX(labels...)

	return savePlot(p, 12*vg.Inch, 6*vg.Inch, path, logger)
}
