package geo

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
)

// Gradient stops, light to dark.
var gradientStops = []color.RGBA{
	{R: 0xd9, G: 0xf0, B: 0xd3, A: 255},
	{R: 0xa6, G: 0xdb, B: 0xa0, A: 255},
	{R: 0x5a, G: 0xae, B: 0x61, A: 255},
	{R: 0x1b, G: 0x78, B: 0x37, A: 255},
	{R: 0x00, G: 0x44, B: 0x1b, A: 255},
}

var (
	neverDesertFill = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 255}
	urbanDesertFill = color.RGBA{R: 0xb2, G: 0x18, B: 0x2b, A: 255}
	ruralDesertFill = color.RGBA{R: 0x00, G: 0x44, B: 0x1b, A: 255}
	desertFill      = ruralDesertFill
)

// gradient maps v within [min, max] onto the green gradient by linear
// interpolation between adjacent stops.
func gradient(v, min, max float64) color.RGBA {
	if max <= min {
		return gradientStops[0]
	}

	t := (v - min) / (max - min)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	scaled := t * float64(len(gradientStops)-1)
	i := int(scaled)
	if i >= len(gradientStops)-1 {
		return gradientStops[len(gradientStops)-1]
	}

	frac := scaled - float64(i)
	a, b := gradientStops[i], gradientStops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + frac*(float64(y)-float64(x)))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

// ringXYs adapts one boundary ring to the plotting layer.
func ringXYs(ring []Point) plotter.XYs {
	xys := make(plotter.XYs, len(ring))
	for i, pt := range ring {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
	}
	return xys
}

// DrawMap paints every district with the fill chosen by its code and saves
// the result. Axes are hidden: the coordinates are map eastings and
// northings, not data.
func DrawMap(path, title string, boundaries []Boundary, fill func(code string) color.Color, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating map directory: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()

	for _, b := range boundaries {
		c := fill(b.Code)
		for _, ring := range b.Rings {
			polygon, err := plotter.NewPolygon(ringXYs(ring))
			if err != nil {
				return fmt.Errorf("building outline for %s: %w", b.Code, err)
			}
			polygon.Color = c
			polygon.LineStyle.Color = color.Black
			polygon.LineStyle.Width = vg.Points(0.1)
			p.Add(polygon)
		}
	}

	if err := p.Save(8*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	logging.LogOperation(logger, "map written", slog.String("path", path))

	return nil
}
