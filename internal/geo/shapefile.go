// Package geo reads the district boundary shapefile and draws the
// choropleth maps of provider coverage and legal aid deserts.
package geo

import (
	"fmt"
	"log/slog"

	"github.com/jonas-p/go-shp"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/models"
)

// Point is one boundary vertex in the shapefile's projected coordinates.
type Point struct {
	X, Y float64
}

// Boundary is one district outline: possibly several rings (islands,
// exclaves) sharing a LAD23 code.
type Boundary struct {
	Code  string
	Name  string
	Rings [][]Point
}

// LoadBoundaries reads the ONS LAD 2023 boundary shapefile and keeps the
// England and Wales districts. Scottish and Northern Irish outlines are in
// the file but outside the panel.
func LoadBoundaries(path string, logger *slog.Logger) ([]Boundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer logging.SafeCloseWithLogging(reader, logger, "read "+path)

	codeField, nameField := -1, -1
	for i, f := range reader.Fields() {
		switch f.String() {
		case "LAD23CD":
			codeField = i
		case "LAD23NM":
			nameField = i
		}
	}
	if codeField < 0 || nameField < 0 {
		return nil, fmt.Errorf("%s: missing LAD23CD or LAD23NM attribute", path)
	}

	var boundaries []Boundary
	for reader.Next() {
		n, shape := reader.Shape()

		code := reader.ReadAttribute(n, codeField)
		if !models.IsEnglandOrWales(code) {
			continue
		}

		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, fmt.Errorf("%s record %d: expected polygon, got %T", path, n, shape)
		}

		boundaries = append(boundaries, Boundary{
			Code:  code,
			Name:  reader.ReadAttribute(n, nameField),
			Rings: splitRings(polygon),
		})
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(boundaries) == 0 {
		return nil, fmt.Errorf("%s: no England and Wales boundaries found", path)
	}

	logging.LogDataset(logger, "district boundaries", len(boundaries))

	return boundaries, nil
}

// splitRings breaks a shapefile polygon into its constituent rings.
func splitRings(polygon *shp.Polygon) [][]Point {
	rings := make([][]Point, 0, len(polygon.Parts))
	for i, start := range polygon.Parts {
		end := int32(len(polygon.Points))
		if i+1 < len(polygon.Parts) {
			end = polygon.Parts[i+1]
		}

		ring := make([]Point, 0, end-start)
		for _, pt := range polygon.Points[start:end] {
			ring = append(ring, Point{X: pt.X, Y: pt.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

// VerifyCodes checks that the shapefile and the panel describe the same set
// of districts. A mismatch means the boundary vintage has drifted from the
// panel's coding scheme, which would silently leave districts unpainted.
func VerifyCodes(boundaries []Boundary, panelCodes map[string]struct{}) error {
	mapped := make(map[string]struct{}, len(boundaries))
	for _, b := range boundaries {
		mapped[b.Code] = struct{}{}
	}

	for code := range panelCodes {
		if _, ok := mapped[code]; !ok {
			return fmt.Errorf("district %s is in the panel but not the shapefile", code)
		}
	}
	for code := range mapped {
		if _, ok := panelCodes[code]; !ok {
			return fmt.Errorf("district %s is in the shapefile but not the panel", code)
		}
	}

	return nil
}
