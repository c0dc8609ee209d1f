package geo

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeShapefile builds a shapefile of unit squares, one per district code.
func writeShapefile(t *testing.T, codes []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "boundaries.shp")
	writer, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	require.NoError(t, writer.SetFields([]shp.Field{
		shp.StringField("LAD23CD", 9),
		shp.StringField("LAD23NM", 30),
	}))

	for i, code := range codes {
		x := float64(i * 2)
		square := &shp.Polygon{
			Box:       shp.Box{MinX: x, MinY: 0, MaxX: x + 1, MaxY: 1},
			NumParts:  1,
			NumPoints: 5,
			Parts:     []int32{0},
			Points: []shp.Point{
				{X: x, Y: 0}, {X: x + 1, Y: 0}, {X: x + 1, Y: 1}, {X: x, Y: 1}, {X: x, Y: 0},
			},
		}
		n := writer.Write(square)
		// dbf strings are space-padded to the field width; go-shp's writer
		// leaves NUL padding, so pad explicitly to match real files.
		require.NoError(t, writer.WriteAttribute(int(n), 0, fmt.Sprintf("%-9s", code)))
		require.NoError(t, writer.WriteAttribute(int(n), 1, fmt.Sprintf("%-30s", "District "+code)))
	}
	writer.Close()

	return path
}

func TestLoadBoundaries(t *testing.T) {
	t.Run("keeps England and Wales only", func(t *testing.T) {
		path := writeShapefile(t, []string{"E06000001", "W06000001", "S12000033"})

		boundaries, err := LoadBoundaries(path, nil)
		require.NoError(t, err)

		require.Len(t, boundaries, 2)
		assert.Equal(t, "E06000001", boundaries[0].Code)
		assert.Equal(t, "District E06000001", boundaries[0].Name)
		assert.Equal(t, "W06000001", boundaries[1].Code)
	})

	t.Run("rings carry the outline vertices", func(t *testing.T) {
		path := writeShapefile(t, []string{"E06000001"})

		boundaries, err := LoadBoundaries(path, nil)
		require.NoError(t, err)

		require.Len(t, boundaries[0].Rings, 1)
		assert.Len(t, boundaries[0].Rings[0], 5)
		assert.Equal(t, Point{X: 1, Y: 1}, boundaries[0].Rings[0][2])
	})
}

func TestVerifyCodes(t *testing.T) {
	boundaries := []Boundary{{Code: "E06000001"}, {Code: "W06000001"}}

	t.Run("matching sets pass", func(t *testing.T) {
		codes := map[string]struct{}{"E06000001": {}, "W06000001": {}}
		assert.NoError(t, VerifyCodes(boundaries, codes))
	})

	t.Run("panel district missing from shapefile", func(t *testing.T) {
		codes := map[string]struct{}{"E06000001": {}, "W06000001": {}, "E09000001": {}}
		err := VerifyCodes(boundaries, codes)
		assert.ErrorContains(t, err, "not the shapefile")
	})

	t.Run("shapefile district missing from panel", func(t *testing.T) {
		codes := map[string]struct{}{"E06000001": {}}
		err := VerifyCodes(boundaries, codes)
		assert.ErrorContains(t, err, "not the panel")
	})
}

func TestGradient(t *testing.T) {
	low := gradient(0, 0, 10)
	high := gradient(10, 0, 10)
	mid := gradient(5, 0, 10)

	assert.Equal(t, gradientStops[0], low)
	assert.Equal(t, gradientStops[len(gradientStops)-1], high)
	assert.Equal(t, gradientStops[2], mid)

	// Degenerate range falls back to the lightest stop
	assert.Equal(t, gradientStops[0], gradient(3, 5, 5))
}

func TestDrawMap(t *testing.T) {
	path := writeShapefile(t, []string{"E06000001", "W06000001"})
	boundaries, err := LoadBoundaries(path, nil)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "maps", "test_map.png")
	err = DrawMap(out, "Test Map", boundaries, func(code string) color.Color {
		if code == "E06000001" {
			return desertFill
		}
		return neverDesertFill
	}, nil)
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
