package geo

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"sort"

	"lapanel.civiljustice.org.uk/internal/config"
	"lapanel.civiljustice.org.uk/paneldb"
)

// Run draws the full map set from the stored panel: one provider-coverage
// map and one desert map per quarter, plus the ever-desert overview.
func Run(cfg config.Config, client *paneldb.Client, logger *slog.Logger) error {
	boundaries, err := LoadBoundaries(cfg.Raw(config.BoundariesFile), logger)
	if err != nil {
		return err
	}

	rows, err := client.LoadPanel()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("panel database is empty, run the build stage first")
	}

	panelCodes := make(map[string]struct{})
	for _, r := range rows {
		panelCodes[r.LACode] = struct{}{}
	}
	if err := VerifyCodes(boundaries, panelCodes); err != nil {
		return err
	}

	byQuarter := make(map[string][]paneldb.PanelRow)
	for _, r := range rows {
		byQuarter[r.YearQuarter] = append(byQuarter[r.YearQuarter], r)
	}

	quarters := make([]string, 0, len(byQuarter))
	for q := range byQuarter {
		quarters = append(quarters, q)
	}
	sort.Strings(quarters)

	// All provider maps share one colour scale
	minProviders, maxProviders := providerRange(rows)

	providersDir := cfg.Graphics("unique_providers_maps")
	desertsDir := cfg.Graphics("deserts_maps")

	for _, quarter := range quarters {
		providers := make(map[string]float64, len(byQuarter[quarter]))
		deserts := make(map[string]bool, len(byQuarter[quarter]))
		desertCount := 0
		for _, r := range byQuarter[quarter] {
			providers[r.LACode] = float64(r.UniqueProviders)
			deserts[r.LACode] = r.Desert
			if r.Desert {
				desertCount++
			}
		}

		path := filepath.Join(providersDir, fmt.Sprintf("unique_providers_%s.png", quarter))
		title := fmt.Sprintf("Unique Providers per Local Authority, %s", quarter)
		err := DrawMap(path, title, boundaries, func(code string) color.Color {
			return gradient(providers[code], minProviders, maxProviders)
		}, logger)
		if err != nil {
			return err
		}

		path = filepath.Join(desertsDir, fmt.Sprintf("desert_map_%s.png", quarter))
		title = fmt.Sprintf("Legal Aid Deserts (no unique providers), %s. Total: %d", quarter, desertCount)
		err = DrawMap(path, title, boundaries, func(code string) color.Color {
			if deserts[code] {
				return desertFill
			}
			return neverDesertFill
		}, logger)
		if err != nil {
			return err
		}
	}

	return drawEverDesertMap(filepath.Join(desertsDir, "ever_desert_map.png"), boundaries, rows, logger)
}

func providerRange(rows []paneldb.PanelRow) (min, max float64) {
	for i, r := range rows {
		v := float64(r.UniqueProviders)
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
	}
	return min, max
}

// drawEverDesertMap paints districts that were ever a desert, split by the
// rural classification: red for urban ever-deserts, dark green for rural
// ones, white for districts never without a provider.
func drawEverDesertMap(path string, boundaries []Boundary, rows []paneldb.PanelRow, logger *slog.Logger) error {
	everDesert := make(map[string]bool)
	rural := make(map[string]bool)
	for _, r := range rows {
		everDesert[r.LACode] = r.EverDesert
		rural[r.LACode] = r.Rural
	}

	total, ruralCount := 0, 0
	for code, ever := range everDesert {
		if !ever {
			continue
		}
		total++
		if rural[code] {
			ruralCount++
		}
	}

	title := fmt.Sprintf("Districts Ever a Legal Aid Desert: %d (%d rural, %d urban)",
		total, ruralCount, total-ruralCount)

	return DrawMap(path, title, boundaries, func(code string) color.Color {
		switch {
		case !everDesert[code]:
			return neverDesertFill
		case rural[code]:
			return ruralDesertFill
		default:
			return urbanDesertFill
		}
	}, logger)
}
