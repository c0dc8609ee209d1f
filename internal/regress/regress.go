package regress

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"lapanel.civiljustice.org.uk/internal/config"
	"lapanel.civiljustice.org.uk/paneldb"
)

// The three activity outcomes modelled by the pooled OLS and the
// difference-in-differences specifications.
func activityOutcomes() []Term {
	return []Term{
		{"adjusted_la_total_value", func(r paneldb.PanelRow) float64 { return r.AdjustedLAValue }},
		{"la_total_volume", func(r paneldb.PanelRow) float64 { return float64(r.LAVolume) }},
		{"unique_providers", func(r paneldb.PanelRow) float64 { return float64(r.UniqueProviders) }},
	}
}

func boolTerm(name string, value func(paneldb.PanelRow) bool) Term {
	return Term{name, func(r paneldb.PanelRow) float64 {
		if value(r) {
			return 1
		}
		return 0
	}}
}

// Run estimates every model on the stored panel and writes the coefficient
// tables: pooled OLS of each activity outcome on the census covariates,
// probits of desert status with rurality, and the exposure-based
// difference-in-differences of the reforms. OLS and DiD models are also
// estimated on the central 80 percent of each outcome's distribution.
func Run(cfg config.Config, client *paneldb.Client, logger *slog.Logger) error {
	rows, err := client.LoadPanel()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("panel database is empty, run the build stage first")
	}

	if err := runBasicModels(cfg, rows, logger); err != nil {
		return err
	}
	if err := runProbitModels(cfg, rows, logger); err != nil {
		return err
	}
	return runDiDModels(cfg, rows, logger)
}

// runBasicModels fits the pooled OLS of each outcome on the census
// covariates with quarter fixed effects, on the full sample and trimmed.
func runBasicModels(cfg config.Config, rows []paneldb.PanelRow, logger *slog.Logger) error {
	for _, outcome := range activityOutcomes() {
		fits := []struct {
			rows  []paneldb.PanelRow
			file  string
			title string
		}{
			{rows, "model_basic_%s.tex", "OLS: %s on census covariates"},
			{trimToCentralBand(rows, outcome), "model_basic_trimmed_%s.tex",
				"OLS: %s on census covariates, central 80%% of outcome"},
		}

		for _, spec := range fits {
			frame, err := NewFrame(spec.rows, outcome, censusTerms())
			if err != nil {
				return err
			}
			fit, err := FitOLS(frame)
			if err != nil {
				return fmt.Errorf("fitting OLS for %s: %w", outcome.Name, err)
			}

			path := filepath.Join(cfg.RegressionDir, fmt.Sprintf(spec.file, outcome.Name))
			title := fmt.Sprintf(spec.title, outcome.Name)
			if err := WriteTex(path, title, fit, logger); err != nil {
				return err
			}
		}
	}
	return nil
}

// runProbitModels fits desert and ever-desert probits with the rural
// indicator, writing both the coefficient table and the marginal effects at
// the covariate means.
func runProbitModels(cfg config.Config, rows []paneldb.PanelRow, logger *slog.Logger) error {
	outcomes := []Term{
		boolTerm("desert", func(r paneldb.PanelRow) bool { return r.Desert }),
		boolTerm("ever_desert", func(r paneldb.PanelRow) bool { return r.EverDesert }),
	}
	terms := append(censusTerms(), boolTerm("is_rural", func(r paneldb.PanelRow) bool { return r.Rural }))

	for _, outcome := range outcomes {
		frame, err := NewFrame(rows, outcome, terms)
		if err != nil {
			return err
		}
		fit, err := FitProbit(frame)
		if err != nil {
			return fmt.Errorf("fitting probit for %s: %w", outcome.Name, err)
		}

		path := filepath.Join(cfg.RegressionDir, fmt.Sprintf("model_probit_rural_%s.tex", outcome.Name))
		title := fmt.Sprintf("Probit: %s on census covariates and rurality", outcome.Name)
		if err := WriteTex(path, title, fit, logger); err != nil {
			return err
		}

		mfx, err := MarginalEffects(frame, fit)
		if err != nil {
			return fmt.Errorf("marginal effects for %s: %w", outcome.Name, err)
		}

		path = filepath.Join(cfg.RegressionDir, fmt.Sprintf("model_probit_mfx_rural_%s.tex", outcome.Name))
		title = fmt.Sprintf("Probit marginal effects at the mean: %s", outcome.Name)
		if err := WriteTex(path, title, mfx, logger); err != nil {
			return err
		}
	}
	return nil
}

// runDiDModels fits the difference-in-differences: exposure interacted with
// the post-reform indicator, without a post main effect since the quarter
// fixed effects absorb it.
func runDiDModels(cfg config.Config, rows []paneldb.PanelRow, logger *slog.Logger) error {
	terms := []Term{
		{"exposure", func(r paneldb.PanelRow) float64 { return r.Exposure }},
		{"post_x_exposure", func(r paneldb.PanelRow) float64 {
			if r.Post {
				return r.Exposure
			}
			return 0
		}},
	}
	terms = append(terms, censusTerms()...)

	for _, outcome := range activityOutcomes() {
		fits := []struct {
			rows  []paneldb.PanelRow
			file  string
			title string
		}{
			{rows, "DiD_%s.tex", "Difference-in-differences: %s"},
			{trimToCentralBand(rows, outcome), "DiD_trimmed_%s.tex",
				"Difference-in-differences: %s, central 80%% of outcome"},
		}

		for _, spec := range fits {
			frame, err := NewFrame(spec.rows, outcome, terms)
			if err != nil {
				return err
			}
			fit, err := FitOLS(frame)
			if err != nil {
				return fmt.Errorf("fitting DiD for %s: %w", outcome.Name, err)
			}

			path := filepath.Join(cfg.RegressionDir, fmt.Sprintf(spec.file, outcome.Name))
			title := fmt.Sprintf(spec.title, outcome.Name)
			if err := WriteTex(path, title, fit, logger); err != nil {
				return err
			}
		}
	}
	return nil
}
