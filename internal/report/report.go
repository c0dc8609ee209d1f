// Package report produces the descriptive outputs of the pipeline: LaTeX
// tables, distribution and time-series charts, and an Excel workbook, all
// derived from the stored panel.
package report

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"lapanel.civiljustice.org.uk/internal/config"
	"lapanel.civiljustice.org.uk/paneldb"
)

// Run generates every table and chart from the stored panel.
func Run(cfg config.Config, client *paneldb.Client, logger *slog.Logger) error {
	rows, err := client.LoadPanel()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("panel database is empty, run the build stage first")
	}

	series, err := client.LoadQuarterSeries()
	if err != nil {
		return err
	}
	averages, err := client.LoadLAAverages()
	if err != nil {
		return err
	}

	statsDir := cfg.Graphics("summary_stats")
	if err := WriteSummaryStats(filepath.Join(statsDir, "summary_stats.tex"), rows, logger); err != nil {
		return err
	}
	if err := WriteQuarterlySummary(filepath.Join(statsDir, "quarterly_summary.tex"), series, logger); err != nil {
		return err
	}
	if err := WriteLACrossPanel(filepath.Join(statsDir, "la_cross_panel.tex"), averages, logger); err != nil {
		return err
	}
	if err := WriteTopBottomDistricts(filepath.Join(statsDir, "top_bottom_districts.tex"), averages, 100, logger); err != nil {
		return err
	}
	if err := WriteEverDesertByRurality(filepath.Join(statsDir, "ever_desert_rurality.tex"), averages, logger); err != nil {
		return err
	}
	if err := WriteVariableDefinitions(filepath.Join(statsDir, "variable_definitions.tex"), logger); err != nil {
		return err
	}

	if err := WriteDistributions(statsDir, rows, logger); err != nil {
		return err
	}
	seriesDir := cfg.Graphics("time_series")
	if err := WriteTimeSeries(seriesDir, series, logger); err != nil {
		return err
	}
	if err := WriteRebasedIndices(filepath.Join(seriesDir, "rebased_indices.png"), series, logger); err != nil {
		return err
	}
	if err := WriteValueDistributionsByYear(filepath.Join(cfg.Graphics("violins"), "val_vol_by_year.png"), rows, logger); err != nil {
		return err
	}

	return WriteWorkbook(filepath.Join(cfg.CleanedDir, "panel_summary.xlsx"), series, averages, logger)
}
