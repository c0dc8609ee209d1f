package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/paneldb"
)

// WriteWorkbook saves the quarterly series and district averages as an Excel
// workbook for co-authors who work outside LaTeX.
func WriteWorkbook(path string, series []paneldb.QuarterSeries, averages []paneldb.LAAverage, logger *slog.Logger) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating workbook directory: %w", err)
	}

	f := excelize.NewFile()
	defer logging.HandleDeferredError(&err, f.Close, logger, "close workbook")

	const quarterly = "Quarterly"
	if err := f.SetSheetName("Sheet1", quarterly); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	quarterlyHeader := []string{
		"year_quarter", "total_volume", "adjusted_total_value", "val_vol",
		"total_unique_providers", "volume_index", "value_index", "cases_index",
		"prop_zero", "pop_zero",
	}
	for i, h := range quarterlyHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(quarterly, cell, h); err != nil {
			return fmt.Errorf("writing quarterly header: %w", err)
		}
	}
	for row, q := range series {
		values := []any{
			q.YearQuarter, q.TotalVolume, q.AdjustedValue, q.ValVol,
			q.TotalUniqueProviders, q.VolumeIndex, q.ValueIndex, q.CasesIndex,
			q.PropZero, q.PopZero,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(quarterly, cell, v); err != nil {
				return fmt.Errorf("writing quarterly row %d: %w", row+1, err)
			}
		}
	}

	const districts = "Districts"
	if _, err := f.NewSheet(districts); err != nil {
		return fmt.Errorf("adding districts sheet: %w", err)
	}

	districtHeader := []string{
		"lacode", "localauthority", "mean_volume", "mean_real_value",
		"mean_providers", "desert_quarters", "ever_desert", "is_rural",
		"residents_total",
	}
	for i, h := range districtHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(districts, cell, h); err != nil {
			return fmt.Errorf("writing district header: %w", err)
		}
	}
	for row, a := range averages {
		values := []any{
			a.LACode, a.LAName, a.MeanVolume, a.MeanValue,
			a.MeanProviders, a.DesertQuarters, a.EverDesert, a.Rural,
			a.ResidentsTotal,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(districts, cell, v); err != nil {
				return fmt.Errorf("writing district row %d: %w", row+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	logging.LogOperation(logger, "workbook written", slog.String("path", path))

	return nil
}
