package ingest

import (
	"fmt"
	"log/slog"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/models"
)

// LoadInflation reads the CPIH index file keyed by calendar quarter. The
// index_15 column is a real-terms multiplier (2015 = 1, earlier quarters
// above 1); it is inverted here so the stored value is the deflator that
// divides nominal values. Every panel quarter must have exactly one entry.
func LoadInflation(path string, logger *slog.Logger) (map[models.Quarter]float64, error) {
	header, rows, err := readTable(path, logger)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(path, header, "year_quarter", "index_15")
	if err != nil {
		return nil, err
	}

	index := make(map[models.Quarter]float64, len(rows))
	for n, row := range rows {
		quarter, err := models.ParseQuarter(field(row, cols["year_quarter"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, n+2, err)
		}

		v, err := parseFloat(field(row, cols["index_15"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid index_15: %w", path, n+2, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("%s row %d: index_15 must be positive, got %v", path, n+2, v)
		}

		if _, ok := index[quarter]; ok {
			return nil, fmt.Errorf("%s row %d: duplicate quarter %s", path, n+2, quarter)
		}
		index[quarter] = 1 / v
	}

	logging.LogDataset(logger, "inflation index", len(index))

	return index, nil
}
