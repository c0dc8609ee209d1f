package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"lapanel.civiljustice.org.uk/internal/logging"
)

// LoadRuralUrban reads the DEFRA rural-urban classification and reports, per
// LAD23 district, whether its category code marks it as rural (codes
// beginning "R").
func LoadRuralUrban(path string, logger *slog.Logger) (map[string]bool, error) {
	header, rows, err := readTable(path, logger)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(path, header, "LAD23CD", "rural_code")
	if err != nil {
		return nil, err
	}

	rural := make(map[string]bool, len(rows))
	for n, row := range rows {
		code := field(row, cols["LAD23CD"])
		if code == "" {
			return nil, fmt.Errorf("%s row %d: empty LAD23CD", path, n+2)
		}
		rural[code] = strings.HasPrefix(field(row, cols["rural_code"]), "R")
	}

	logging.LogDataset(logger, "rural-urban classification", len(rural))

	return rural, nil
}
