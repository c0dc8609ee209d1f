package ingest

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/models"
)

// ProviderRecord is one provider-area row from the Legal Aid Agency civil
// completions release: the work a single firm completed in one local
// authority in one financial quarter.
type ProviderRecord struct {
	Quarter  models.Quarter
	LACode   string // current LAD23 code after crosswalk normalisation
	FirmCode string
	Volume   int
	Value    float64
}

// LoadProviderCompletions reads the LAA provider-area completions file,
// converts financial quarters to calendar quarters and normalises local
// authority codes to the current coding scheme.
//
// Rows whose normalised code is not English or Welsh are dropped. English or
// Welsh codes absent from the district lookup are an error: they would
// silently leak volume out of the panel.
func LoadProviderCompletions(path string, crosswalk map[string]string, lookup map[string]models.LocalAuthority, logger *slog.Logger) ([]ProviderRecord, error) {
	header, rows, err := readTable(path, logger)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(path, header,
		"VOL", "Total Value", "Fin_YR", "FIN_QTR", "LACode", "firm_code")
	if err != nil {
		return nil, err
	}

	var (
		records []ProviderRecord
		dropped int
	)
	for n, row := range rows {
		laCode := field(row, cols["LACode"])
		if current, ok := crosswalk[laCode]; ok {
			laCode = current
		}
		if !models.IsEnglandOrWales(laCode) {
			dropped++
			continue
		}
		if _, ok := lookup[laCode]; !ok {
			return nil, fmt.Errorf("%s row %d: local authority %q not in district lookup", path, n+2, laCode)
		}

		quarter, err := parseFinancialQuarter(field(row, cols["Fin_YR"]), field(row, cols["FIN_QTR"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, n+2, err)
		}

		volume, err := strconv.Atoi(field(row, cols["VOL"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid VOL: %w", path, n+2, err)
		}

		records = append(records, ProviderRecord{
			Quarter:  quarter,
			LACode:   laCode,
			FirmCode: field(row, cols["firm_code"]),
			Volume:   volume,
			// Suppressed low-value cells appear as text and count as zero
			Value: coerceFloat(field(row, cols["Total Value"])),
		})
	}

	logging.LogDataset(logger, "provider completions", len(records),
		slog.Int("dropped_non_ew", dropped))

	return records, nil
}

// parseFinancialQuarter converts "2012-13" and "4" style cells into the
// calendar quarter they cover.
func parseFinancialQuarter(finYear, finQtr string) (models.Quarter, error) {
	if len(finYear) < 4 {
		return models.Quarter{}, fmt.Errorf("invalid financial year %q", finYear)
	}
	fyStart, err := strconv.Atoi(finYear[:4])
	if err != nil {
		return models.Quarter{}, fmt.Errorf("invalid financial year %q: %w", finYear, err)
	}

	fq, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(finQtr), "Q"))
	if err != nil {
		return models.Quarter{}, fmt.Errorf("invalid financial quarter %q: %w", finQtr, err)
	}

	return models.QuarterFromFinancial(fyStart, fq)
}
