package ingest

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/models"
)

// LoadLADLookup reads the ONS district lookup and returns every English and
// Welsh LAD23 district keyed by code. This set defines the panel's local
// authority dimension.
func LoadLADLookup(path string, logger *slog.Logger) (map[string]models.LocalAuthority, error) {
	header, rows, err := readTable(path, logger)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(path, header, "LAD23CD", "LAD23NM")
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]models.LocalAuthority)
	for _, row := range rows {
		code := field(row, cols["LAD23CD"])
		if !models.IsEnglandOrWales(code) {
			continue
		}
		// The lookup holds one row per LAD22 district, so merged districts
		// repeat their LAD23 code
		if _, ok := lookup[code]; ok {
			continue
		}
		lookup[code] = models.LocalAuthority{
			Code: code,
			Name: field(row, cols["LAD23NM"]),
		}
	}

	if len(lookup) == 0 {
		return nil, fmt.Errorf("%s: no England and Wales districts found", path)
	}

	logging.LogDataset(logger, "district lookup", len(lookup))

	return lookup, nil
}

// SortedLACodes returns the lookup's codes in ascending order, fixing the
// panel's row ordering.
func SortedLACodes(lookup map[string]models.LocalAuthority) []string {
	codes := lo.Keys(lookup)
	sort.Strings(codes)
	return codes
}

// LoadCrosswalk reads the old-to-new local authority code converter. Each
// superseded code must map to exactly one current code; a duplicate mapping
// would make the normalisation ambiguous and aborts the run.
func LoadCrosswalk(path string, logger *slog.Logger) (map[string]string, error) {
	header, rows, err := readTable(path, logger)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(path, header, "Old", "New")
	if err != nil {
		return nil, err
	}

	crosswalk := make(map[string]string, len(rows))
	for n, row := range rows {
		old := field(row, cols["Old"])
		current := field(row, cols["New"])
		if old == "" || current == "" {
			return nil, fmt.Errorf("%s row %d: empty code", path, n+2)
		}
		if existing, ok := crosswalk[old]; ok && existing != current {
			return nil, fmt.Errorf("%s row %d: code %s maps to both %s and %s", path, n+2, old, existing, current)
		}
		crosswalk[old] = current
	}

	logging.LogDataset(logger, "code crosswalk", len(crosswalk))

	return crosswalk, nil
}
