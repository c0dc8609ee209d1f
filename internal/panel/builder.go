package panel

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"lapanel.civiljustice.org.uk/internal/ingest"
	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/models"
)

// Row is one local authority in one calendar quarter: the legal aid activity
// observed there, the national totals for context, the district's census
// covariates, and the derived analysis variables.
type Row struct {
	Quarter models.Quarter
	LACode  string
	LAName  string

	// Per-district legal aid activity
	LAVolume        int
	LAValue         float64
	UniqueProviders int

	// National totals for the quarter
	TotalVolume          int
	TotalValue           float64
	TotalUniqueProviders int

	Census *CensusProfile

	// Inflation adjustment: real values are nominal divided by Index15
	Index15         float64
	AdjustedLAValue float64
	AdjustedValue   float64

	// Value-per-case ratios and rebased indices
	ValVol      float64
	LAValVol    float64
	VolumeIndex float64
	ValueIndex  float64
	CasesIndex  float64

	// Derived analysis variables
	LogResidents  float64
	LogWorkingAge float64
	Exposure      float64
	Post          bool
	Desert        bool
	EverDesert    bool
	PropZero      float64
	PopZero       float64
	Rural         bool
}

// cellTotals accumulates one LA-quarter (or national-quarter) cell during
// aggregation. Provider uniqueness is tracked by firm code.
type cellTotals struct {
	volume int
	value  float64
	firms  map[string]struct{}
}

func (c *cellTotals) add(r ingest.ProviderRecord) {
	c.volume += r.Volume
	c.value += r.Value
	if c.firms == nil {
		c.firms = make(map[string]struct{})
	}
	c.firms[r.FirmCode] = struct{}{}
}

type cellKey struct {
	quarter models.Quarter
	laCode  string
}

// Build constructs the balanced panel: every district in the lookup appears
// in every quarter from 2010-q1 to 2019-q4, with zeros where no legal aid
// work was recorded. Derived variables are filled in by Derive.
func Build(records []ingest.ProviderRecord, lookup map[string]models.LocalAuthority, profiles map[string]*CensusProfile, logger *slog.Logger) ([]Row, error) {
	laCells := make(map[cellKey]*cellTotals)
	nationalCells := make(map[models.Quarter]*cellTotals)

	for _, r := range records {
		key := cellKey{quarter: r.Quarter, laCode: r.LACode}
		cell, ok := laCells[key]
		if !ok {
			cell = &cellTotals{}
			laCells[key] = cell
		}
		cell.add(r)

		national, ok := nationalCells[r.Quarter]
		if !ok {
			national = &cellTotals{}
			nationalCells[r.Quarter] = national
		}
		national.add(r)
	}

	quarters := models.QuarterRange(models.PanelStart, models.PanelEnd)
	laCodes := ingest.SortedLACodes(lookup)

	rows := make([]Row, 0, len(quarters)*len(laCodes))
	for _, quarter := range quarters {
		var national cellTotals
		if cell, ok := nationalCells[quarter]; ok {
			national = *cell
		}

		for _, laCode := range laCodes {
			profile, ok := profiles[laCode]
			if !ok {
				return nil, fmt.Errorf("no census profile for local authority %s", laCode)
			}

			row := Row{
				Quarter:              quarter,
				LACode:               laCode,
				LAName:               lookup[laCode].Name,
				TotalVolume:          national.volume,
				TotalValue:           national.value,
				TotalUniqueProviders: len(national.firms),
				Census:               profile,
			}
			if cell, ok := laCells[cellKey{quarter: quarter, laCode: laCode}]; ok {
				row.LAVolume = cell.volume
				row.LAValue = cell.value
				row.UniqueProviders = len(cell.firms)
			}
			rows = append(rows, row)
		}
	}

	observed := lo.CountBy(rows, func(r Row) bool { return r.LAVolume > 0 })
	logging.LogDataset(logger, "balanced panel", len(rows),
		slog.Int("districts", len(laCodes)),
		slog.Int("quarters", len(quarters)),
		slog.Int("cells_with_activity", observed))

	return rows, nil
}
