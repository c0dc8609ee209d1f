package panel

import (
	"fmt"
	"log/slog"
	"math"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/models"
)

// Derive fills in the analysis variables on a built panel: real values from
// the inflation index, value-per-case ratios, rebased indices, logs, LASPO
// exposure and post indicators, desert flags and the rural classification.
//
// Rows are mutated in place. Any quarter missing from the inflation index or
// district missing from the rural classification is fatal.
func Derive(rows []Row, inflation map[models.Quarter]float64, rural map[string]bool, logger *slog.Logger) error {
	if err := adjustForInflation(rows, inflation); err != nil {
		return err
	}
	rebaseIndices(rows)
	deriveLogs(rows)
	deriveExposure(rows)
	deriveDeserts(rows)

	for i := range rows {
		isRural, ok := rural[rows[i].LACode]
		if !ok {
			return fmt.Errorf("rural-urban classification missing local authority %s", rows[i].LACode)
		}
		rows[i].Rural = isRural
		rows[i].Post = rows[i].Quarter.AtOrAfter(models.LASPOQuarter)
	}

	deserts := 0
	for i := range rows {
		if rows[i].Desert {
			deserts++
		}
	}
	logging.LogDataset(logger, "derived panel", len(rows), slog.Int("desert_cells", deserts))

	return nil
}

// adjustForInflation divides nominal values by the quarter's index to get
// constant-terms values, and computes the value-per-case ratios.
func adjustForInflation(rows []Row, inflation map[models.Quarter]float64) error {
	for i := range rows {
		index, ok := inflation[rows[i].Quarter]
		if !ok {
			return fmt.Errorf("inflation index missing quarter %s", rows[i].Quarter)
		}

		rows[i].Index15 = index
		rows[i].AdjustedLAValue = rows[i].LAValue / index
		rows[i].AdjustedValue = rows[i].TotalValue / index

		rows[i].ValVol = 0
		if rows[i].TotalVolume > 0 {
			rows[i].ValVol = rows[i].AdjustedValue / float64(rows[i].TotalVolume)
		}
		rows[i].LAValVol = 0
		if rows[i].LAVolume > 0 {
			rows[i].LAValVol = rows[i].AdjustedLAValue / float64(rows[i].LAVolume)
		}
	}
	return nil
}

// rebaseIndices expresses the national volume, real value and value-per-case
// series relative to the rebase quarter (the last quarter before LASPO took
// effect), scaled to 100.
func rebaseIndices(rows []Row) {
	var baseVolume, baseValue, baseValVol float64
	for i := range rows {
		if rows[i].Quarter == models.RebaseQuarter {
			baseVolume = float64(rows[i].TotalVolume)
			baseValue = rows[i].AdjustedValue
			baseValVol = rows[i].ValVol
			break
		}
	}

	for i := range rows {
		rows[i].VolumeIndex = rebase(float64(rows[i].TotalVolume), baseVolume)
		rows[i].ValueIndex = rebase(rows[i].AdjustedValue, baseValue)
		rows[i].CasesIndex = rebase(rows[i].ValVol, baseValVol)
	}
}

func rebase(v, base float64) float64 {
	if base == 0 {
		return 0
	}
	return v / base * 100
}

func deriveLogs(rows []Row) {
	for i := range rows {
		rows[i].LogResidents = math.Log(rows[i].Census.Population.ResidentsTotal)
		rows[i].LogWorkingAge = math.Log(rows[i].Census.Ages.WorkingAge)
	}
}

// deriveExposure computes each district's average pre-LASPO real legal aid
// value per resident, a time-invariant measure of how reliant the district
// was on the scheme before the reforms.
func deriveExposure(rows []Row) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range rows {
		if rows[i].Quarter.AtOrAfter(models.LASPOQuarter) {
			continue
		}
		sums[rows[i].LACode] += rows[i].AdjustedLAValue / rows[i].Census.Population.ResidentsTotal
		counts[rows[i].LACode]++
	}

	for i := range rows {
		if n := counts[rows[i].LACode]; n > 0 {
			rows[i].Exposure = sums[rows[i].LACode] / float64(n)
		}
	}
}

// deriveDeserts flags LA-quarters with no providers, districts that are ever
// a desert, and the per-quarter desert share and affected population.
func deriveDeserts(rows []Row) {
	everDesert := make(map[string]bool)
	desertCount := make(map[models.Quarter]int)
	quarterRows := make(map[models.Quarter]int)
	popZero := make(map[models.Quarter]float64)

	for i := range rows {
		rows[i].Desert = rows[i].UniqueProviders == 0
		quarterRows[rows[i].Quarter]++
		if rows[i].Desert {
			everDesert[rows[i].LACode] = true
			desertCount[rows[i].Quarter]++
			popZero[rows[i].Quarter] += rows[i].Census.Population.ResidentsTotal
		}
	}

	for i := range rows {
		rows[i].EverDesert = everDesert[rows[i].LACode]
		rows[i].PropZero = float64(desertCount[rows[i].Quarter]) / float64(quarterRows[rows[i].Quarter])
		rows[i].PopZero = popZero[rows[i].Quarter]
	}
}
