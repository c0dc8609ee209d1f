package paneldb

import (
	"lapanel.civiljustice.org.uk/internal/panel"
)

// PanelRow is the analysis view of one LA-quarter: the subset of panel
// columns the reporting, mapping and regression stages read back from the
// database.
type PanelRow struct {
	YearQuarter          string
	LACode               string
	LAName               string
	LAVolume             int
	LAValue              float64
	AdjustedLAValue      float64
	LAValVol             float64
	UniqueProviders      int
	TotalVolume          int
	TotalValue           float64
	AdjustedValue        float64
	TotalUniqueProviders int
	ValVol               float64
	VolumeIndex          float64
	ValueIndex           float64
	CasesIndex           float64
	Index15              float64
	ResidentsTotal       float64
	WorkingAge           float64
	LogResidents         float64
	LogWorkingAge        float64
	PropEthWhite         float64
	PropOwned            float64
	UnemploymentRate     float64
	Exposure             float64
	Post                 bool
	Desert               bool
	EverDesert           bool
	PropZero             float64
	PopZero              float64
	Rural                bool
}

// FromPanel projects a full panel row onto its analysis view.
func FromPanel(r panel.Row) PanelRow {
	return PanelRow{
		YearQuarter:          r.Quarter.String(),
		LACode:               r.LACode,
		LAName:               r.LAName,
		LAVolume:             r.LAVolume,
		LAValue:              r.LAValue,
		AdjustedLAValue:      r.AdjustedLAValue,
		LAValVol:             r.LAValVol,
		UniqueProviders:      r.UniqueProviders,
		TotalVolume:          r.TotalVolume,
		TotalValue:           r.TotalValue,
		AdjustedValue:        r.AdjustedValue,
		TotalUniqueProviders: r.TotalUniqueProviders,
		ValVol:               r.ValVol,
		VolumeIndex:          r.VolumeIndex,
		ValueIndex:           r.ValueIndex,
		CasesIndex:           r.CasesIndex,
		Index15:              r.Index15,
		ResidentsTotal:       r.Census.Population.ResidentsTotal,
		WorkingAge:           r.Census.Ages.WorkingAge,
		LogResidents:         r.LogResidents,
		LogWorkingAge:        r.LogWorkingAge,
		PropEthWhite:         r.Census.Ethnicity.PropWhite,
		PropOwned:            r.Census.Tenure.PropOwned,
		UnemploymentRate:     r.Census.Economic.UnemploymentRate,
		Exposure:             r.Exposure,
		Post:                 r.Post,
		Desert:               r.Desert,
		EverDesert:           r.EverDesert,
		PropZero:             r.PropZero,
		PopZero:              r.PopZero,
		Rural:                r.Rural,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
