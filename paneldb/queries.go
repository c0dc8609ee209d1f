package paneldb

import (
	"fmt"
)

// LoadPanel reads the full stored panel in its canonical order.
func (c *Client) LoadPanel() ([]PanelRow, error) {
	rows, err := c.DB.Query(`
		SELECT year_quarter, lacode, localauthority,
			la_total_volume, la_total_value, adjusted_la_total_value, la_val_vol,
			unique_providers, total_volume, total_value, adjusted_total_value,
			total_unique_providers, val_vol, volume_index, value_index, cases_index,
			index_15, residents_total, working_age, log_residents_total, log_working_age,
			prop_eth_white, prop_hh_owned, unemployment_rate, exposure,
			post, desert, ever_desert, prop_zero, pop_zero, is_rural
		FROM panel
		ORDER BY year_quarter, lacode;
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying panel: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var panel []PanelRow
	for rows.Next() {
		var r PanelRow
		var post, desert, everDesert, rural int
		err := rows.Scan(
			&r.YearQuarter, &r.LACode, &r.LAName,
			&r.LAVolume, &r.LAValue, &r.AdjustedLAValue, &r.LAValVol,
			&r.UniqueProviders, &r.TotalVolume, &r.TotalValue, &r.AdjustedValue,
			&r.TotalUniqueProviders, &r.ValVol, &r.VolumeIndex, &r.ValueIndex, &r.CasesIndex,
			&r.Index15, &r.ResidentsTotal, &r.WorkingAge, &r.LogResidents, &r.LogWorkingAge,
			&r.PropEthWhite, &r.PropOwned, &r.UnemploymentRate, &r.Exposure,
			&post, &desert, &everDesert, &r.PropZero, &r.PopZero, &rural,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning panel row: %w", err)
		}
		r.Post = post == 1
		r.Desert = desert == 1
		r.EverDesert = everDesert == 1
		r.Rural = rural == 1
		panel = append(panel, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading panel rows: %w", err)
	}

	return panel, nil
}

// QuarterSeries is the national view of one quarter.
type QuarterSeries struct {
	YearQuarter          string
	TotalVolume          int
	AdjustedValue        float64
	ValVol               float64
	TotalUniqueProviders int
	VolumeIndex          float64
	ValueIndex           float64
	CasesIndex           float64
	PropZero             float64
	PopZero              float64
}

// LoadQuarterSeries returns the national series, one row per quarter in
// chronological order.
func (c *Client) LoadQuarterSeries() ([]QuarterSeries, error) {
	rows, err := c.DB.Query(`
		SELECT year_quarter, total_volume, adjusted_total_value, val_vol,
			total_unique_providers, volume_index, value_index, cases_index,
			prop_zero, pop_zero
		FROM panel
		GROUP BY year_quarter
		ORDER BY year_quarter;
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying quarter series: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var series []QuarterSeries
	for rows.Next() {
		var q QuarterSeries
		err := rows.Scan(
			&q.YearQuarter, &q.TotalVolume, &q.AdjustedValue, &q.ValVol,
			&q.TotalUniqueProviders, &q.VolumeIndex, &q.ValueIndex, &q.CasesIndex,
			&q.PropZero, &q.PopZero,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning quarter series: %w", err)
		}
		series = append(series, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading quarter series: %w", err)
	}

	return series, nil
}

// LAAverage is the cross-panel view of one district: its averages over all
// forty quarters plus its time-invariant flags.
type LAAverage struct {
	LACode          string
	LAName          string
	MeanVolume      float64
	MeanValue       float64
	MeanProviders   float64
	DesertQuarters  int
	EverDesert      bool
	Rural           bool
	ResidentsTotal  float64
}

// LoadLAAverages returns per-district averages ordered by code.
func (c *Client) LoadLAAverages() ([]LAAverage, error) {
	rows, err := c.DB.Query(`
		SELECT lacode, localauthority,
			AVG(la_total_volume), AVG(adjusted_la_total_value), AVG(unique_providers),
			SUM(desert), MAX(ever_desert), MAX(is_rural), MAX(residents_total)
		FROM panel
		GROUP BY lacode, localauthority
		ORDER BY lacode;
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying district averages: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var averages []LAAverage
	for rows.Next() {
		var a LAAverage
		var everDesert, rural int
		err := rows.Scan(
			&a.LACode, &a.LAName,
			&a.MeanVolume, &a.MeanValue, &a.MeanProviders,
			&a.DesertQuarters, &everDesert, &rural, &a.ResidentsTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning district average: %w", err)
		}
		a.EverDesert = everDesert == 1
		a.Rural = rural == 1
		averages = append(averages, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading district averages: %w", err)
	}

	return averages, nil
}
