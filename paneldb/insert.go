package paneldb

import (
	"fmt"
	"log/slog"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/panel"
)

// StorePanel replaces the stored panel with the given rows in a single
// transaction, so a failed run never leaves a half-written table.
func (c *Client) StorePanel(rows []panel.Row) error {
	tx, err := c.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM panel;`); err != nil {
		logging.SafeRollbackWithLogging(tx, c.config.Logger, "clear panel table")
		return fmt.Errorf("error clearing panel table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO panel (
			year_quarter, lacode, localauthority,
			la_total_volume, la_total_value, adjusted_la_total_value, la_val_vol,
			unique_providers, total_volume, total_value, adjusted_total_value,
			total_unique_providers, val_vol, volume_index, value_index, cases_index,
			index_15, residents_total, working_age, log_residents_total, log_working_age,
			prop_eth_white, prop_hh_owned, unemployment_rate, exposure,
			post, desert, ever_desert, prop_zero, pop_zero, is_rural
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		logging.SafeRollbackWithLogging(tx, c.config.Logger, "prepare panel insert")
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, r := range rows {
		row := FromPanel(r)
		_, err := stmt.Exec(
			row.YearQuarter, row.LACode, row.LAName,
			row.LAVolume, row.LAValue, row.AdjustedLAValue, row.LAValVol,
			row.UniqueProviders, row.TotalVolume, row.TotalValue, row.AdjustedValue,
			row.TotalUniqueProviders, row.ValVol, row.VolumeIndex, row.ValueIndex, row.CasesIndex,
			row.Index15, row.ResidentsTotal, row.WorkingAge, row.LogResidents, row.LogWorkingAge,
			row.PropEthWhite, row.PropOwned, row.UnemploymentRate, row.Exposure,
			boolToInt(row.Post), boolToInt(row.Desert), boolToInt(row.EverDesert),
			row.PropZero, row.PopZero, boolToInt(row.Rural),
		)
		if err != nil {
			logging.SafeRollbackWithLogging(tx, c.config.Logger, "insert panel rows")
			return fmt.Errorf("error inserting panel row %s %s: %w", row.YearQuarter, row.LACode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	if c.config.verbose {
		logging.LogOperation(c.config.Logger, "panel stored", slog.Int("rows", len(rows)))
	}

	return nil
}
