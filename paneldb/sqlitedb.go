package paneldb

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"lapanel.civiljustice.org.uk/internal/appconf"
	"lapanel.civiljustice.org.uk/internal/logging"
)

// InitDB creates a new SQLite database holding the analysis view of the
// panel: the per-cell activity figures and the derived variables the
// reporting and regression stages read back.
func InitDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != ":memory:" {
		return nil, fmt.Errorf("test environment must use an in-memory database, got %s", config.DBPath)
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	if err := createPanelTable(tx); err != nil {
		logging.SafeRollbackWithLogging(tx, config.Logger, "create panel table")
		return nil, err
	}

	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_panel_lacode ON panel(lacode);
		CREATE INDEX IF NOT EXISTS idx_panel_quarter ON panel(year_quarter);
	`)
	if err != nil {
		logging.SafeRollbackWithLogging(tx, config.Logger, "create panel indexes")
		return nil, fmt.Errorf("error creating indexes: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	if config.verbose {
		logging.LogOperation(config.Logger, "panel table ready", slog.String("path", config.DBPath))
	}

	return db, nil
}

func createPanelTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS panel (
			year_quarter TEXT NOT NULL,
			lacode TEXT NOT NULL,
			localauthority TEXT NOT NULL,
			la_total_volume INTEGER NOT NULL,
			la_total_value REAL NOT NULL,
			adjusted_la_total_value REAL NOT NULL,
			la_val_vol REAL NOT NULL,
			unique_providers INTEGER NOT NULL,
			total_volume INTEGER NOT NULL,
			total_value REAL NOT NULL,
			adjusted_total_value REAL NOT NULL,
			total_unique_providers INTEGER NOT NULL,
			val_vol REAL NOT NULL,
			volume_index REAL NOT NULL,
			value_index REAL NOT NULL,
			cases_index REAL NOT NULL,
			index_15 REAL NOT NULL,
			residents_total REAL NOT NULL,
			working_age REAL NOT NULL,
			log_residents_total REAL NOT NULL,
			log_working_age REAL NOT NULL,
			prop_eth_white REAL NOT NULL,
			prop_hh_owned REAL NOT NULL,
			unemployment_rate REAL NOT NULL,
			exposure REAL NOT NULL,
			post INTEGER NOT NULL,
			desert INTEGER NOT NULL,
			ever_desert INTEGER NOT NULL,
			prop_zero REAL NOT NULL,
			pop_zero REAL NOT NULL,
			is_rural INTEGER NOT NULL,
			PRIMARY KEY (year_quarter, lacode)
		);
	`)
	if err != nil {
		return fmt.Errorf("error creating panel table: %w", err)
	}

	return nil
}
