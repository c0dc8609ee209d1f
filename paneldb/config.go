package paneldb

import (
	"log/slog"

	"lapanel.civiljustice.org.uk/internal/appconf"
)

// Config holds configuration options for the Client
type Config struct {
	DBPath  string // Path to SQLite database file
	Env     appconf.Environment
	Logger  *slog.Logger
	verbose bool // Verbose logging
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool, logger *slog.Logger) Config {
	config := Config{
		DBPath:  dbPath,
		Env:     env,
		Logger:  logger,
		verbose: verbose,
	}

	return config
}
