// Package app wires the pipeline stages to their shared dependencies: the
// configuration, the structured logger and the panel store.
package app

import (
	"log/slog"

	"lapanel.civiljustice.org.uk/internal/appconf"
	"lapanel.civiljustice.org.uk/internal/config"
	"lapanel.civiljustice.org.uk/internal/geo"
	"lapanel.civiljustice.org.uk/internal/regress"
	"lapanel.civiljustice.org.uk/internal/report"
	"lapanel.civiljustice.org.uk/paneldb"
)

// Application holds the dependencies the pipeline stages share. Every stage
// reads its inputs through Config and its panel through Store.
type Application struct {
	Config config.Config
	Env    appconf.Environment
	Logger *slog.Logger
	Store  *paneldb.Client
}

// NewApplication opens the panel store and assembles the application.
func NewApplication(cfg config.Config, env appconf.Environment, logger *slog.Logger) (*Application, error) {
	store, err := paneldb.NewClient(paneldb.NewConfig(cfg.DBPath, env, cfg.Verbose, logger))
	if err != nil {
		return nil, err
	}

	return &Application{
		Config: cfg,
		Env:    env,
		Logger: logger,
		Store:  store,
	}, nil
}

// Close releases the panel store.
func (a *Application) Close() error {
	return a.Store.Close()
}

// Report writes the descriptive tables, charts and the summary workbook.
func (a *Application) Report() error {
	return report.Run(a.Config, a.Store, a.Logger)
}

// Maps draws the quarterly choropleth maps and the ever-desert overview.
func (a *Application) Maps() error {
	return geo.Run(a.Config, a.Store, a.Logger)
}

// Regress estimates the regression models and writes their tables.
func (a *Application) Regress() error {
	return regress.Run(a.Config, a.Store, a.Logger)
}
