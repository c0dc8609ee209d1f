package app

import (
	"log/slog"

	"lapanel.civiljustice.org.uk/internal/config"
	"lapanel.civiljustice.org.uk/internal/ingest"
	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/panel"
)

// Build runs the full ETL: load every raw input, assemble the balanced
// district-by-quarter panel, derive the analysis variables, then write the
// panel CSV and replace the stored panel.
func (a *Application) Build() error {
	cfg, logger := a.Config, a.Logger

	crosswalk, err := ingest.LoadCrosswalk(cfg.Raw(config.CrosswalkFile), logger)
	if err != nil {
		return err
	}
	lookup, err := ingest.LoadLADLookup(cfg.Raw(config.LADLookupFile), logger)
	if err != nil {
		return err
	}

	records, err := ingest.LoadProviderCompletions(cfg.Raw(config.ProviderFile), crosswalk, lookup, logger)
	if err != nil {
		return err
	}

	tables, err := loadCensusTables(cfg, crosswalk, logger)
	if err != nil {
		return err
	}
	profiles, err := panel.BuildProfiles(lookup, tables, logger)
	if err != nil {
		return err
	}

	inflation, err := ingest.LoadInflation(cfg.Raw(config.InflationFile), logger)
	if err != nil {
		return err
	}
	rural, err := ingest.LoadRuralUrban(cfg.Raw(config.RuralUrbanFile), logger)
	if err != nil {
		return err
	}

	rows, err := panel.Build(records, lookup, profiles, logger)
	if err != nil {
		return err
	}
	if err := panel.Derive(rows, inflation, rural, logger); err != nil {
		return err
	}

	if err := panel.Write(cfg.PanelPath(), rows, logger); err != nil {
		return err
	}
	if err := a.Store.StorePanel(rows); err != nil {
		return err
	}

	logging.LogOperation(logger, "panel built",
		slog.Int("rows", len(rows)),
		slog.String("csv", cfg.PanelPath()),
		slog.String("db", cfg.DBPath))

	return nil
}

func loadCensusTables(cfg config.Config, crosswalk map[string]string, logger *slog.Logger) (panel.CensusTables, error) {
	var tables panel.CensusTables
	var err error

	if tables.Population, err = ingest.LoadPopulation(cfg.Raw(config.PopulationFile), crosswalk, logger); err != nil {
		return tables, err
	}
	if tables.Ages, err = ingest.LoadAges(cfg.Raw(config.AgesFile), crosswalk, logger); err != nil {
		return tables, err
	}
	if tables.Economic, err = ingest.LoadEconomicActivity(cfg.Raw(config.EconomicFile), crosswalk, logger); err != nil {
		return tables, err
	}
	if tables.Tenure, err = ingest.LoadTenure(cfg.Raw(config.TenureFile), crosswalk, logger); err != nil {
		return tables, err
	}
	if tables.Ethnicity, err = ingest.LoadEthnicity(cfg.Raw(config.EthnicityFile), crosswalk, logger); err != nil {
		return tables, err
	}

	return tables, nil
}
