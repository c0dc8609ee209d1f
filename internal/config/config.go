package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Names of the raw input files, as published by their sources. The loaders
// fail fast if a file is missing, so the names are fixed here rather than
// configured per run.
const (
	ProviderFile   = "legal-aid-statistics-civil-completions-provider-area-data-to-mar-2024.csv"
	LADLookupFile  = "Local_Authority_District_(2022)_to_Local_Authority_District_(2023)_Lookup_for_EW.csv"
	CrosswalkFile  = "census_la_converter.csv"
	PopulationFile = "raw_census_2011_populations.csv"
	AgesFile       = "raw_census_2011_ages.csv"
	EconomicFile   = "raw_census_2011_economic_activity.csv"
	TenureFile     = "raw_census_2011_housing_tenure.csv"
	EthnicityFile  = "raw_census_2011_ethnicity.csv"
	InflationFile  = "inflation_data.csv"
	RuralUrbanFile = "rural_urban_categories.csv"
	BoundariesFile = "LAD_DEC_2023_UK_BFC.shp"

	PanelFile = "full_panel.csv"
)

// Config holds all the filesystem and runtime settings for a pipeline run.
// Values come from the environment (optionally via a .env file) and may be
// overridden by command-line flags.
type Config struct {
	RawDir        string `env:"LAPANEL_RAW_DIR" envDefault:"raw_data"`
	CleanedDir    string `env:"LAPANEL_CLEANED_DIR" envDefault:"cleaned_data"`
	GraphicsDir   string `env:"LAPANEL_GRAPHICS_DIR" envDefault:"graphics"`
	RegressionDir string `env:"LAPANEL_REGRESSION_DIR" envDefault:"regressions"`
	DBPath        string `env:"LAPANEL_DB_PATH" envDefault:"cleaned_data/panel.db"`
	Env           string `env:"LAPANEL_ENV" envDefault:"development"`
	Verbose       bool   `env:"LAPANEL_VERBOSE"`
}

// Load reads the configuration from the environment. A missing .env file is
// not an error; explicit env vars always win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return cfg, nil
}

// Raw returns the path of a raw input file.
func (c Config) Raw(name string) string {
	return filepath.Join(c.RawDir, name)
}

// PanelPath returns the path the merged panel CSV is written to.
func (c Config) PanelPath() string {
	return filepath.Join(c.CleanedDir, PanelFile)
}

// Graphics returns the path of a graphics output directory.
func (c Config) Graphics(subdir string) string {
	return filepath.Join(c.GraphicsDir, subdir)
}
