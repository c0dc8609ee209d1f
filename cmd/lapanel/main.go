// Command lapanel builds the legal aid panel and its analysis outputs.
//
// Usage:
//
//	lapanel [flags] <stage>
//
// Stages: build, report, maps, regress, all.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"lapanel.civiljustice.org.uk/internal/app"
	"lapanel.civiljustice.org.uk/internal/appconf"
	"lapanel.civiljustice.org.uk/internal/config"
	"lapanel.civiljustice.org.uk/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var envFlag string
	flag.StringVar(&envFlag, "env", cfg.Env, "Environment (development|test|production)")
	flag.StringVar(&cfg.RawDir, "raw-dir", cfg.RawDir, "Directory of raw input files")
	flag.StringVar(&cfg.CleanedDir, "cleaned-dir", cfg.CleanedDir, "Directory for the panel CSV and workbook")
	flag.StringVar(&cfg.GraphicsDir, "graphics-dir", cfg.GraphicsDir, "Directory for charts and maps")
	flag.StringVar(&cfg.RegressionDir, "regression-dir", cfg.RegressionDir, "Directory for regression tables")
	flag.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path of the panel database")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable debug logging")
	flag.Parse()
	cfg.Env = envFlag

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)

	stage := flag.Arg(0)
	if stage == "" {
		fmt.Fprintln(os.Stderr, "usage: lapanel [flags] build|report|maps|regress|all")
		os.Exit(2)
	}

	if err := run(cfg, stage, logger); err != nil {
		logger.Error("stage failed", slog.String("stage", stage), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, stage string, logger *slog.Logger) error {
	env := appconf.EnvFlagToEnvironment(cfg.Env)

	application, err := app.NewApplication(cfg, env, logger)
	if err != nil {
		return err
	}
	defer application.Close() // nolint:errcheck

	logger.Info("starting stage", slog.String("stage", stage), slog.String("env", env.String()))

	switch stage {
	case "build":
		return application.Build()
	case "report":
		return application.Report()
	case "maps":
		return application.Maps()
	case "regress":
		return application.Regress()
	case "all":
		if err := application.Build(); err != nil {
			return err
		}
		if err := application.Report(); err != nil {
			return err
		}
		if err := application.Maps(); err != nil {
			return err
		}
		return application.Regress()
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
}
