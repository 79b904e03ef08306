package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/cardpress/cardpress/internal/buildlog"
	"github.com/cardpress/cardpress/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `cardpress init` to create a config file", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openBuildLog opens the build history kept alongside the generated output.
func openBuildLog(cfg *config.Config) (*buildlog.Log, error) {
	return buildlog.Open(filepath.Join(cfg.OutputDir, ".cardpress", buildlog.Filename))
}
