package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/cardpress/cardpress/internal/datasource"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .cardpress.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to cardpress! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	// Project title, informational only; the deck title proper lives in
	// the definitions.
	titlePrompt := promptui.Prompt{
		Label:   "Project title",
		Default: "My deck",
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project title: %w", err)
	}
	cfg.Title = title

	// Datasource discovery scope.
	discoverPrompt := promptui.Select{
		Label: "Which CSV files hold your cards",
		Items: []string{
			"every .csv in the project",
			"only .csv files next to " + Filename,
		},
	}
	discoverIdx, _, err := discoverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("discovery scope: %w", err)
	}
	if discoverIdx == 1 {
		cfg.Include = []string{"*.csv"}
	} else {
		cfg.Include = datasource.DefaultDiscoverPatterns
	}

	// Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the generated deck",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir
	cfg.PreviewDir = outputDir + "/preview"

	// Page breaks between datasources.
	breaksPrompt := promptui.Prompt{
		Label:     "Start every CSV file on a fresh page",
		IsConfirm: true,
	}
	if _, err := breaksPrompt.Run(); err == nil {
		cfg.ForcePageBreaks = true
	}

	// Preview server port.
	portPrompt := promptui.Prompt{
		Label:   "Preview server port",
		Default: strconv.Itoa(cfg.Serve.Port),
		Validate: func(input string) error {
			port, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("preview port: %w", err)
	}
	cfg.Serve.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	if err := cfg.Save(Filename); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", Filename)
	return cfg, nil
}
