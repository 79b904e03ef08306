// Package config loads and validates project configuration from
// .cardpress.yml, with CARDPRESS_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/cardpress/cardpress/internal/layout"
)

// Filename is the project configuration file.
const Filename = ".cardpress.yml"

// Config is the top-level cardpress configuration, corresponding to
// .cardpress.yml.
type Config struct {
	// Title is informational; the deck title itself comes from the
	// _title definition.
	Title string `yaml:"title" koanf:"title"`
	// OutputDir receives the generated deck, relative to the project.
	OutputDir string `yaml:"output_dir" koanf:"output_dir"`
	// PreviewDir receives preview builds.
	PreviewDir string `yaml:"preview_dir" koanf:"preview_dir"`
	// Datasources lists explicit CSV paths; discovery applies when empty.
	Datasources []string `yaml:"datasources" koanf:"datasources"`
	// Include holds the discovery glob patterns.
	Include []string `yaml:"include" koanf:"include"`
	// Definitions points at the definitions file; auto-located next to the
	// first datasource when empty.
	Definitions string `yaml:"definitions" koanf:"definitions"`
	// CardSize is the size used when a datasource declares none.
	CardSize string `yaml:"card_size" koanf:"card_size"`
	// ForcePageBreaks starts every datasource on a fresh page.
	ForcePageBreaks bool `yaml:"force_page_breaks" koanf:"force_page_breaks"`
	// DisableBacks skips card backs even when @template-back columns exist.
	DisableBacks bool `yaml:"disable_backs" koanf:"disable_backs"`
	// Verbose prints warnings as they occur instead of only counting them.
	Verbose bool        `yaml:"verbose" koanf:"verbose"`
	Serve   ServeConfig `yaml:"serve" koanf:"serve"`
}

// ServeConfig holds preview server settings.
type ServeConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
	// Watch rebuilds the deck when project files change.
	Watch bool `yaml:"watch" koanf:"watch"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:  "generated",
		PreviewDir: "generated/preview",
		Include:    []string{"*.csv", "**/*.csv"},
		Serve: ServeConfig{
			Host: "127.0.0.1",
			Port: 8765,
			Watch: true,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CARDPRESS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: CARDPRESS_OUTPUT_DIR -> output_dir,
	// CARDPRESS_SERVE__PORT -> serve.port.
	if err := k.Load(env.Provider("CARDPRESS_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "CARDPRESS_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.PreviewDir == "" {
		return fmt.Errorf("preview_dir is required")
	}
	if len(c.Include) == 0 && len(c.Datasources) == 0 {
		return fmt.Errorf("either include patterns or explicit datasources are required")
	}
	if c.CardSize != "" {
		if _, ok := layout.CardSize(c.CardSize); !ok {
			return fmt.Errorf("card_size %q is not a recognized size (one of %s)",
				c.CardSize, strings.Join(layout.Identifiers(), ", "))
		}
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d is out of range", c.Serve.Port)
	}
	return nil
}
