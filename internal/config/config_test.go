package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.OutputDir != "generated" {
		t.Errorf("expected default output_dir %q, got %q", "generated", cfg.OutputDir)
	}
	if cfg.PreviewDir != "generated/preview" {
		t.Errorf("expected default preview_dir %q, got %q", "generated/preview", cfg.PreviewDir)
	}
	if cfg.Serve.Port != 8765 {
		t.Errorf("expected default serve.port 8765, got %d", cfg.Serve.Port)
	}
	if !cfg.Serve.Watch {
		t.Error("expected watch enabled by default")
	}
	if len(cfg.Include) != 2 {
		t.Errorf("expected 2 default include patterns, got %d", len(cfg.Include))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.cardpress.yml")

	original := DefaultConfig()
	original.Title = "Example Deck"
	original.OutputDir = "out"
	original.Datasources = []string{"cards.csv", "tokens.csv"}
	original.CardSize = "square"
	original.ForcePageBreaks = true
	original.DisableBacks = true
	original.Serve.Port = 9000

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Title != original.Title {
		t.Errorf("title: got %q, want %q", loaded.Title, original.Title)
	}
	if loaded.OutputDir != original.OutputDir {
		t.Errorf("output_dir: got %q, want %q", loaded.OutputDir, original.OutputDir)
	}
	if !loaded.ForcePageBreaks {
		t.Error("force_page_breaks not round-tripped")
	}
	if loaded.CardSize != "square" || !loaded.DisableBacks {
		t.Error("card_size/disable_backs not round-tripped")
	}
	if loaded.Serve.Port != 9000 {
		t.Errorf("serve.port: got %d, want 9000", loaded.Serve.Port)
	}
	if len(loaded.Datasources) != 2 {
		t.Errorf("datasources length: got %d, want 2", len(loaded.Datasources))
	}
	for i, v := range loaded.Datasources {
		if v != original.Datasources[i] {
			t.Errorf("datasources[%d]: got %q, want %q", i, v, original.Datasources[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutputDir != "generated" {
		t.Errorf("missing file did not yield defaults: output_dir = %q", cfg.OutputDir)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CARDPRESS_OUTPUT_DIR", "elsewhere")
	t.Setenv("CARDPRESS_SERVE__PORT", "4242")

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutputDir != "elsewhere" {
		t.Errorf("output_dir env override not applied: got %q", cfg.OutputDir)
	}
	if cfg.Serve.Port != 4242 {
		t.Errorf("serve.port env override not applied: got %d", cfg.Serve.Port)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }, false},
		{"missing preview dir", func(c *Config) { c.PreviewDir = "" }, false},
		{"no datasources or patterns", func(c *Config) { c.Include = nil }, false},
		{"explicit datasources without patterns", func(c *Config) {
			c.Include = nil
			c.Datasources = []string{"cards.csv"}
		}, true},
		{"port out of range", func(c *Config) { c.Serve.Port = 70000 }, false},
		{"known card size", func(c *Config) { c.CardSize = "jumbo" }, true},
		{"unknown card size", func(c *Config) { c.CardSize = "poster" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
