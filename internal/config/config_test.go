package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesTemplateAndDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("template config.toml not created: %v", err)
	}

	if cfg.Detector.UptrendMinGain != 0.03 {
		t.Errorf("uptrend_min_gain = %v, want 0.03", cfg.Detector.UptrendMinGain)
	}
	if cfg.Detector.LowVolumeThreshold != 0.25 {
		t.Errorf("low_volume_threshold = %v, want 0.25", cfg.Detector.LowVolumeThreshold)
	}
	if cfg.Detector.Lookback != 35 {
		t.Errorf("lookback = %d, want 35", cfg.Detector.Lookback)
	}
	if !cfg.Journal.Enabled {
		t.Error("journal should default to enabled")
	}
	if cfg.Journal.Path != filepath.Join(dir, "patterns.db") {
		t.Errorf("journal path = %q, want it inside the config dir", cfg.Journal.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	content := `[detector]
uptrend_min_gain = 0.05
lookback = 20

[logging]
level = "debug"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Detector.UptrendMinGain != 0.05 {
		t.Errorf("uptrend_min_gain = %v, want 0.05", cfg.Detector.UptrendMinGain)
	}
	if cfg.Detector.Lookback != 20 {
		t.Errorf("lookback = %d, want 20", cfg.Detector.Lookback)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Detector.DeclineMinPct != 0.005 {
		t.Errorf("decline_min_pct = %v, want default 0.005", cfg.Detector.DeclineMinPct)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PULLBACK_JOURNAL_PATH", "/tmp/override.db")
	t.Setenv("PULLBACK_LOG_LEVEL", "warn")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Journal.Path != "/tmp/override.db" {
		t.Errorf("journal path = %q, want env override", cfg.Journal.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Detector: DetectorConfig{
				UptrendMinGain:       0.03,
				DeclineMinPct:        0.005,
				SupportVolatilityMax: 0.015,
				BreakoutBodyIncrease: 0.10,
				LowVolumeThreshold:   0.25,
				Lookback:             35,
			},
			Logging: LoggingConfig{Level: "info"},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("baseline config should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"gain as percent", func(c *Config) { c.Detector.UptrendMinGain = 3 }},
		{"zero decline", func(c *Config) { c.Detector.DeclineMinPct = 0 }},
		{"negative body increase", func(c *Config) { c.Detector.BreakoutBodyIncrease = -0.1 }},
		{"threshold above one", func(c *Config) { c.Detector.LowVolumeThreshold = 1.5 }},
		{"tiny lookback", func(c *Config) { c.Detector.Lookback = 3 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
