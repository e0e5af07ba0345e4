// Package config provides configuration management for the detector.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Detector DetectorConfig `mapstructure:"detector"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DetectorConfig holds the pattern detector thresholds. Percentage fields
// are plain fractions.
type DetectorConfig struct {
	UptrendMinGain       float64 `mapstructure:"uptrend_min_gain"`
	DeclineMinPct        float64 `mapstructure:"decline_min_pct"`
	SupportVolatilityMax float64 `mapstructure:"support_volatility_max"`
	BreakoutBodyIncrease float64 `mapstructure:"breakout_body_increase"`
	LowVolumeThreshold   float64 `mapstructure:"low_volume_threshold"`
	Lookback             int     `mapstructure:"lookback"`
}

// JournalConfig holds pattern journal configuration.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RulesConfig holds combination rule table configuration. An empty path
// uses the compiled-in default table.
type RulesConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	TimeFormat   string `mapstructure:"time_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/pullback-trader"
	}
	return filepath.Join(home, ".config", "pullback-trader")
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. Missing files are created from
// templates.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir, name); err != nil {
				return err
			}
			// Defaults stand until the user edits the template.
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("detector.uptrend_min_gain", 0.03)
	v.SetDefault("detector.decline_min_pct", 0.005)
	v.SetDefault("detector.support_volatility_max", 0.015)
	v.SetDefault("detector.breakout_body_increase", 0.10)
	v.SetDefault("detector.low_volume_threshold", 0.25)
	v.SetDefault("detector.lookback", 35)

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", filepath.Join(configDir, "patterns.db"))
	v.SetDefault("rules.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.time_format", "15:04:05")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PULLBACK_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}
	if v := os.Getenv("PULLBACK_RULES_PATH"); v != "" {
		cfg.Rules.Path = v
	}
	if v := os.Getenv("PULLBACK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	d := c.Detector
	if d.UptrendMinGain <= 0 || d.UptrendMinGain >= 1 {
		return fmt.Errorf("uptrend_min_gain must be a fraction in (0, 1)")
	}
	if d.DeclineMinPct <= 0 || d.DeclineMinPct >= 1 {
		return fmt.Errorf("decline_min_pct must be a fraction in (0, 1)")
	}
	if d.SupportVolatilityMax <= 0 || d.SupportVolatilityMax >= 1 {
		return fmt.Errorf("support_volatility_max must be a fraction in (0, 1)")
	}
	if d.BreakoutBodyIncrease < 0 {
		return fmt.Errorf("breakout_body_increase must be non-negative")
	}
	if d.LowVolumeThreshold <= 0 || d.LowVolumeThreshold > 1 {
		return fmt.Errorf("low_volume_threshold must be a fraction in (0, 1]")
	}
	if d.Lookback < 5 {
		return fmt.Errorf("lookback must be at least 5 candles")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}
