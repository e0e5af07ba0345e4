package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Pullback Trader Configuration

[detector]
# Minimum close-to-close gain for the uptrend leg (fraction, 0.03 = 3%)
uptrend_min_gain = 0.03
# Minimum peak-to-trough pullback depth
decline_min_pct = 0.005
# Maximum stdev/mean of support closes
support_volatility_max = 0.015
# Minimum breakout body growth over the support average body
breakout_body_increase = 0.10
# Quiet-volume band relative to the session max volume
low_volume_threshold = 0.25
# How many trailing candles the segmenter searches
lookback = 35

[journal]
# Record detected patterns and trade outcomes to SQLite
enabled = true
# Database path (defaults to patterns.db in the config directory)
# path = "/path/to/patterns.db"

[rules]
# Combination rule table (TOML). Empty uses the built-in table.
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true

[ui]
# Enable colored output
color_enabled = true
# Time format
time_format = "15:04:05"
`

const rulesTemplate = `# Pullback Trader Combination Rules
#
# Exact-match rules over stage tiers. Exclusions are checked before bonuses;
# at most one rule applies per pattern.
#
# Tiers:
#   uptrend:  weak, moderate, strong, overheated
#   decline:  weak, moderate, strong, crash
#   support:  very_stable, stable, moderate, unstable
#   breakout: bearish, weak, moderate, strong, surge

version = 2

[[exclusion]]
uptrend = "overheated"
decline = "crash"
support = "very_stable"
breakout = "surge"
adjustment = -50.0
note = "overheated rise into crash, losing combination"

[[bonus]]
uptrend = "moderate"
decline = "weak"
support = "stable"
breakout = "moderate"
adjustment = 10.0
note = "strong historical win rate"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}

// CreateTemplateRules writes a starter rule table next to the config.
func CreateTemplateRules(configDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "rules.toml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(rulesTemplate), 0644); err != nil {
		return "", fmt.Errorf("writing rules template: %w", err)
	}
	return path, nil
}
