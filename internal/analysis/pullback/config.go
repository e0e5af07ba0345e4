// Package pullback implements the multi-stage pullback pattern detector:
// stage segmentation, signal scoring and the historical combination filter.
package pullback

// Config holds the detector thresholds. All percentage thresholds are plain
// fractions (0.03 == 3%).
type Config struct {
	// UptrendMinGain is the minimum close-to-close gain for the uptrend leg.
	UptrendMinGain float64
	// DeclineMinPct is the minimum peak-to-trough pullback depth.
	DeclineMinPct float64
	// SupportVolatilityMax is the maximum stdev/mean of support closes.
	SupportVolatilityMax float64
	// BreakoutBodyIncrease is the minimum body growth over the support
	// average body.
	BreakoutBodyIncrease float64
	// LowVolumeThreshold is the quiet-volume band relative to the session
	// baseline, used by retrace checks.
	LowVolumeThreshold float64
	// Lookback caps how many trailing candles the segmenter searches.
	Lookback int
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() Config {
	return Config{
		UptrendMinGain:       0.03,
		DeclineMinPct:        0.005,
		SupportVolatilityMax: 0.015,
		BreakoutBodyIncrease: 0.10,
		LowVolumeThreshold:   0.25,
		Lookback:             35,
	}
}
