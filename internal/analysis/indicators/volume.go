package indicators

import (
	"pullback-trader/internal/models"
)

// Volume band thresholds relative to the session baseline.
const (
	LowVolumeRatio  = 0.25
	HighVolumeRatio = 0.50
	SurgeMultiplier = 1.5
)

// VolumeAnalysis summarizes the current candle's volume against the session.
type VolumeAnalysis struct {
	Baseline  int64
	Current   int64
	RecentAvg float64
	Ratio     float64
	Low       bool
	Moderate  bool
	High      bool
	Surge     bool
}

// BaselineVolume returns the session baseline: the largest single-candle
// volume seen so far, not an average.
func BaselineVolume(candles []models.Candle) int64 {
	return maxVolume(candles)
}

// VolumeRatio returns current volume relative to the baseline, 0 when the
// baseline is empty.
func VolumeRatio(current, baseline int64) float64 {
	if baseline <= 0 {
		return 0
	}
	return float64(current) / float64(baseline)
}

// AnalyzeVolume classifies the last candle's volume. The recent average uses
// the trailing period (including the current candle), matching how surges
// are spotted intraday.
func AnalyzeVolume(candles []models.Candle, period int) VolumeAnalysis {
	if len(candles) == 0 {
		return VolumeAnalysis{}
	}

	current := candles[len(candles)-1].Volume
	baseline := BaselineVolume(candles)
	ratio := VolumeRatio(current, baseline)

	window := candles
	if period > 0 && len(candles) > period {
		window = candles[len(candles)-period:]
	}
	recentAvg := avgVolume(window)

	return VolumeAnalysis{
		Baseline:  baseline,
		Current:   current,
		RecentAvg: recentAvg,
		Ratio:     ratio,
		Low:       ratio <= LowVolumeRatio,
		Moderate:  ratio > LowVolumeRatio && ratio <= HighVolumeRatio,
		High:      ratio > HighVolumeRatio,
		Surge:     recentAvg > 0 && float64(current) > SurgeMultiplier*recentAvg,
	}
}

// recoveryAvgWindow is the trailing window (current candle included) whose
// average volume is the recovery fallback.
const recoveryAvgWindow = 10

// VolumeRecovers reports whether the last candle's volume exceeds every
// volume in the preceding retrace window, or the trailing 10-candle average.
// With fewer than 10 candles the average falls back to the current volume,
// leaving only the retrace-max check.
func VolumeRecovers(candles []models.Candle, retraceLookback int) bool {
	n := len(candles)
	if n < 2 || retraceLookback <= 0 {
		return false
	}

	current := float64(candles[n-1].Volume)

	start := n - 1 - retraceLookback
	if start < 0 {
		start = 0
	}
	retrace := candles[start : n-1]
	if len(retrace) == 0 {
		return false
	}
	if current > float64(maxVolume(retrace)) {
		return true
	}

	recentAvg := current
	if n >= recoveryAvgWindow {
		recentAvg = avgVolume(candles[n-recoveryAvgWindow:])
	}
	return current > recentAvg
}

// HasLowVolumeRetrace reports whether the trailing lookback candles form a
// quiet pullback: every volume at or below threshold of the session
// baseline, and closes never rising.
func HasLowVolumeRetrace(candles []models.Candle, lookback int, threshold float64) bool {
	n := len(candles)
	if lookback < 2 || n < lookback {
		return false
	}

	baseline := BaselineVolume(candles)
	if baseline <= 0 {
		return false
	}

	window := candles[n-lookback:]
	for _, c := range window {
		if VolumeRatio(c.Volume, baseline) > threshold {
			return false
		}
	}
	for i := 1; i < len(window); i++ {
		if window[i].Close > window[i-1].Close {
			return false
		}
	}
	return true
}

// MaxBearishVolume returns the largest volume among bearish candles.
func MaxBearishVolume(candles []models.Candle) int64 {
	var m int64
	for _, c := range candles {
		if c.IsBearish() && c.Volume > m {
			m = c.Volume
		}
	}
	return m
}
