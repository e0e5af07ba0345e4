package pullback

import (
	"pullback-trader/internal/analysis/indicators"
	"pullback-trader/internal/models"
)

// Exit tolerances.
const (
	breakTolerance       = 0.002
	supportLowLookback   = 10
	largeCandleExpansion = 1.3
)

// DetectRiskSignals returns every exit condition the last candle triggers
// for an open position. Multiple signals can fire at once; the caller exits
// on any of them.
func DetectRiskSignals(candles []models.Candle, entryPrice, entryLow, targetProfit float64) []models.RiskSignal {
	n := len(candles)
	if n < 2 {
		return nil
	}

	last := candles[n-1]
	price := last.Close
	var signals []models.RiskSignal

	if entryPrice > 0 && targetProfit > 0 && price >= entryPrice*(1+targetProfit) {
		signals = append(signals, models.RiskTargetReached)
	}

	if bisector := indicators.Bisector(candles); bisector > 0 && price < bisector*(1-breakTolerance) {
		signals = append(signals, models.RiskBisectorBreak)
	}

	if entryLow > 0 && price <= entryLow*(1-breakTolerance) {
		signals = append(signals, models.RiskEntryLowBreak)
	}

	if low, ok := indicators.RecentLow(candles[:n-1], supportLowLookback); ok && price < low*(1-breakTolerance) {
		signals = append(signals, models.RiskSupportBreak)
	}

	if last.IsBearish() {
		size := indicators.AnalyzeCandleSize(candles, 10)
		volume := indicators.AnalyzeVolume(candles, 10)
		if size.ExpansionRatio > largeCandleExpansion && volume.High {
			signals = append(signals, models.RiskLargeBearishVolume)
		}
	}

	return signals
}
