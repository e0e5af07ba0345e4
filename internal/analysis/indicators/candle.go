package indicators

import (
	"pullback-trader/internal/models"
)

// Trend represents the direction of recent price movement.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendFlat Trend = "FLAT"
)

// CandleSize holds relative size measurements for a single candle.
type CandleSize struct {
	BodyRatio      float64
	TotalRange     float64
	ExpansionRatio float64
}

// IsRecoveryCandle reports whether the candle at index i closed above its
// open. Out-of-range indices return false.
func IsRecoveryCandle(candles []models.Candle, i int) bool {
	if i < 0 || i >= len(candles) {
		return false
	}
	return candles[i].IsBullish()
}

// AnalyzeCandleSize measures the last candle relative to the average range
// over the preceding period. Short history yields a neutral result.
func AnalyzeCandleSize(candles []models.Candle, period int) CandleSize {
	if period <= 0 || len(candles) < period {
		return CandleSize{BodyRatio: 0, TotalRange: 0, ExpansionRatio: 1.0}
	}

	current := candles[len(candles)-1]
	totalRange := current.Range()

	var bodyRatio float64
	if totalRange > 0 {
		bodyRatio = current.Body() / totalRange
	}

	var avgRange float64
	window := candles[len(candles)-period:]
	for _, c := range window {
		avgRange += c.Range()
	}
	avgRange /= float64(len(window))

	expansion := 1.0
	if avgRange > 0 {
		expansion = totalRange / avgRange
	}

	return CandleSize{
		BodyRatio:      bodyRatio,
		TotalRange:     totalRange,
		ExpansionRatio: expansion,
	}
}

// HasOverheadSupply reports whether at least thresholdHits of the previous
// lookback candles printed highs more than 1% above the current high.
// Supply overhead caps the upside of a fresh breakout.
func HasOverheadSupply(candles []models.Candle, lookback, thresholdHits int) bool {
	n := len(candles)
	if n < 2 || lookback <= 0 || thresholdHits <= 0 {
		return false
	}

	currentHigh := candles[n-1].High
	start := n - 1 - lookback
	if start < 0 {
		start = 0
	}

	hits := 0
	for _, c := range candles[start : n-1] {
		if c.High > currentHigh*1.01 {
			hits++
		}
	}
	return hits >= thresholdHits
}

// HasPriorUptrend reports whether the session shows a qualifying rise before
// the current candle: either the session open to session high gained at
// least minGain, or some recent 3/5/7-candle window rose that much in a
// sustained way.
func HasPriorUptrend(candles []models.Candle, minGain float64) bool {
	if len(candles) < 2 {
		return false
	}

	sessionOpen := candles[0].Open
	if sessionOpen > 0 {
		gain := (highestHigh(candles) - sessionOpen) / sessionOpen
		if gain >= minGain {
			return true
		}
	}

	for _, window := range []int{3, 5, 7} {
		if len(candles) <= window {
			continue
		}
		recent := candles[len(candles)-1-window : len(candles)-1]
		start := recent[0].Close
		if start <= 0 {
			continue
		}
		gain := (highestHigh(recent) - start) / start
		if gain >= minGain && sustainedRise(recent) {
			return true
		}
	}
	return false
}

// sustainedRise requires at least 60% positive closes-over-closes and no
// single candle dropping 2% or more.
func sustainedRise(candles []models.Candle) bool {
	if len(candles) < 2 {
		return false
	}
	ups := 0
	for i := 1; i < len(candles); i++ {
		delta := candles[i].Close - candles[i-1].Close
		if delta > 0 {
			ups++
		}
		if candles[i-1].Close > 0 && delta/candles[i-1].Close <= -0.02 {
			return false
		}
	}
	return float64(ups)/float64(len(candles)-1) >= 0.6
}

// PriceTrend classifies the direction of closes over the trailing period.
func PriceTrend(candles []models.Candle, period int) Trend {
	if period < 2 || len(candles) < period {
		return TrendFlat
	}
	closes := closePrices(candles[len(candles)-period:])
	s := slope(closes)
	m := mean(closes)
	if m <= 0 {
		return TrendFlat
	}
	// Normalize so the threshold is scale independent.
	switch norm := s / m; {
	case norm > 0.0005:
		return TrendUp
	case norm < -0.0005:
		return TrendDown
	default:
		return TrendFlat
	}
}

// RecentLow returns the minimum low over the trailing period.
func RecentLow(candles []models.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period {
		return 0, false
	}
	return lowestLow(candles[len(candles)-period:]), true
}
