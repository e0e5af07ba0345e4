package indicators

import (
	"pullback-trader/internal/models"
)

// Bisector tolerances.
const (
	// BisectorBand is the +/- band around the bisector treated as "near".
	BisectorBand = 0.005
	// BisectorCrossTolerance is how far below the line the open must sit
	// for the candle to count as crossing from below.
	BisectorCrossTolerance = 0.002
)

// Bisector returns the midpoint of the session's running high and low.
func Bisector(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	return (highestHigh(candles) + lowestLow(candles)) / 2
}

// BisectorStatusAt classifies price against the bisector: at least 0.5%
// above is HOLDING, within the band is NEAR_SUPPORT, anything else (or a
// degenerate bisector) is BROKEN.
func BisectorStatusAt(price, bisector float64) models.BisectorStatus {
	if bisector <= 0 || price <= 0 {
		return models.BisectorBroken
	}
	diff := (price - bisector) / bisector
	switch {
	case diff >= BisectorBand:
		return models.BisectorHolding
	case diff >= -BisectorBand:
		return models.BisectorNearSupport
	default:
		return models.BisectorBroken
	}
}

// CrossesBisectorUp reports whether the last candle opened clearly below
// the bisector and closed at or above it.
func CrossesBisectorUp(candles []models.Candle) bool {
	if len(candles) == 0 {
		return false
	}
	bisector := Bisector(candles)
	if bisector <= 0 {
		return false
	}
	last := candles[len(candles)-1]
	return last.Open <= bisector*(1-BisectorCrossTolerance) && last.Close >= bisector
}
