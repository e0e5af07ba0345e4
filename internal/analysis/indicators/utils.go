// Package indicators provides candle, volume and bisector measurements used
// by the pullback pattern detector.
package indicators

import (
	"pullback-trader/internal/models"
)

// sum calculates the sum of a slice of float64.
func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// mean calculates the arithmetic mean of a slice of float64.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// slope returns the least-squares slope of values against their index.
func slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// closePrices extracts close prices from candles.
func closePrices(candles []models.Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	return prices
}

// highestHigh returns the maximum high over the candles.
func highestHigh(candles []models.Candle) float64 {
	h := 0.0
	for i, c := range candles {
		if i == 0 || c.High > h {
			h = c.High
		}
	}
	return h
}

// lowestLow returns the minimum low over the candles.
func lowestLow(candles []models.Candle) float64 {
	l := 0.0
	for i, c := range candles {
		if i == 0 || c.Low < l {
			l = c.Low
		}
	}
	return l
}

// maxVolume returns the largest single-candle volume over the candles.
func maxVolume(candles []models.Candle) int64 {
	var m int64
	for _, c := range candles {
		if c.Volume > m {
			m = c.Volume
		}
	}
	return m
}

// avgVolume returns the mean volume over the candles.
func avgVolume(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	var total float64
	for _, c := range candles {
		total += float64(c.Volume)
	}
	return total / float64(len(candles))
}
