// Package models provides domain models for the pullback detector.
package models

import (
	"time"
)

// SignalType represents the trading signal emitted for an evaluation candle.
type SignalType string

const (
	SignalStrongBuy   SignalType = "STRONG_BUY"
	SignalCautiousBuy SignalType = "CAUTIOUS_BUY"
	SignalWait        SignalType = "WAIT"
	SignalAvoid       SignalType = "AVOID"
	SignalSell        SignalType = "SELL"
)

// BisectorStatus represents where price sits relative to the session bisector.
type BisectorStatus string

const (
	BisectorHolding     BisectorStatus = "HOLDING"
	BisectorNearSupport BisectorStatus = "NEAR_SUPPORT"
	BisectorBroken      BisectorStatus = "BROKEN"
)

// RiskSignal represents a condition that should close an open position.
type RiskSignal string

const (
	RiskTargetReached      RiskSignal = "TARGET_REACHED"
	RiskBisectorBreak      RiskSignal = "BISECTOR_BREAK"
	RiskEntryLowBreak      RiskSignal = "ENTRY_LOW_BREAK"
	RiskSupportBreak       RiskSignal = "SUPPORT_BREAK"
	RiskLargeBearishVolume RiskSignal = "LARGE_BEARISH_VOLUME"
)

// Candle represents OHLCV data for one 3-minute period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// Body returns the absolute open-to-close size.
func (c Candle) Body() float64 {
	if c.Close >= c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-to-low size.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// BodyMidpoint returns the price halfway along the candle body.
func (c Candle) BodyMidpoint() float64 {
	return (c.Open + c.Close) / 2
}

// BodyRatio returns body size relative to total range, or -1 when the
// range is degenerate.
func (c Candle) BodyRatio() float64 {
	r := c.Range()
	if r <= 0 {
		return -1
	}
	return c.Body() / r
}
