package pullback

import (
	"pullback-trader/internal/analysis/indicators"
	"pullback-trader/internal/models"
)

// Evidence point values. Scoring is purely additive and clamped to [0,100].
const (
	pointsRecoveryCandle   = 20.0
	pointsVolumeRecovery   = 25.0
	pointsLowVolumeRetrace = 15.0
	pointsBisectorHolding  = 20.0
	pointsBisectorNear     = 10.0
	pointsBisectorCrossUp  = 15.0
	pointsVolumeSurge      = 10.0
	penaltyOverheadSupply  = -15.0
	penaltyBisectorBroken  = -20.0
)

// Confidence thresholds and their target profits.
const (
	thresholdStrongBuy   = 80.0
	thresholdCautiousBuy = 60.0
	thresholdWait        = 40.0

	targetStrongBuy   = 0.025
	targetCautiousBuy = 0.020
	targetWait        = 0.015
	targetAvoid       = 0.010
)

// Hard override thresholds.
const (
	sellingPressureRise = 0.03
	// breakoutVolumeMultiple is the minimum volume multiple over the
	// previous candle for a bisector cross-up to count as confirmed.
	breakoutVolumeMultiple = 2.0
)

// Evidence holds the boolean findings the calculator scores.
type Evidence struct {
	RecoveryCandle    bool
	VolumeRecovery    bool
	LowVolumeRetrace  bool
	CrossesBisectorUp bool
	VolumeSurge       bool
	OverheadSupply    bool
	BisectorStatus    models.BisectorStatus
}

// GatherEvidence inspects the series ending at the evaluation candle.
func GatherEvidence(candles []models.Candle, cfg Config) Evidence {
	n := len(candles)
	ev := Evidence{BisectorStatus: models.BisectorBroken}
	if n == 0 {
		return ev
	}

	ev.RecoveryCandle = indicators.IsRecoveryCandle(candles, n-1)
	ev.VolumeRecovery = indicators.VolumeRecovers(candles, 3)
	// The retrace is judged on the candles before the evaluation candle.
	ev.LowVolumeRetrace = indicators.HasLowVolumeRetrace(candles[:n-1], 3, cfg.LowVolumeThreshold)
	ev.CrossesBisectorUp = indicators.CrossesBisectorUp(candles)
	ev.VolumeSurge = indicators.AnalyzeVolume(candles, 10).Surge
	ev.OverheadSupply = indicators.HasOverheadSupply(candles, 10, 2)
	ev.BisectorStatus = indicators.BisectorStatusAt(candles[n-1].Close, indicators.Bisector(candles))
	return ev
}

// CalculateSignal scores the gathered evidence into a signal. The result is
// immutable; callers adjust confidence only through the combination filter.
func CalculateSignal(ev Evidence, volumeRatio float64) models.SignalStrength {
	var confidence float64
	var reasons []string

	if ev.RecoveryCandle {
		confidence += pointsRecoveryCandle
		reasons = append(reasons, "recovery candle")
	}
	if ev.VolumeRecovery {
		confidence += pointsVolumeRecovery
		reasons = append(reasons, "volume recovery")
	}
	if ev.LowVolumeRetrace {
		confidence += pointsLowVolumeRetrace
		reasons = append(reasons, "low-volume retrace")
	}

	switch ev.BisectorStatus {
	case models.BisectorHolding:
		confidence += pointsBisectorHolding
		reasons = append(reasons, "bisector holding")
	case models.BisectorNearSupport:
		confidence += pointsBisectorNear
		reasons = append(reasons, "near bisector support")
	case models.BisectorBroken:
		confidence += penaltyBisectorBroken
		reasons = append(reasons, "bisector broken")
	}

	if ev.CrossesBisectorUp {
		confidence += pointsBisectorCrossUp
		reasons = append(reasons, "bisector cross-up")
	}
	if ev.VolumeSurge {
		confidence += pointsVolumeSurge
		reasons = append(reasons, "volume surge")
	}
	if ev.OverheadSupply {
		confidence += penaltyOverheadSupply
		reasons = append(reasons, "overhead supply")
	}

	confidence = clamp(confidence, 0, 100)

	sig := signalForConfidence(confidence)
	sig.VolumeRatio = volumeRatio
	sig.BisectorStatus = ev.BisectorStatus
	sig.Reasons = reasons
	return sig
}

// CheckOverrides applies the hard AVOID conditions that preempt scoring.
// Each forces confidence 0 with an explicit reason.
func CheckOverrides(candles []models.Candle, va indicators.VolumeAnalysis) (models.SignalStrength, bool) {
	n := len(candles)
	if n < 2 {
		return models.SignalStrength{}, false
	}

	last := candles[n-1]
	status := indicators.BisectorStatusAt(last.Close, indicators.Bisector(candles))

	// Selling pressure: a 3%+ intraday rise unwinding on heavy volume.
	if last.IsBearish() && va.High {
		open := candles[0].Open
		high := 0.0
		for _, c := range candles {
			if c.High > high {
				high = c.High
			}
		}
		if open > 0 && (high-open)/open >= sellingPressureRise {
			return avoidSignal("selling pressure after intraday rise", va.Ratio, status), true
		}
	}

	// A bearish candle out-sizing every earlier bearish candle caps the day.
	if last.IsBearish() {
		if m := indicators.MaxBearishVolume(candles[:n-1]); m > 0 && last.Volume > m {
			return avoidSignal("bearish volume exceeds session max", va.Ratio, status), true
		}
	}

	// A bisector cross-up must be volume confirmed.
	if indicators.CrossesBisectorUp(candles) {
		prev := candles[n-2]
		if prev.Volume > 0 && float64(last.Volume) < breakoutVolumeMultiple*float64(prev.Volume) {
			return avoidSignal("breakout volume below 2x previous candle", va.Ratio, status), true
		}
	}

	return models.SignalStrength{}, false
}

// signalForConfidence maps a confidence value to its signal band and target.
func signalForConfidence(confidence float64) models.SignalStrength {
	switch {
	case confidence >= thresholdStrongBuy:
		return models.SignalStrength{Type: models.SignalStrongBuy, Confidence: confidence, TargetProfit: targetStrongBuy}
	case confidence >= thresholdCautiousBuy:
		return models.SignalStrength{Type: models.SignalCautiousBuy, Confidence: confidence, TargetProfit: targetCautiousBuy}
	case confidence >= thresholdWait:
		return models.SignalStrength{Type: models.SignalWait, Confidence: confidence, TargetProfit: targetWait}
	default:
		return models.SignalStrength{Type: models.SignalAvoid, Confidence: confidence, TargetProfit: targetAvoid}
	}
}

func avoidSignal(reason string, volumeRatio float64, status models.BisectorStatus) models.SignalStrength {
	return models.SignalStrength{
		Type:           models.SignalAvoid,
		Confidence:     0,
		TargetProfit:   targetAvoid,
		VolumeRatio:    volumeRatio,
		BisectorStatus: status,
		Reasons:        []string{reason},
	}
}

// clamp restricts a value to the given range.
func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
