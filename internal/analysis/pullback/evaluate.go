package pullback

import (
	"pullback-trader/internal/analysis/indicators"
	"pullback-trader/internal/models"
)

// Detector runs the full evaluation pipeline for one candle series. It is
// pure and holds no mutable state, so one Detector can evaluate many
// instruments concurrently.
type Detector struct {
	cfg       Config
	segmenter *Segmenter
	filter    *ComboFilter
}

// NewDetector creates a detector. A nil rule table uses the default.
func NewDetector(cfg Config, table *RuleTable) *Detector {
	return &Detector{
		cfg:       cfg,
		segmenter: NewSegmenter(cfg),
		filter:    NewComboFilter(table),
	}
}

// Evaluate scores the last candle of the series. Degenerate input degrades
// to AVOID with confidence 0 and a reason; it never panics.
//
// Order matters: hard overrides preempt scoring, segmentation gates it, and
// the combination filter only ever adjusts an existing confidence.
func (d *Detector) Evaluate(candles []models.Candle) (models.SignalStrength, models.PatternAnalysis) {
	if len(candles) < MinCandles {
		analysis := invalidAnalysis("series shorter than 5 candles")
		return avoidSignal("series shorter than 5 candles", 0, models.BisectorBroken), analysis
	}

	va := indicators.AnalyzeVolume(candles, 10)

	if sig, blocked := CheckOverrides(candles, va); blocked {
		analysis := invalidAnalysis(sig.Reasons[0])
		return sig, analysis
	}

	analysis := d.segmenter.Segment(candles)
	if !analysis.Valid {
		reason := "no valid pullback pattern"
		if len(analysis.Reasons) > 0 {
			reason = analysis.Reasons[0]
		}
		sig := avoidSignal(reason, va.Ratio, indicators.BisectorStatusAt(candles[len(candles)-1].Close, indicators.Bisector(candles)))
		return sig, analysis
	}

	ev := GatherEvidence(candles, d.cfg)
	sig := CalculateSignal(ev, va.Ratio)

	adjusted, note := d.filter.Adjust(sig.Confidence, analysis)
	if adjusted != sig.Confidence {
		remapped := signalForConfidence(adjusted)
		remapped.VolumeRatio = sig.VolumeRatio
		remapped.BisectorStatus = sig.BisectorStatus
		remapped.Reasons = sig.Reasons
		if note != "" {
			remapped.Reasons = append(remapped.Reasons, note)
		}
		sig = remapped
	}

	return sig, analysis
}

// Config returns the detector's thresholds.
func (d *Detector) Config() Config {
	return d.cfg
}

// Rules returns the active rule table.
func (d *Detector) Rules() *RuleTable {
	return d.filter.table
}
