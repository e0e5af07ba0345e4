package pullback

import (
	"math"

	"pullback-trader/internal/analysis/indicators"
	"pullback-trader/internal/models"
)

// Segmentation window bounds.
const (
	// MinCandles is the minimum series length for any evaluation.
	MinCandles = 5

	maxUptrendLen      = 15
	maxDeclineLen      = 15
	maxSupportLen      = 10
	uptrendStartWindow = 25

	baseConfidence      = 75.0
	earlyExitConfidence = 75.0

	// entryFraction places the entry 4/5 of the way up the breakout body.
	entryFraction = 0.8
)

// Segmenter searches a candle series for the four-stage pullback shape:
// uptrend, decline, support, breakout. The breakout is always the last
// candle of the series.
type Segmenter struct {
	cfg Config
}

// NewSegmenter creates a segmenter with the given thresholds.
func NewSegmenter(cfg Config) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Segment locates the best stage decomposition ending at the last candle.
// The result is invalid (never an error, never a panic) when no complete
// four-stage shape exists. Scan order is deterministic: identical input
// yields identical boundaries.
func (s *Segmenter) Segment(candles []models.Candle) models.PatternAnalysis {
	n := len(candles)
	if n < MinCandles {
		return invalidAnalysis("series shorter than 5 candles")
	}

	// Baseline volume is the session maximum over the whole series.
	baseline := indicators.BaselineVolume(candles)
	if baseline <= 0 {
		return invalidAnalysis("no volume in session")
	}

	offset := 0
	if s.cfg.Lookback > 0 && n > s.cfg.Lookback {
		offset = n - s.cfg.Lookback
	}
	w := candles[offset:]
	m := len(w)
	breakoutIdx := m - 1

	last := w[breakoutIdx]
	prev := w[breakoutIdx-1]
	if !last.IsBullish() {
		return invalidAnalysis("evaluation candle is not bullish")
	}
	if last.Close <= prev.Close || last.High <= prev.High || last.Volume <= prev.Volume {
		return invalidAnalysis("evaluation candle does not clear previous candle")
	}

	var best models.PatternAnalysis

	startMin := 0
	if m > uptrendStartWindow {
		startMin = m - uptrendStartWindow
	}

	for us := startMin; us <= m-4; us++ {
		maxUE := us + maxUptrendLen - 1
		for ue := us + 1; ue <= m-4 && ue <= maxUE; ue++ {
			uptrend, ok := s.validateUptrend(w, us, ue, baseline)
			if !ok {
				continue
			}

			ds := ue + 1
			maxDE := ds + maxDeclineLen - 1
			for de := ds + 1; de <= m-3 && de <= maxDE; de++ {
				decline, ok := s.validateDecline(w, uptrend, ds, de, baseline)
				if !ok {
					continue
				}

				ss := de + 1
				maxSE := ss + maxSupportLen - 1
				for se := ss; se <= m-2 && se <= maxSE; se++ {
					support, ok := s.validateSupport(w, uptrend, ss, se, baseline)
					if !ok {
						continue
					}
					breakout, ok := s.validateBreakout(w, support, breakoutIdx, baseline)
					if !ok {
						continue
					}

					analysis := s.buildAnalysis(w, offset, uptrend, decline, support, breakout)
					if analysis.BaseConfidence >= earlyExitConfidence {
						return analysis
					}
					if analysis.BaseConfidence > best.BaseConfidence {
						best = analysis
					}
				}
			}
		}
	}

	if !best.Valid {
		return invalidAnalysis("no complete uptrend-decline-support-breakout shape")
	}
	return best
}

func (s *Segmenter) validateUptrend(w []models.Candle, start, end int, baseline int64) (models.UptrendStage, bool) {
	stage := w[start : end+1]
	startClose := w[start].Close
	endClose := w[end].Close
	if startClose <= 0 {
		return models.UptrendStage{}, false
	}

	gain := (endClose - startClose) / startClose
	if gain < s.cfg.UptrendMinGain {
		return models.UptrendStage{}, false
	}

	high := 0.0
	for _, c := range stage {
		if c.High > high {
			high = c.High
		}
	}
	// The rise must end near its own high, not after a rollover.
	if endClose < high*0.8 {
		return models.UptrendStage{}, false
	}

	return models.UptrendStage{
		StartIndex:  start,
		EndIndex:    end,
		CandleCount: len(stage),
		PriceGain:   gain,
		HighPrice:   high,
		// The reported baseline is the session maximum, not the window's.
		MaxVolume: baseline,
		AvgVolume: avgStageVolume(stage),
	}, true
}

func (s *Segmenter) validateDecline(w []models.Candle, uptrend models.UptrendStage, start, end int, baseline int64) (models.DeclineStage, bool) {
	stage := w[start : end+1]
	ref := w[uptrend.EndIndex].Close
	if ref <= 0 {
		return models.DeclineStage{}, false
	}

	trough := stage[0].Close
	for _, c := range stage[1:] {
		if c.Close < trough {
			trough = c.Close
		}
	}

	pct := (ref - trough) / ref
	if pct < s.cfg.DeclineMinPct {
		return models.DeclineStage{}, false
	}

	// A genuine pullback is quiet: distribution-sized volume disqualifies it.
	for _, c := range stage {
		if indicators.VolumeRatio(c.Volume, baseline) > 0.6 {
			return models.DeclineStage{}, false
		}
	}

	return models.DeclineStage{
		StartIndex:     start,
		EndIndex:       end,
		CandleCount:    len(stage),
		DeclinePct:     pct,
		TroughPrice:    trough,
		AvgVolumeRatio: avgStageVolume(stage) / float64(baseline),
	}, true
}

func (s *Segmenter) validateSupport(w []models.Candle, uptrend models.UptrendStage, start, end int, baseline int64) (models.SupportStage, bool) {
	stage := w[start : end+1]

	closes := make([]float64, len(stage))
	for i, c := range stage {
		closes[i] = c.Close
	}
	supportPrice := meanOf(closes)
	if supportPrice <= 0 {
		return models.SupportStage{}, false
	}

	volatility := stdDevOf(closes) / supportPrice
	if volatility > s.cfg.SupportVolatilityMax {
		return models.SupportStage{}, false
	}

	// Support must sit meaningfully below the uptrend high or the "pullback"
	// never happened.
	if uptrend.HighPrice <= 0 || (uptrend.HighPrice-supportPrice)/uptrend.HighPrice < 0.01 {
		return models.SupportStage{}, false
	}

	over30 := 0
	for _, c := range stage {
		ratio := indicators.VolumeRatio(c.Volume, baseline)
		if ratio > 0.5 {
			return models.SupportStage{}, false
		}
		if ratio > 0.3 {
			over30++
		}
	}
	if over30 > 1 {
		return models.SupportStage{}, false
	}

	return models.SupportStage{
		StartIndex:      start,
		EndIndex:        end,
		CandleCount:     len(stage),
		SupportPrice:    supportPrice,
		PriceVolatility: volatility,
		AvgVolumeRatio:  avgStageVolume(stage) / float64(baseline),
		AvgBody:         avgStageBody(stage),
	}, true
}

func (s *Segmenter) validateBreakout(w []models.Candle, support models.SupportStage, idx int, baseline int64) (models.BreakoutStage, bool) {
	c := w[idx]
	prev := w[idx-1]

	// A doji-only support gives no body reference and cannot confirm growth.
	body := c.Body()
	avgBody := support.AvgBody
	if avgBody <= 0 || body < avgBody*(1+s.cfg.BreakoutBodyIncrease) {
		return models.BreakoutStage{}, false
	}

	// Overheated breakout volume signals a blowoff, not an entry.
	volRatio := indicators.VolumeRatio(c.Volume, baseline)
	if volRatio > 0.5 {
		return models.BreakoutStage{}, false
	}

	// The candle must open above the previous body midpoint, or dwarf the
	// previous body outright.
	prevBody := prev.Body()
	if c.Open <= prev.BodyMidpoint() && (prevBody <= 0 || body < prevBody*5.0/3.0) {
		return models.BreakoutStage{}, false
	}

	bodyIncrease := body/avgBody - 1
	volVsPrev := 0.0
	if prev.Volume > 0 {
		volVsPrev = float64(c.Volume) / float64(prev.Volume)
	}

	return models.BreakoutStage{
		Index:             idx,
		BodySize:          body,
		BodyRatio:         c.BodyRatio(),
		Bullish:           c.IsBullish(),
		Volume:            c.Volume,
		VolumeRatioVsPrev: volVsPrev,
		BodyIncrease:      bodyIncrease,
	}, true
}

// buildAnalysis scores pattern quality on top of the 75-point base and
// shifts stage indices back into the full-series frame.
func (s *Segmenter) buildAnalysis(w []models.Candle, offset int, uptrend models.UptrendStage, decline models.DeclineStage, support models.SupportStage, breakout models.BreakoutStage) models.PatternAnalysis {
	confidence := baseConfidence

	switch {
	case uptrend.PriceGain >= 0.05:
		confidence += 8
	case uptrend.PriceGain >= 0.03:
		confidence += 4
	}
	if float64(uptrend.MaxVolume) > uptrend.AvgVolume*1.5 {
		confidence += 2
	}

	switch {
	case decline.DeclinePct >= 0.03:
		confidence += 5
	case decline.DeclinePct >= 0.015:
		confidence += 2
	}
	if decline.AvgVolumeRatio <= 0.3 {
		confidence += 3
	}

	if support.CandleCount >= 3 {
		confidence += 2
	}
	if support.AvgVolumeRatio <= 0.25 {
		confidence += 3
	}
	if support.PriceVolatility <= 0.003 {
		confidence += 2
	}

	switch {
	case breakout.BodyIncrease >= 0.8:
		confidence += 7
	case breakout.BodyIncrease >= 0.5:
		confidence += 4
	}
	// VolumeRatioVsPrev is vol/prev, so a 20% increase reads as >= 1.2.
	if breakout.VolumeRatioVsPrev >= 1.2 {
		confidence += 3
	}

	if confidence > 100 {
		confidence = 100
	}

	bc := w[breakout.Index]
	entry := bc.Open + entryFraction*(bc.Close-bc.Open)

	uptrend.StartIndex += offset
	uptrend.EndIndex += offset
	decline.StartIndex += offset
	decline.EndIndex += offset
	support.StartIndex += offset
	support.EndIndex += offset
	breakout.Index += offset

	return models.PatternAnalysis{
		Valid:          true,
		Uptrend:        &uptrend,
		Decline:        &decline,
		Support:        &support,
		Breakout:       &breakout,
		BaseConfidence: confidence,
		EntryPrice:     entry,
	}
}

func invalidAnalysis(reason string) models.PatternAnalysis {
	return models.PatternAnalysis{
		Valid:   false,
		Reasons: []string{reason},
	}
}

func avgStageVolume(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	var total float64
	for _, c := range candles {
		total += float64(c.Volume)
	}
	return total / float64(len(candles))
}

func avgStageBody(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	var total float64
	for _, c := range candles {
		total += c.Body()
	}
	return total / float64(len(candles))
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func stdDevOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := meanOf(values)
	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
