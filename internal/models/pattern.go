package models

// Stage metric structs carry per-stage measurements out of segmentation.
// All percentage-like fields are plain fractions (0.05 == 5%).

// UptrendStage describes the initial rise of a pullback pattern.
type UptrendStage struct {
	StartIndex  int     `json:"start_index"`
	EndIndex    int     `json:"end_index"`
	CandleCount int     `json:"candle_count"`
	PriceGain   float64 `json:"price_gain"`
	HighPrice   float64 `json:"high_price"`
	MaxVolume   int64   `json:"max_volume"`
	AvgVolume   float64 `json:"avg_volume"`
}

// DeclineStage describes the pullback leg after the uptrend.
type DeclineStage struct {
	StartIndex     int     `json:"start_index"`
	EndIndex       int     `json:"end_index"`
	CandleCount    int     `json:"candle_count"`
	DeclinePct     float64 `json:"decline_pct"`
	TroughPrice    float64 `json:"trough_price"`
	AvgVolumeRatio float64 `json:"avg_volume_ratio"`
}

// SupportStage describes the consolidation before the breakout.
type SupportStage struct {
	StartIndex      int     `json:"start_index"`
	EndIndex        int     `json:"end_index"`
	CandleCount     int     `json:"candle_count"`
	SupportPrice    float64 `json:"support_price"`
	PriceVolatility float64 `json:"price_volatility"`
	AvgVolumeRatio  float64 `json:"avg_volume_ratio"`
	AvgBody         float64 `json:"avg_body"`
}

// BreakoutStage describes the evaluation candle that completes the pattern.
type BreakoutStage struct {
	Index             int     `json:"index"`
	BodySize          float64 `json:"body_size"`
	BodyRatio         float64 `json:"body_ratio"`
	Bullish           bool    `json:"bullish"`
	Volume            int64   `json:"volume"`
	VolumeRatioVsPrev float64 `json:"volume_ratio_vs_prev"`
	BodyIncrease      float64 `json:"body_increase"`
}

// PatternAnalysis is the result of stage segmentation. A pattern is valid
// only when all four stages are present; there is no partial validity.
type PatternAnalysis struct {
	Valid          bool           `json:"valid"`
	Uptrend        *UptrendStage  `json:"uptrend,omitempty"`
	Decline        *DeclineStage  `json:"decline,omitempty"`
	Support        *SupportStage  `json:"support,omitempty"`
	Breakout       *BreakoutStage `json:"breakout,omitempty"`
	BaseConfidence float64        `json:"base_confidence"`
	EntryPrice     float64        `json:"entry_price"`
	Reasons        []string       `json:"reasons,omitempty"`
}

// SignalStrength is the immutable scoring result for one evaluation candle.
type SignalStrength struct {
	Type           SignalType     `json:"type"`
	Confidence     float64        `json:"confidence"`
	TargetProfit   float64        `json:"target_profit"`
	VolumeRatio    float64        `json:"volume_ratio"`
	BisectorStatus BisectorStatus `json:"bisector_status"`
	Reasons        []string       `json:"reasons,omitempty"`
}

// IsBuy reports whether the signal gates an entry.
func (s SignalStrength) IsBuy() bool {
	return s.Type == SignalStrongBuy || s.Type == SignalCautiousBuy
}

// TradeOutcome records what happened to a logged pattern.
type TradeOutcome struct {
	Executed   bool    `json:"executed"`
	ProfitRate float64 `json:"profit_rate"`
	ExitReason string  `json:"exit_reason"`
}
