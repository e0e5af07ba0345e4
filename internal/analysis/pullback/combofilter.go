package pullback

import (
	"pullback-trader/internal/models"
)

// Tier labels for each stage category.
const (
	UptrendWeak       = "weak"
	UptrendModerate   = "moderate"
	UptrendStrong     = "strong"
	UptrendOverheated = "overheated"

	DeclineWeak     = "weak"
	DeclineModerate = "moderate"
	DeclineStrong   = "strong"
	DeclineCrash    = "crash"

	SupportVeryStable = "very_stable"
	SupportStable     = "stable"
	SupportModerate   = "moderate"
	SupportUnstable   = "unstable"

	BreakoutBearish  = "bearish"
	BreakoutWeak     = "weak"
	BreakoutModerate = "moderate"
	BreakoutStrong   = "strong"
	BreakoutSurge    = "surge"
)

// Combination is the 4-tuple of stage tiers a pattern classifies into.
type Combination struct {
	Uptrend  string
	Decline  string
	Support  string
	Breakout string
}

// ClassifyUptrend tiers the uptrend gain.
func ClassifyUptrend(gain float64) string {
	switch {
	case gain < 0.03:
		return UptrendWeak
	case gain < 0.05:
		return UptrendModerate
	case gain < 0.07:
		return UptrendStrong
	default:
		return UptrendOverheated
	}
}

// ClassifyDecline tiers the pullback depth.
func ClassifyDecline(pct float64) string {
	switch {
	case pct < 0.015:
		return DeclineWeak
	case pct < 0.025:
		return DeclineModerate
	case pct < 0.04:
		return DeclineStrong
	default:
		return DeclineCrash
	}
}

// ClassifySupport tiers the support volatility.
func ClassifySupport(volatility float64) string {
	switch {
	case volatility <= 0.008:
		return SupportVeryStable
	case volatility <= 0.015:
		return SupportStable
	case volatility <= 0.025:
		return SupportModerate
	default:
		return SupportUnstable
	}
}

// ClassifyBreakout tiers the breakout candle by body-to-range ratio. A
// degenerate range cannot be classified and returns "".
func ClassifyBreakout(bodyRatio float64, bullish bool) string {
	if !bullish {
		return BreakoutBearish
	}
	if bodyRatio < 0 {
		return ""
	}
	switch {
	case bodyRatio < 0.3:
		return BreakoutWeak
	case bodyRatio < 0.6:
		return BreakoutModerate
	case bodyRatio < 0.8:
		return BreakoutStrong
	default:
		return BreakoutSurge
	}
}

// Classify maps a valid analysis onto its combination. ok is false when the
// pattern is invalid or any tier is unclassifiable; such patterns pass the
// filter untouched.
func Classify(analysis models.PatternAnalysis) (Combination, bool) {
	if !analysis.Valid || analysis.Uptrend == nil || analysis.Decline == nil ||
		analysis.Support == nil || analysis.Breakout == nil {
		return Combination{}, false
	}

	combo := Combination{
		Uptrend:  ClassifyUptrend(analysis.Uptrend.PriceGain),
		Decline:  ClassifyDecline(analysis.Decline.DeclinePct),
		Support:  ClassifySupport(analysis.Support.PriceVolatility),
		Breakout: ClassifyBreakout(analysis.Breakout.BodyRatio, analysis.Breakout.Bullish),
	}
	if combo.Breakout == "" {
		return Combination{}, false
	}
	return combo, true
}

// ComboFilter adjusts calculator confidence from historically observed
// stage-tier combinations. Matching is exact: no partial or fuzzy rules.
type ComboFilter struct {
	table *RuleTable
}

// NewComboFilter creates a filter over the given rule table. A nil table
// uses the compiled-in default.
func NewComboFilter(table *RuleTable) *ComboFilter {
	if table == nil {
		table = DefaultRuleTable()
	}
	return &ComboFilter{table: table}
}

// Adjustment returns the confidence delta for the pattern, 0 when no rule
// matches or the pattern cannot be classified. Exclusions win over bonuses;
// at most one rule applies.
func (f *ComboFilter) Adjustment(analysis models.PatternAnalysis) (float64, string) {
	combo, ok := Classify(analysis)
	if !ok {
		return 0, ""
	}
	return f.table.Match(combo)
}

// Adjust applies the matched rule to a confidence value and re-clamps. The
// adjustment is never meaningful on its own; it only shifts the
// calculator's result.
func (f *ComboFilter) Adjust(confidence float64, analysis models.PatternAnalysis) (float64, string) {
	delta, note := f.Adjustment(analysis)
	return clamp(confidence+delta, 0, 100), note
}
