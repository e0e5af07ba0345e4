package pullback

import (
	"encoding/json"
	"errors"
	"testing"

	apperrors "pullback-trader/internal/errors"
	"pullback-trader/internal/models"
)

func validAnalysis(gain, declinePct, volatility, bodyRatio float64, bullish bool) models.PatternAnalysis {
	return models.PatternAnalysis{
		Valid:          true,
		Uptrend:        &models.UptrendStage{StartIndex: 0, EndIndex: 5, CandleCount: 6, PriceGain: gain, HighPrice: 108.2},
		Decline:        &models.DeclineStage{StartIndex: 6, EndIndex: 7, CandleCount: 2, DeclinePct: declinePct},
		Support:        &models.SupportStage{StartIndex: 8, EndIndex: 8, CandleCount: 1, PriceVolatility: volatility},
		Breakout:       &models.BreakoutStage{Index: 10, BodyRatio: bodyRatio, Bullish: bullish},
		BaseConfidence: 80,
		EntryPrice:     107.8,
	}
}

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"uptrend weak", ClassifyUptrend(0.029), UptrendWeak},
		{"uptrend moderate", ClassifyUptrend(0.03), UptrendModerate},
		{"uptrend strong", ClassifyUptrend(0.05), UptrendStrong},
		{"uptrend overheated", ClassifyUptrend(0.07), UptrendOverheated},
		{"decline weak", ClassifyDecline(0.0149), DeclineWeak},
		{"decline moderate", ClassifyDecline(0.015), DeclineModerate},
		{"decline strong", ClassifyDecline(0.025), DeclineStrong},
		{"decline crash", ClassifyDecline(0.04), DeclineCrash},
		{"support very stable", ClassifySupport(0.008), SupportVeryStable},
		{"support stable", ClassifySupport(0.015), SupportStable},
		{"support moderate", ClassifySupport(0.025), SupportModerate},
		{"support unstable", ClassifySupport(0.026), SupportUnstable},
		{"breakout bearish", ClassifyBreakout(0.9, false), BreakoutBearish},
		{"breakout weak", ClassifyBreakout(0.29, true), BreakoutWeak},
		{"breakout moderate", ClassifyBreakout(0.3, true), BreakoutModerate},
		{"breakout strong", ClassifyBreakout(0.6, true), BreakoutStrong},
		{"breakout surge", ClassifyBreakout(0.8, true), BreakoutSurge},
		{"breakout degenerate", ClassifyBreakout(-1, true), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestClassifyRequiresAllStages(t *testing.T) {
	analysis := validAnalysis(0.08, 0.009, 0, 0.77, true)

	if _, ok := Classify(analysis); !ok {
		t.Fatal("complete analysis should classify")
	}

	invalid := analysis
	invalid.Valid = false
	if _, ok := Classify(invalid); ok {
		t.Error("invalid analysis must not classify")
	}

	missing := analysis
	missing.Support = nil
	if _, ok := Classify(missing); ok {
		t.Error("analysis missing a stage must not classify")
	}

	degenerate := validAnalysis(0.08, 0.009, 0, -1, true)
	if _, ok := Classify(degenerate); ok {
		t.Error("degenerate breakout range must not classify")
	}
}

func TestMatchExclusionsBeforeBonuses(t *testing.T) {
	combo := Combination{UptrendStrong, DeclineModerate, SupportVeryStable, BreakoutBearish}
	table := &RuleTable{
		Version: RuleTableVersion,
		Exclusions: []Rule{
			{Uptrend: UptrendStrong, Decline: DeclineModerate, Support: SupportVeryStable, Breakout: BreakoutBearish, Adjustment: -20},
		},
		Bonuses: []Rule{
			{Uptrend: UptrendStrong, Decline: DeclineModerate, Support: SupportVeryStable, Breakout: BreakoutBearish, Adjustment: 10},
		},
	}

	if adj, _ := table.Match(combo); adj != -20 {
		t.Errorf("adjustment = %v, want -20 (exclusions win)", adj)
	}
}

func TestMatchIsExact(t *testing.T) {
	table := DefaultRuleTable()

	if adj, _ := table.Match(Combination{UptrendOverheated, DeclineCrash, SupportVeryStable, BreakoutSurge}); adj != -50 {
		t.Errorf("adjustment = %v, want -50", adj)
	}
	// Off by one tier in a single stage: no match, no partial credit.
	if adj, _ := table.Match(Combination{UptrendOverheated, DeclineCrash, SupportStable, BreakoutSurge}); adj != 0 {
		t.Errorf("adjustment = %v, want 0 for a near miss", adj)
	}
}

func TestFilterAdjustClamps(t *testing.T) {
	filter := NewComboFilter(&RuleTable{
		Version: RuleTableVersion,
		Exclusions: []Rule{
			{Uptrend: UptrendOverheated, Decline: DeclineWeak, Support: SupportVeryStable, Breakout: BreakoutStrong, Adjustment: -50, Note: "losing combination"},
		},
		Bonuses: []Rule{
			{Uptrend: UptrendModerate, Decline: DeclineWeak, Support: SupportVeryStable, Breakout: BreakoutStrong, Adjustment: 10, Note: "winning combination"},
		},
	})

	excluded := validAnalysis(0.08, 0.009, 0, 0.77, true)
	if got, note := filter.Adjust(30, excluded); got != 0 || note != "losing combination" {
		t.Errorf("Adjust(30) = %v/%q, want 0 clamped with note", got, note)
	}

	boosted := validAnalysis(0.04, 0.009, 0, 0.77, true)
	if got, _ := filter.Adjust(95, boosted); got != 100 {
		t.Errorf("Adjust(95) = %v, want 100 clamped", got)
	}

	unclassified := validAnalysis(0.08, 0.009, 0, -1, true)
	if got, note := filter.Adjust(55, unclassified); got != 55 || note != "" {
		t.Errorf("Adjust(55) on unclassifiable pattern = %v/%q, want untouched", got, note)
	}
}

func TestRuleTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   RuleTable
		wantErr error
	}{
		{
			"wrong version",
			RuleTable{Version: 1},
			apperrors.ErrRuleTableVersion,
		},
		{
			"positive exclusion",
			RuleTable{Version: RuleTableVersion, Exclusions: []Rule{
				{Uptrend: UptrendWeak, Decline: DeclineWeak, Support: SupportStable, Breakout: BreakoutWeak, Adjustment: 10},
			}},
			nil,
		},
		{
			"negative bonus",
			RuleTable{Version: RuleTableVersion, Bonuses: []Rule{
				{Uptrend: UptrendWeak, Decline: DeclineWeak, Support: SupportStable, Breakout: BreakoutWeak, Adjustment: -10},
			}},
			nil,
		},
		{
			"unknown tier",
			RuleTable{Version: RuleTableVersion, Bonuses: []Rule{
				{Uptrend: "explosive", Decline: DeclineWeak, Support: SupportStable, Breakout: BreakoutWeak, Adjustment: 10},
			}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := DefaultRuleTable().Validate(); err != nil {
		t.Errorf("default table must validate, got %v", err)
	}
}

func TestClassifySurvivesJSONRoundTrip(t *testing.T) {
	analysis := validAnalysis(0.08, 0.009, 0, 0.77, true)
	before, ok := Classify(analysis)
	if !ok {
		t.Fatal("fixture should classify")
	}

	raw, err := json.Marshal(analysis)
	if err != nil {
		t.Fatal(err)
	}
	var decoded models.PatternAnalysis
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	after, ok := Classify(decoded)
	if !ok {
		t.Fatal("decoded analysis should classify")
	}
	if before != after {
		t.Errorf("combination changed across serialization: %v vs %v", before, after)
	}
}
