package indicators

import (
	"testing"

	"pullback-trader/internal/models"
)

func TestIsRecoveryCandle(t *testing.T) {
	candles := []models.Candle{
		{Open: 100, Close: 101},
		{Open: 101, Close: 100},
	}

	tests := []struct {
		name string
		i    int
		want bool
	}{
		{"bullish", 0, true},
		{"bearish", 1, false},
		{"negative index", -1, false},
		{"out of range", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoveryCandle(candles, tt.i); got != tt.want {
				t.Errorf("IsRecoveryCandle(%d) = %v, want %v", tt.i, got, tt.want)
			}
		})
	}
}

func TestAnalyzeCandleSizeNeutralOnShortHistory(t *testing.T) {
	candles := []models.Candle{
		{Open: 100, High: 101, Low: 99, Close: 100.5},
	}
	got := AnalyzeCandleSize(candles, 5)
	want := CandleSize{BodyRatio: 0, TotalRange: 0, ExpansionRatio: 1.0}
	if got != want {
		t.Errorf("AnalyzeCandleSize = %+v, want %+v", got, want)
	}
}

func TestAnalyzeCandleSizeExpansion(t *testing.T) {
	candles := []models.Candle{
		{Open: 100, High: 100.5, Low: 99.5, Close: 100.2}, // range 1.0
		{Open: 100.2, High: 100.7, Low: 99.7, Close: 100.4},
		{Open: 100.4, High: 102.4, Low: 100.4, Close: 102.0}, // range 2.0
	}
	got := AnalyzeCandleSize(candles, 3)

	// avg range = (1.0 + 1.0 + 2.0) / 3, expansion = 2.0 / avg = 1.5
	if got.ExpansionRatio < 1.49 || got.ExpansionRatio > 1.51 {
		t.Errorf("ExpansionRatio = %v, want ~1.5", got.ExpansionRatio)
	}
	if got.BodyRatio < 0.79 || got.BodyRatio > 0.81 {
		t.Errorf("BodyRatio = %v, want ~0.8", got.BodyRatio)
	}
}

func TestHasOverheadSupply(t *testing.T) {
	tests := []struct {
		name  string
		highs []float64
		want  bool
	}{
		// Current high 100; hits need prior highs above 101.
		{"two prior peaks", []float64{103, 101.5, 100.2, 100}, true},
		{"one prior peak", []float64{103, 100.8, 100.2, 100}, false},
		{"no peaks", []float64{100.5, 100.8, 100.2, 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := make([]models.Candle, len(tt.highs))
			for i, h := range tt.highs {
				candles[i] = models.Candle{Open: h - 1, High: h, Low: h - 2, Close: h - 0.5, Volume: 100}
			}
			if got := HasOverheadSupply(candles, 10, 2); got != tt.want {
				t.Errorf("HasOverheadSupply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasPriorUptrend(t *testing.T) {
	tests := []struct {
		name    string
		candles []models.Candle
		want    bool
	}{
		{
			"session gain from open",
			[]models.Candle{
				{Open: 100, High: 101, Low: 99.5, Close: 100.8},
				{Open: 100.8, High: 104, Low: 100.5, Close: 103.5},
			},
			true,
		},
		{
			"flat session",
			[]models.Candle{
				{Open: 100, High: 100.5, Low: 99.5, Close: 100.2},
				{Open: 100.2, High: 100.8, Low: 99.8, Close: 100.1},
			},
			false,
		},
		{
			"too short",
			[]models.Candle{{Open: 100, High: 110, Low: 99, Close: 109}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPriorUptrend(tt.candles, 0.03); got != tt.want {
				t.Errorf("HasPriorUptrend = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceTrend(t *testing.T) {
	rising := make([]models.Candle, 10)
	falling := make([]models.Candle, 10)
	flat := make([]models.Candle, 10)
	for i := range rising {
		rising[i] = models.Candle{Close: 100 + float64(i)}
		falling[i] = models.Candle{Close: 110 - float64(i)}
		flat[i] = models.Candle{Close: 100}
	}

	if got := PriceTrend(rising, 10); got != TrendUp {
		t.Errorf("rising closes: got %v, want %v", got, TrendUp)
	}
	if got := PriceTrend(falling, 10); got != TrendDown {
		t.Errorf("falling closes: got %v, want %v", got, TrendDown)
	}
	if got := PriceTrend(flat, 10); got != TrendFlat {
		t.Errorf("flat closes: got %v, want %v", got, TrendFlat)
	}
	if got := PriceTrend(rising, 20); got != TrendFlat {
		t.Errorf("short history: got %v, want %v", got, TrendFlat)
	}
}

func TestRecentLow(t *testing.T) {
	candles := []models.Candle{
		{Low: 99.0},
		{Low: 98.5},
		{Low: 99.2},
		{Low: 99.8},
	}
	low, ok := RecentLow(candles, 3)
	if !ok || low != 98.5 {
		t.Errorf("RecentLow = %v, %v; want 98.5, true", low, ok)
	}
	if _, ok := RecentLow(candles, 5); ok {
		t.Error("expected ok=false when history is shorter than period")
	}
}
