package models

import "testing"

func TestCandleDirection(t *testing.T) {
	tests := []struct {
		name    string
		candle  Candle
		bullish bool
		bearish bool
	}{
		{"bullish", Candle{Open: 100, Close: 101}, true, false},
		{"bearish", Candle{Open: 101, Close: 100}, false, true},
		{"doji", Candle{Open: 100, Close: 100}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.candle.IsBullish(); got != tt.bullish {
				t.Errorf("IsBullish = %v, want %v", got, tt.bullish)
			}
			if got := tt.candle.IsBearish(); got != tt.bearish {
				t.Errorf("IsBearish = %v, want %v", got, tt.bearish)
			}
		})
	}
}

func TestCandleGeometry(t *testing.T) {
	c := Candle{Open: 100, High: 102, Low: 99, Close: 101.5}

	if got := c.Body(); got != 1.5 {
		t.Errorf("Body = %v, want 1.5", got)
	}
	if got := c.Range(); got != 3.0 {
		t.Errorf("Range = %v, want 3.0", got)
	}
	if got := c.BodyMidpoint(); got != 100.75 {
		t.Errorf("BodyMidpoint = %v, want 100.75", got)
	}
	if got := c.BodyRatio(); got != 0.5 {
		t.Errorf("BodyRatio = %v, want 0.5", got)
	}

	bearish := Candle{Open: 101.5, High: 102, Low: 99, Close: 100}
	if got := bearish.Body(); got != 1.5 {
		t.Errorf("bearish Body = %v, want 1.5", got)
	}
}

func TestBodyRatioDegenerateRange(t *testing.T) {
	flat := Candle{Open: 100, High: 100, Low: 100, Close: 100}
	if got := flat.BodyRatio(); got != -1 {
		t.Errorf("BodyRatio on zero range = %v, want -1", got)
	}
}

func TestSignalStrengthIsBuy(t *testing.T) {
	tests := []struct {
		sigType SignalType
		want    bool
	}{
		{SignalStrongBuy, true},
		{SignalCautiousBuy, true},
		{SignalWait, false},
		{SignalAvoid, false},
		{SignalSell, false},
	}

	for _, tt := range tests {
		sig := SignalStrength{Type: tt.sigType}
		if got := sig.IsBuy(); got != tt.want {
			t.Errorf("IsBuy(%s) = %v, want %v", tt.sigType, got, tt.want)
		}
	}
}
