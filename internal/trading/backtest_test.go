package trading

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pullback-trader/internal/analysis/pullback"
	apperrors "pullback-trader/internal/errors"
	"pullback-trader/internal/models"
	"pullback-trader/internal/store"
)

// memJournal is an in-memory PatternJournal for replay tests.
type memJournal struct {
	mu       sync.Mutex
	records  map[string]*store.PatternRecord
	sequence int
}

func newMemJournal() *memJournal {
	return &memJournal{records: make(map[string]*store.PatternRecord)}
}

func (j *memJournal) LogPattern(_ context.Context, stockID string, ts time.Time, sig models.SignalStrength, analysis models.PatternAnalysis) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sequence++
	id := fmt.Sprintf("%s_%d", stockID, j.sequence)
	j.records[id] = &store.PatternRecord{
		ID:        id,
		StockID:   stockID,
		Timestamp: ts,
		Signal:    sig,
		Analysis:  analysis,
	}
	return id, nil
}

func (j *memJournal) UpdateOutcome(_ context.Context, patternID string, outcome models.TradeOutcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	rec, ok := j.records[patternID]
	if !ok {
		return apperrors.ErrPatternNotFound
	}
	rec.Outcome = &outcome
	return nil
}

func (j *memJournal) GetPattern(_ context.Context, patternID string) (*store.PatternRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	rec, ok := j.records[patternID]
	if !ok {
		return nil, apperrors.ErrPatternNotFound
	}
	return rec, nil
}

func (j *memJournal) ListPatterns(_ context.Context, stockID string, limit int) ([]*store.PatternRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*store.PatternRecord
	for _, rec := range j.records {
		if stockID != "" && rec.StockID != stockID {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (j *memJournal) Close() error { return nil }

type spec struct {
	o, h, l, c float64
	v          int64
}

func session(specs []spec) []models.Candle {
	start := time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC)
	candles := make([]models.Candle, len(specs))
	for i, s := range specs {
		candles[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * 3 * time.Minute),
			Open:      s.o,
			High:      s.h,
			Low:       s.l,
			Close:     s.c,
			Volume:    s.v,
		}
	}
	return candles
}

// patternSpecs is a session whose final candle completes a pullback shape
// and fires a buy: a 8% rise, a quiet dip, a flat pause, then a breakout.
func patternSpecs() []spec {
	return []spec{
		{99.8, 100.2, 99.5, 100.0, 800},
		{100.0, 101.3, 99.9, 101.2, 1000},
		{101.2, 102.6, 101.0, 102.5, 1200},
		{102.5, 104.1, 102.3, 104.0, 1500},
		{104.0, 106.2, 103.8, 106.0, 2000},
		{106.0, 108.2, 105.8, 108.0, 1800},
		{108.0, 108.0, 107.3, 107.5, 420},
		{107.5, 107.5, 106.8, 107.0, 380},
		{107.0, 107.1, 106.8, 106.95, 350},
		{106.95, 107.0, 106.8, 106.90, 400},
		{107.0, 108.15, 106.85, 108.0, 990},
	}
}

func newTestEngine(journal store.PatternJournal) *Engine {
	detector := pullback.NewDetector(pullback.DefaultConfig(), nil)
	return NewEngine(detector, journal, zerolog.Nop())
}

func TestRunSessionEntersAndHitsTarget(t *testing.T) {
	// One candle past the breakout clears the 2.5% target from the 107.8
	// entry.
	specs := append(patternSpecs(), spec{108.0, 110.9, 107.9, 110.8, 1900})
	journal := newMemJournal()
	engine := newTestEngine(journal)

	result, err := engine.RunSession(context.Background(), "RELIANCE", session(specs))
	if err != nil {
		t.Fatal(err)
	}

	if result.Candles != 12 {
		t.Errorf("candles = %d, want 12", result.Candles)
	}
	if result.BuySignals != 1 {
		t.Errorf("buy signals = %d, want 1", result.BuySignals)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(result.Trades))
	}

	trade := result.Trades[0]
	if trade.ExitReason != string(models.RiskTargetReached) {
		t.Errorf("exit reason = %q, want TARGET_REACHED", trade.ExitReason)
	}
	if trade.EntryPrice != 107.8 {
		t.Errorf("entry = %v, want 107.8", trade.EntryPrice)
	}
	wantProfit := (110.8 - 107.8) / 107.8
	if math.Abs(trade.ProfitRate-wantProfit) > 1e-9 {
		t.Errorf("profit = %v, want %v", trade.ProfitRate, wantProfit)
	}

	if result.WinRate != 1 {
		t.Errorf("win rate = %v, want 1", result.WinRate)
	}
	if math.Abs(result.TotalReturn-wantProfit) > 1e-9 {
		t.Errorf("total return = %v, want %v", result.TotalReturn, wantProfit)
	}
	if result.MaxDrawdown != 0 {
		t.Errorf("max drawdown = %v, want 0", result.MaxDrawdown)
	}

	// The pattern was journaled and its outcome recorded.
	if trade.PatternID == "" {
		t.Fatal("trade should reference a journaled pattern")
	}
	rec, err := journal.GetPattern(context.Background(), trade.PatternID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Outcome == nil || !rec.Outcome.Executed {
		t.Fatal("journaled pattern should carry an executed outcome")
	}
	if rec.Outcome.ExitReason != string(models.RiskTargetReached) {
		t.Errorf("outcome reason = %q, want TARGET_REACHED", rec.Outcome.ExitReason)
	}
}

func TestRunSessionSquaresOffAtSessionEnd(t *testing.T) {
	// The buy fires on the last candle, so the position closes right there.
	engine := newTestEngine(nil)

	result, err := engine.RunSession(context.Background(), "TCS", session(patternSpecs()))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(result.Trades))
	}
	if result.Trades[0].ExitReason != SessionEndReason {
		t.Errorf("exit reason = %q, want %q", result.Trades[0].ExitReason, SessionEndReason)
	}
}

func TestRunSessionTooShort(t *testing.T) {
	engine := newTestEngine(nil)

	_, err := engine.RunSession(context.Background(), "INFY", session(patternSpecs()[:3]))
	if !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestRunSessionHonorsContext(t *testing.T) {
	engine := newTestEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.RunSession(ctx, "SBIN", session(patternSpecs())); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunAll(t *testing.T) {
	journal := newMemJournal()
	engine := newTestEngine(journal)

	sessions := map[string][]models.Candle{
		"RELIANCE": session(patternSpecs()),
		"TCS":      session(patternSpecs()),
	}

	results, err := engine.RunAll(context.Background(), sessions)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for symbol, result := range results {
		if result.Symbol != symbol {
			t.Errorf("result for %s labeled %s", symbol, result.Symbol)
		}
		if result.BuySignals != 1 {
			t.Errorf("%s buy signals = %d, want 1", symbol, result.BuySignals)
		}
	}
}

func TestRunAllPropagatesFirstError(t *testing.T) {
	engine := newTestEngine(nil)

	sessions := map[string][]models.Candle{
		"OK":    session(patternSpecs()),
		"SHORT": session(patternSpecs()[:2]),
	}

	if _, err := engine.RunAll(context.Background(), sessions); !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}
