// Package trading provides the session replay engine used for backtests.
package trading

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pullback-trader/internal/analysis/pullback"
	apperrors "pullback-trader/internal/errors"
	"pullback-trader/internal/logging"
	"pullback-trader/internal/models"
	"pullback-trader/internal/store"
)

// SessionEndReason marks positions force-closed at the end of a session.
const SessionEndReason = "SESSION_END"

// Trade is one simulated entry/exit pair.
type Trade struct {
	Symbol       string    `json:"symbol"`
	PatternID    string    `json:"pattern_id,omitempty"`
	EntryTime    time.Time `json:"entry_time"`
	ExitTime     time.Time `json:"exit_time"`
	EntryPrice   float64   `json:"entry_price"`
	ExitPrice    float64   `json:"exit_price"`
	TargetProfit float64   `json:"target_profit"`
	ProfitRate   float64   `json:"profit_rate"`
	ExitReason   string    `json:"exit_reason"`
}

// Result summarizes one replayed session.
type Result struct {
	Symbol      string  `json:"symbol"`
	Candles     int     `json:"candles"`
	Evaluations int     `json:"evaluations"`
	BuySignals  int     `json:"buy_signals"`
	Trades      []Trade `json:"trades"`
	WinRate     float64 `json:"win_rate"`
	TotalReturn float64 `json:"total_return"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// Engine replays candle sessions through the detector bar by bar,
// simulating entries on buy signals and exits on risk signals.
type Engine struct {
	detector *pullback.Detector
	journal  store.PatternJournal
	logger   zerolog.Logger
}

// NewEngine creates a backtest engine. journal may be nil to skip
// persistence.
func NewEngine(detector *pullback.Detector, journal store.PatternJournal, logger zerolog.Logger) *Engine {
	return &Engine{
		detector: detector,
		journal:  journal,
		logger:   logger,
	}
}

type openPosition struct {
	patternID string
	entryTime time.Time
	entry     float64
	entryLow  float64
	target    float64
}

// RunSession replays one symbol's session. Evaluation starts once the
// series reaches the detector's minimum length; each bar sees only the
// candles up to and including itself.
func (e *Engine) RunSession(ctx context.Context, symbol string, candles []models.Candle) (*Result, error) {
	if len(candles) < pullback.MinCandles {
		return nil, apperrors.NewSeriesError(symbol, len(candles), "session too short for replay", apperrors.ErrInsufficientData)
	}

	logger := logging.WithSymbol(e.logger, symbol)
	result := &Result{Symbol: symbol, Candles: len(candles)}

	var pos *openPosition

	for i := pullback.MinCandles - 1; i < len(candles); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		window := candles[: i+1 : i+1]
		current := candles[i]

		if pos != nil {
			risks := pullback.DetectRiskSignals(window, pos.entry, pos.entryLow, pos.target)
			if len(risks) > 0 {
				trade := e.closePosition(ctx, symbol, pos, current, string(risks[0]))
				result.Trades = append(result.Trades, trade)
				logging.LogOutcome(logger, trade.PatternID, trade.ProfitRate, trade.ExitReason)
				pos = nil
			}
			continue
		}

		sig, analysis := e.detector.Evaluate(window)
		result.Evaluations++

		var patternID string
		if e.journal != nil && analysis.Valid {
			id, err := e.journal.LogPattern(ctx, symbol, current.Timestamp, sig, analysis)
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to journal pattern")
			} else {
				patternID = id
			}
		}

		if !sig.IsBuy() {
			continue
		}
		result.BuySignals++
		logging.LogSignal(logger, symbol, sig)

		entryLow := current.Low
		pos = &openPosition{
			patternID: patternID,
			entryTime: current.Timestamp,
			entry:     analysis.EntryPrice,
			entryLow:  entryLow,
			target:    sig.TargetProfit,
		}
	}

	// Whatever is still open gets squared off on the last candle.
	if pos != nil {
		trade := e.closePosition(ctx, symbol, pos, candles[len(candles)-1], SessionEndReason)
		result.Trades = append(result.Trades, trade)
	}

	finalizeResult(result)
	return result, nil
}

// RunAll replays many sessions concurrently, one goroutine per symbol.
func (e *Engine) RunAll(ctx context.Context, sessions map[string][]models.Candle) (map[string]*Result, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  = make(map[string]*Result, len(sessions))
		firstErr error
	)

	for symbol, candles := range sessions {
		wg.Add(1)
		go func(symbol string, candles []models.Candle) {
			defer wg.Done()
			result, err := e.RunSession(ctx, symbol, candles)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[symbol] = result
		}(symbol, candles)
	}

	wg.Wait()
	if firstErr != nil {
		return results, firstErr
	}
	return results, nil
}

func (e *Engine) closePosition(ctx context.Context, symbol string, pos *openPosition, current models.Candle, reason string) Trade {
	exit := current.Close
	profit := 0.0
	if pos.entry > 0 {
		profit = (exit - pos.entry) / pos.entry
	}

	trade := Trade{
		Symbol:       symbol,
		PatternID:    pos.patternID,
		EntryTime:    pos.entryTime,
		ExitTime:     current.Timestamp,
		EntryPrice:   pos.entry,
		ExitPrice:    exit,
		TargetProfit: pos.target,
		ProfitRate:   profit,
		ExitReason:   reason,
	}

	if e.journal != nil && pos.patternID != "" {
		outcome := models.TradeOutcome{
			Executed:   true,
			ProfitRate: profit,
			ExitReason: reason,
		}
		if err := e.journal.UpdateOutcome(ctx, pos.patternID, outcome); err != nil {
			e.logger.Warn().Err(err).Str("pattern_id", pos.patternID).Msg("Failed to update outcome")
		}
	}

	return trade
}

func finalizeResult(result *Result) {
	if len(result.Trades) == 0 {
		return
	}

	wins := 0
	var cumulative, peak, maxDrawdown float64
	for _, t := range result.Trades {
		if t.ProfitRate > 0 {
			wins++
		}
		cumulative += t.ProfitRate
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}

	result.WinRate = float64(wins) / float64(len(result.Trades))
	result.TotalReturn = cumulative
	result.MaxDrawdown = maxDrawdown
}
