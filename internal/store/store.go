// Package store provides pattern journal persistence.
package store

import (
	"context"
	"time"

	"pullback-trader/internal/models"
)

// PatternRecord is one journaled evaluation with its eventual trade result.
type PatternRecord struct {
	ID        string                 `json:"id"`
	StockID   string                 `json:"stock_id"`
	Timestamp time.Time              `json:"timestamp"`
	Signal    models.SignalStrength  `json:"signal"`
	Analysis  models.PatternAnalysis `json:"analysis"`
	Outcome   *models.TradeOutcome   `json:"outcome,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// PatternJournal records detected patterns and their trade outcomes so the
// combination rule tables can be rebuilt from live results.
type PatternJournal interface {
	// LogPattern stores one evaluation and returns its pattern ID.
	LogPattern(ctx context.Context, stockID string, ts time.Time, sig models.SignalStrength, analysis models.PatternAnalysis) (string, error)
	// UpdateOutcome attaches the trade result to a logged pattern.
	UpdateOutcome(ctx context.Context, patternID string, outcome models.TradeOutcome) error
	// GetPattern fetches one record by ID.
	GetPattern(ctx context.Context, patternID string) (*PatternRecord, error)
	// ListPatterns returns the most recent records, optionally filtered by
	// stock. limit <= 0 means no limit.
	ListPatterns(ctx context.Context, stockID string, limit int) ([]*PatternRecord, error)
	Close() error
}
