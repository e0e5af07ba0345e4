package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "pullback-trader/internal/errors"
	"pullback-trader/internal/models"
)

// SQLiteJournal implements PatternJournal using SQLite. Stage metrics are
// stored as their canonical JSON serialization (plain float fractions), so
// a record can be reclassified byte for byte later.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteJournal opens (or creates) the journal database.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS patterns (
		id TEXT PRIMARY KEY,
		stock_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		signal_type TEXT NOT NULL,
		confidence REAL NOT NULL,
		target_profit REAL NOT NULL,
		signal TEXT NOT NULL,
		analysis TEXT NOT NULL,
		trade_executed INTEGER,
		profit_rate REAL,
		exit_reason TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_patterns_stock ON patterns(stock_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_patterns_signal ON patterns(signal_type);
	`
	_, err := j.db.Exec(schema)
	return err
}

// LogPattern stores one evaluation. Pattern IDs are stockID plus a UUID so
// concurrent sessions never collide.
func (j *SQLiteJournal) LogPattern(ctx context.Context, stockID string, ts time.Time, sig models.SignalStrength, analysis models.PatternAnalysis) (string, error) {
	patternID := fmt.Sprintf("%s_%s", stockID, uuid.NewString())

	sigJSON, err := json.Marshal(sig)
	if err != nil {
		return "", apperrors.NewJournalError(patternID, "encoding signal", err)
	}
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return "", apperrors.NewJournalError(patternID, "encoding analysis", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO patterns (id, stock_id, timestamp, signal_type, confidence, target_profit, signal, analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		patternID, stockID, ts, string(sig.Type), sig.Confidence, sig.TargetProfit,
		string(sigJSON), string(analysisJSON))
	if err != nil {
		return "", apperrors.NewJournalError(patternID, "insert", err)
	}
	return patternID, nil
}

// UpdateOutcome attaches the trade result to a logged pattern. ProfitRate is
// stored as NULL when the pattern was never executed.
func (j *SQLiteJournal) UpdateOutcome(ctx context.Context, patternID string, outcome models.TradeOutcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	profit := sql.NullFloat64{Float64: outcome.ProfitRate, Valid: outcome.Executed}
	res, err := j.db.ExecContext(ctx, `
		UPDATE patterns
		SET trade_executed = ?, profit_rate = ?, exit_reason = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		boolToInt(outcome.Executed), profit, outcome.ExitReason, patternID)
	if err != nil {
		return apperrors.NewJournalError(patternID, "update outcome", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewJournalError(patternID, "update outcome", err)
	}
	if rows == 0 {
		return apperrors.NewJournalError(patternID, "update outcome", apperrors.ErrPatternNotFound)
	}
	return nil
}

// GetPattern fetches one record by ID.
func (j *SQLiteJournal) GetPattern(ctx context.Context, patternID string) (*PatternRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, stock_id, timestamp, signal, analysis, trade_executed, profit_rate, exit_reason, created_at, updated_at
		FROM patterns WHERE id = ?`, patternID)

	rec, err := scanPattern(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrPatternNotFound
	}
	if err != nil {
		return nil, apperrors.NewJournalError(patternID, "get", err)
	}
	return rec, nil
}

// ListPatterns returns the most recent records, newest first.
func (j *SQLiteJournal) ListPatterns(ctx context.Context, stockID string, limit int) ([]*PatternRecord, error) {
	query := `
		SELECT id, stock_id, timestamp, signal, analysis, trade_executed, profit_rate, exit_reason, created_at, updated_at
		FROM patterns`
	var args []interface{}
	if stockID != "" {
		query += " WHERE stock_id = ?"
		args = append(args, stockID)
	}
	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewJournalError("", "list", err)
	}
	defer rows.Close()

	var records []*PatternRecord
	for rows.Next() {
		rec, err := scanPattern(rows)
		if err != nil {
			return nil, apperrors.NewJournalError("", "list scan", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPattern(row rowScanner) (*PatternRecord, error) {
	var (
		rec          PatternRecord
		sigJSON      string
		analysisJSON string
		executed     sql.NullInt64
		profit       sql.NullFloat64
		exitReason   sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.StockID, &rec.Timestamp, &sigJSON, &analysisJSON,
		&executed, &profit, &exitReason, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sigJSON), &rec.Signal); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(analysisJSON), &rec.Analysis); err != nil {
		return nil, err
	}
	if executed.Valid {
		rec.Outcome = &models.TradeOutcome{
			Executed:   executed.Int64 != 0,
			ProfitRate: profit.Float64,
			ExitReason: exitReason.String,
		}
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
