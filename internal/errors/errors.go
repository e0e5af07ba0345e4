// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInsufficientData = errors.New("insufficient data for evaluation")
	ErrInvalidSeries    = errors.New("invalid candle series")
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrRuleTableVersion = errors.New("unsupported rule table version")
	ErrPatternNotFound  = errors.New("pattern not found")
	ErrDatabaseError    = errors.New("database error")
	ErrDataNotFound     = errors.New("data not found")
)

// SeriesError represents an error with the input candle series.
type SeriesError struct {
	Symbol  string
	Length  int
	Message string
	Err     error
}

func (e *SeriesError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("series error [%s] %d candles: %s: %v", e.Symbol, e.Length, e.Message, e.Err)
	}
	return fmt.Sprintf("series error [%s] %d candles: %s", e.Symbol, e.Length, e.Message)
}

func (e *SeriesError) Unwrap() error {
	return e.Err
}

// NewSeriesError creates a new SeriesError.
func NewSeriesError(symbol string, length int, message string, err error) *SeriesError {
	return &SeriesError{
		Symbol:  symbol,
		Length:  length,
		Message: message,
		Err:     err,
	}
}

// RuleTableError represents an error loading or validating a combination
// rule table.
type RuleTableError struct {
	Path    string
	Version int
	Message string
	Err     error
}

func (e *RuleTableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rule table error [%s] v%d: %s: %v", e.Path, e.Version, e.Message, e.Err)
	}
	return fmt.Sprintf("rule table error [%s] v%d: %s", e.Path, e.Version, e.Message)
}

func (e *RuleTableError) Unwrap() error {
	return e.Err
}

// NewRuleTableError creates a new RuleTableError.
func NewRuleTableError(path string, version int, message string, err error) *RuleTableError {
	return &RuleTableError{
		Path:    path,
		Version: version,
		Message: message,
		Err:     err,
	}
}

// JournalError represents an error from the pattern journal.
type JournalError struct {
	PatternID string
	Operation string
	Err       error
}

func (e *JournalError) Error() string {
	return fmt.Sprintf("journal error [%s] %s: %v", e.PatternID, e.Operation, e.Err)
}

func (e *JournalError) Unwrap() error {
	return e.Err
}

// NewJournalError creates a new JournalError.
func NewJournalError(patternID, operation string, err error) *JournalError {
	return &JournalError{
		PatternID: patternID,
		Operation: operation,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
