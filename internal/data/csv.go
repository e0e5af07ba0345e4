// Package data loads candle sessions from CSV exports.
package data

import (
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "pullback-trader/internal/errors"
	"pullback-trader/internal/models"
	"pullback-trader/pkg/utils"
)

// LooseFloat is a float64 that tolerates thousands separators and percent
// suffixes; unparseable text becomes 0 instead of failing the row.
type LooseFloat float64

// UnmarshalCSV implements gocsv field decoding.
func (f *LooseFloat) UnmarshalCSV(s string) error {
	*f = LooseFloat(utils.ParseLooseFloat(s))
	return nil
}

// MarshalCSV implements gocsv field encoding.
func (f LooseFloat) MarshalCSV() (string, error) {
	return utils.FormatPrice(float64(f)), nil
}

type candleRow struct {
	Timestamp string     `csv:"timestamp"`
	Open      LooseFloat `csv:"open"`
	High      LooseFloat `csv:"high"`
	Low       LooseFloat `csv:"low"`
	Close     LooseFloat `csv:"close"`
	Volume    LooseFloat `csv:"volume"`
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"20060102150405",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// LoadSession reads one instrument's candles from a CSV file and returns
// them in timestamp order. Rows with unparseable timestamps are skipped.
func LoadSession(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataError("csv", path, "opening session file", err)
	}
	defer f.Close()

	var rows []*candleRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, apperrors.NewDataError("csv", path, "decoding session file", err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		ts, ok := parseTimestamp(row.Timestamp)
		if !ok {
			continue
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      float64(row.Open),
			High:      float64(row.High),
			Low:       float64(row.Low),
			Close:     float64(row.Close),
			Volume:    int64(row.Volume),
		})
	}

	if len(candles) == 0 {
		return nil, apperrors.NewDataError("csv", path, "no usable rows", apperrors.ErrDataNotFound)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return candles, nil
}
