package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "pullback-trader/internal/errors"
)

func writeSession(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSession(t *testing.T) {
	path := writeSession(t, `timestamp,open,high,low,close,volume
2024-06-03 09:21:00,101.2,102.6,101.0,102.5,"1,200"
2024-06-03 09:15:00,99.8,100.2,99.5,100.0,800
2024-06-03 09:18:00,100.0,101.3,99.9,101.2,1000
`)

	candles, err := LoadSession(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(candles) != 3 {
		t.Fatalf("got %d candles, want 3", len(candles))
	}

	// Rows come back in timestamp order regardless of file order.
	if candles[0].Close != 100.0 || candles[2].Close != 102.5 {
		t.Errorf("candles out of order: %v", candles)
	}
	// Quoted thousands separators parse cleanly.
	if candles[2].Volume != 1200 {
		t.Errorf("volume = %d, want 1200", candles[2].Volume)
	}
	if !candles[0].Timestamp.Before(candles[1].Timestamp) {
		t.Error("timestamps must be ascending")
	}
}

func TestLoadSessionSkipsBadTimestamps(t *testing.T) {
	path := writeSession(t, `timestamp,open,high,low,close,volume
not-a-time,99.8,100.2,99.5,100.0,800
2024-06-03T09:18:00,100.0,101.3,99.9,101.2,1000
`)

	candles, err := LoadSession(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(candles) != 1 {
		t.Fatalf("got %d candles, want 1 after skipping the bad row", len(candles))
	}
}

func TestLoadSessionNoUsableRows(t *testing.T) {
	path := writeSession(t, `timestamp,open,high,low,close,volume
bad,1,2,0.5,1.5,100
`)

	_, err := LoadSession(path)
	if !errors.Is(err, apperrors.ErrDataNotFound) {
		t.Errorf("err = %v, want ErrDataNotFound", err)
	}
}

func TestLoadSessionMissingFile(t *testing.T) {
	if _, err := LoadSession(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for a missing file")
	}
}
