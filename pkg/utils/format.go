// Package utils provides shared formatting and parsing helpers.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLooseFloat parses numeric text as found in exported candle files:
// thousands separators and a trailing percent sign are tolerated, anything
// unparseable becomes 0.
func ParseLooseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseFraction parses percentage-like text into a plain fraction. Values
// with magnitude of 1 or more are read as percent ("5" and "5%" both mean
// 0.05); smaller magnitudes are already fractions.
func ParseFraction(s string) float64 {
	v := ParseLooseFloat(s)
	if v >= 1 || v <= -1 {
		return v / 100
	}
	return v
}

// FormatPercent renders a fraction as a signed percentage.
func FormatPercent(fraction float64) string {
	sign := ""
	if fraction > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, fraction*100)
}

// FormatPrice renders a price with two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatQuantity formats a quantity with thousands separators.
func FormatQuantity(qty int64) string {
	s := strconv.FormatInt(qty, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
