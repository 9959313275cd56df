// Package core provides the value types of the tracker and the money helpers
// every aggregate depends on.
//
// This file contains rounding, parsing and period normalization of amounts.
// Amounts travel as float64 but every rounding and summing step goes through
// decimal arithmetic so that 1.005 rounds to 1.01 and sums do not drift.
package core

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	daysPerMonth  = decimal.NewFromInt(365).Div(decimal.NewFromInt(12))
	weeksPerMonth = decimal.NewFromInt(52).Div(decimal.NewFromInt(12))
)

// RoundToCurrency rounds to 2 decimal places, half away from zero.
//
// The input is converted with the shortest decimal representation that
// round-trips the float, which absorbs representation error:
//   RoundToCurrency(1.005) -> 1.01
//   RoundToCurrency(433.3333) -> 433.33
// NaN and infinities are returned unchanged.
func RoundToCurrency(amount float64) float64 {
	if !isFinite(amount) {
		return amount
	}
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// MonthlyEquivalent converts a periodic amount to its average per calendar month.
// One-time amounts do not recur and contribute nothing.
func MonthlyEquivalent(amount float64, p Period) float64 {
	if p == OneTime || !p.IsValid() {
		return 0
	}
	if !isFinite(amount) {
		return amount
	}
	d := decimal.NewFromFloat(amount)
	var monthly decimal.Decimal
	switch p {
	case Daily:
		monthly = d.Mul(daysPerMonth)
	case Weekly:
		monthly = d.Mul(weeksPerMonth)
	case Monthly:
		monthly = d
	case Quarterly:
		monthly = d.Div(decimal.NewFromInt(3))
	case Yearly:
		monthly = d.Div(decimal.NewFromInt(12))
	default:
		return 0
	}
	return monthly.Round(2).InexactFloat64()
}

// SumAmounts adds amounts with decimal precision. Any non-finite input makes
// the whole sum NaN, mirroring float arithmetic.
func SumAmounts(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		if !isFinite(a) {
			return math.NaN()
		}
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}

// ParseAmount converts a decimal string to an amount rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Negative values are rejected;
// zero is allowed since free trials exist.
//
// Examples:
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("12,345") -> 12.35, nil
//   ParseAmount("-1") -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 || strings.Trim(s, ".") == "" {
		return 0, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return 0, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" {
		parts[0] = "0"
	}
	s = parts[0]
	if len(parts) == 2 && parts[1] != "" {
		s += "." + parts[1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return d.Round(2).InexactFloat64(), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
