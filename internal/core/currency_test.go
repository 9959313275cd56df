package core

import (
	"math"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"dollars", 12.5, "USD", "$12.50"},
		{"dollars grouped", 1234.5, "USD", "$1,234.50"},
		{"lower-case code", 9.99, "usd", "$9.99"},
		{"negative dollars", -3.2, "USD", "-$3.20"},
		{"euro suffix", 12.5, "EUR", "12,50 €"},
		{"euro grouped", 1234.5, "EUR", "1.234,50 €"},
		{"pounds", 7, "GBP", "£7.00"},
		{"yen has no minor unit", 1234.5, "JPY", "¥1,235"},
		{"rounds before formatting", 1.005, "USD", "$1.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.amount, tt.code); got != tt.want {
				t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestFormatCurrencyFallback(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"unknown code", 12.5, "XYZ", "$12.50"},
		{"empty code", 12.5, "", "$12.50"},
		{"malformed code", 3, "DOLLARS", "$3.00"},
		{"nan euro", math.NaN(), "EUR", "€NaN"},
		{"inf dollars", math.Inf(1), "USD", "$+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.amount, tt.code); got != tt.want {
				t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestFormatCurrencyUnstyledCode(t *testing.T) {
	got := FormatCurrency(12.5, "SEK")
	if got != "SEK 12.50" {
		t.Fatalf("FormatCurrency(12.5, SEK) = %q, want %q", got, "SEK 12.50")
	}
}
