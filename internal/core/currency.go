package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// currencyStyle describes how a currency is written in its home locale.
type currencyStyle struct {
	locale language.Tag
	symbol string
	suffix bool // symbol after the number, separated by a space
}

var currencyStyles = map[currency.Unit]currencyStyle{
	currency.USD: {locale: language.AmericanEnglish, symbol: "$"},
	currency.EUR: {locale: language.German, symbol: "€", suffix: true},
	currency.GBP: {locale: language.BritishEnglish, symbol: "£"},
	currency.JPY: {locale: language.Japanese, symbol: "¥"},
	currency.CAD: {locale: language.MustParse("en-CA"), symbol: "CA$"},
	currency.AUD: {locale: language.MustParse("en-AU"), symbol: "A$"},
	currency.CHF: {locale: language.MustParse("de-CH"), symbol: "CHF "},
	currency.INR: {locale: language.MustParse("en-IN"), symbol: "₹"},
}

// FormatCurrency renders amount in the conventions of the ISO 4217 code:
//   FormatCurrency(1234.5, "USD") -> "$1,234.50"
//   FormatCurrency(1234.5, "EUR") -> "1.234,50 €"
//   FormatCurrency(1234.5, "JPY") -> "¥1,235"
// Codes that are valid but not in the style table are printed as a prefix
// ("SEK 12.50"). Anything that cannot be formatted falls back to a plain
// "<symbol><amount>" string with two decimals. It never panics.
func FormatCurrency(amount float64, code string) string {
	out, err := formatLocalized(amount, code)
	if err != nil {
		return fallbackCurrency(amount, code)
	}
	return out
}

func formatLocalized(amount float64, code string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("format %s: %v", code, r)
		}
	}()

	if !isFinite(amount) {
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("parse currency %q: %w", code, err)
	}

	style, ok := currencyStyles[unit]
	if !ok {
		style = currencyStyle{locale: language.AmericanEnglish, symbol: unit.String() + " "}
	}

	scale, _ := currency.Standard.Rounding(unit)
	rounded := decimal.NewFromFloat(amount).Round(int32(scale))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	p := message.NewPrinter(style.locale)
	num := p.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(scale)))
	if style.suffix {
		return sign + num + " " + style.symbol, nil
	}
	return sign + style.symbol + num, nil
}

func fallbackCurrency(amount float64, code string) string {
	symbol := "$"
	if strings.EqualFold(strings.TrimSpace(code), "EUR") {
		symbol = "€"
	}
	return fmt.Sprintf("%s%.2f", symbol, RoundToCurrency(amount))
}
