// Package core implements the reconciliation engine: match-record hydration
// against the current church roster, ranking aggregation, and the
// digit-entry currency codec shared with the spreadsheet model.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is the locale used for formatting when none is configured.
var DefaultLocale = language.BrazilianPortuguese

// Codec converts between display strings and monetary amounts.
//
// The parse side is digit-entry oriented: every non-digit rune is stripped
// and the remaining digit string is read as integer cents. Typing a digit
// shifts the decimal point, like a calculator tape. That contract is what
// keeps masked-input round trips exact, so Parse must never try to interpret
// separators positionally.
//
// The format side is locale-aware (decimal and group separators come from
// the configured language tag) and always emits exactly two fraction digits.
type Codec struct {
	printer *message.Printer
}

// NewCodec returns a codec formatting for the given locale.
func NewCodec(tag language.Tag) *Codec {
	return &Codec{printer: message.NewPrinter(tag)}
}

// NewCodecForLocale parses a BCP 47 locale string ("pt-BR", "en-US").
// Unknown locales fall back to DefaultLocale rather than failing.
func NewCodecForLocale(locale string) *Codec {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = DefaultLocale
	}
	return NewCodec(tag)
}

// Parse converts entered text to an amount. "1234" parses to 12.34; empty or
// fully non-numeric input parses to zero. Parse never fails.
func (c *Codec) Parse(text string) decimal.Decimal {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return decimal.Zero
	}
	cents, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		// Digit string longer than int64; re-parse through decimal.
		d, derr := decimal.NewFromString(digits.String())
		if derr != nil {
			return decimal.Zero
		}
		return d.Shift(-2)
	}
	return decimal.New(cents, -2)
}

// Format renders an amount with two fraction digits and locale separators.
// The zero value of decimal.Decimal formats as the zero-amount string.
func (c *Codec) Format(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return c.printer.Sprint(number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}
