package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func TestCodec_Parse(t *testing.T) {
	codec := NewCodec(language.BrazilianPortuguese)
	cases := []struct {
		in  string
		out string
	}{
		{"1234", "12.34"},
		{"1", "0.01"},
		{"100", "1"},
		{"", "0"},
		{"abc", "0"},
		{"R$ 12,34", "12.34"},
		{"1.234,56", "1234.56"},
		{"00042", "0.42"},
		{"12a3b4", "12.34"}, // every non-digit is stripped, position included
	}
	for _, tc := range cases {
		got := codec.Parse(tc.in)
		want := decimal.RequireFromString(tc.out)
		if !got.Equal(want) {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, want)
		}
	}
}

func TestCodec_Format(t *testing.T) {
	codec := NewCodec(language.BrazilianPortuguese)
	cases := []struct {
		in  string
		out string
	}{
		{"12.34", "12,34"},
		{"0", "0,00"},
		{"1234.5", "1.234,50"},
		{"-200", "-200,00"},
	}
	for _, tc := range cases {
		got := codec.Format(decimal.RequireFromString(tc.in))
		if got != tc.out {
			t.Errorf("Format(%s) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestCodec_FormatZeroValue(t *testing.T) {
	codec := NewCodec(language.BrazilianPortuguese)
	var missing decimal.Decimal
	if got := codec.Format(missing); got != "0,00" {
		t.Errorf("Format(zero value) = %q, want %q", got, "0,00")
	}
}

// Cent-aligned values survive a format/parse round trip exactly.
func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec(language.BrazilianPortuguese)
	for _, cents := range []int64{0, 1, 99, 100, 1234, 99999, 123456789} {
		amount := decimal.New(cents, -2)
		back := codec.Parse(codec.Format(amount))
		if !back.Equal(amount) {
			t.Errorf("round trip of %s cents: got %s", amount, back)
		}
	}
}

func TestNewCodecForLocale_FallsBack(t *testing.T) {
	codec := NewCodecForLocale("!!")
	if got := codec.Format(decimal.New(1234, -2)); got != "12,34" {
		t.Errorf("fallback codec Format = %q, want %q", got, "12,34")
	}
}
