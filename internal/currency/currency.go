package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Converter yields the exchange rate between two ISO currency codes.
// Rate(from, to) is the multiplier: amount_in_to = amount_in_from * rate.
type Converter interface {
	Rate(from, to string) (decimal.Decimal, error)
}

// Convert converts amount using c, rounded to 2 decimal places.
func Convert(c Converter, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := c.Rate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(2), nil
}

// StaticConverter converts through a fixed table of base-relative rates.
// Used as the fallback when the live rate feed is unreachable, and directly
// in tests.
type StaticConverter struct {
	Base  string
	Rates map[string]decimal.Decimal // code → units of code per 1 base
}

// DefaultStatic is an AUD-based snapshot used when no live rates exist yet.
func DefaultStatic() *StaticConverter {
	return &StaticConverter{
		Base: "AUD",
		Rates: map[string]decimal.Decimal{
			"AUD": decimal.NewFromInt(1),
			"USD": decimal.RequireFromString("0.65"),
			"GBP": decimal.RequireFromString("0.51"),
			"EUR": decimal.RequireFromString("0.60"),
			"PKR": decimal.RequireFromString("182.50"),
		},
	}
}

func (s *StaticConverter) Rate(from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	fromRate, ok := s.Rates[from]
	if !ok || fromRate.IsZero() {
		return decimal.Zero, fmt.Errorf("no rate for currency %s", from)
	}
	toRate, ok := s.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for currency %s", to)
	}
	// via base: from → base → to
	return toRate.Div(fromRate), nil
}

// countryCurrency maps ISO country codes to the default donation currency
// offered by the widget.
var countryCurrency = map[string]string{
	"AU": "AUD",
	"US": "USD",
	"GB": "GBP",
	"PK": "PKR",
	"NZ": "AUD",
	"DE": "EUR",
	"FR": "EUR",
	"IT": "EUR",
	"ES": "EUR",
	"NL": "EUR",
	"IE": "EUR",
}

// ForCountry returns the widget default currency for an ISO country code,
// falling back to fallback for unmapped countries.
func ForCountry(country, fallback string) string {
	if c, ok := countryCurrency[strings.ToUpper(country)]; ok {
		return c
	}
	return fallback
}
