package enums

import (
	"fmt"
	"sort"
	"strings"
)

// Currency is an ISO 4217 code accepted for payment intents.
type Currency string

// Supported codes: LATAM denominations plus the major global ones.
const (
	CurrencyARS Currency = "ARS"
	CurrencyBRL Currency = "BRL"
	CurrencyCLP Currency = "CLP"
	CurrencyUYU Currency = "UYU"
	CurrencyPYG Currency = "PYG"
	CurrencyBOB Currency = "BOB"
	CurrencyCOP Currency = "COP"
	CurrencyPEN Currency = "PEN"
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCNY Currency = "CNY"
	CurrencyCHF Currency = "CHF"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

var validCurrencies = []Currency{
	CurrencyARS,
	CurrencyBRL,
	CurrencyCLP,
	CurrencyUYU,
	CurrencyPYG,
	CurrencyBOB,
	CurrencyCOP,
	CurrencyPEN,
	CurrencyMXN,
	CurrencyUSD,
	CurrencyEUR,
	CurrencyGBP,
	CurrencyJPY,
	CurrencyCNY,
	CurrencyCHF,
	CurrencyCAD,
	CurrencyAUD,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is a member of the supported set.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// NormalizeCurrency uppercases a raw code. Callers normalize before
// validating and before storing.
func NormalizeCurrency(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// ParseCurrency normalizes and validates a raw code. It rejects anything
// that is not exactly three ASCII letters before the membership check.
func ParseCurrency(value string) (Currency, error) {
	normalized := NormalizeCurrency(value)
	if len(normalized) != 3 || !isASCIIAlpha(normalized) {
		return "", fmt.Errorf("invalid currency %q", value)
	}
	candidate := Currency(normalized)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid currency %q", value)
	}
	return candidate, nil
}

// SupportedCurrencies returns the allow-list sorted alphabetically, for
// error messages and docs.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(validCurrencies))
	copy(out, validCurrencies)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func isASCIIAlpha(value string) bool {
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
