// Package pricelist turns raw price-list tables into typed price entries.
// Every price cell goes through ParsePrice; the table parser only decides
// which rows are category headers and which carry prices.
package pricelist

import (
	"strconv"
	"strings"

	"clinicstats/internal/model"
)

var currencySymbols = []string{"£", "$", "€"}

// cleanAmount strips a leading currency symbol and thousands separators.
// "£1,250.00" → "1250.00"
func cleanAmount(s string) string {
	s = strings.TrimSpace(s)
	for _, sym := range currencySymbols {
		if strings.HasPrefix(s, sym) {
			s = s[len(sym):]
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// isDecimal reports whether s is all digits once at most one '.' is removed.
func isDecimal(s string) bool {
	if strings.Count(s, ".") > 1 {
		return false
	}
	digits := strings.Replace(s, ".", "", 1)
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

func parseAmount(s string) (float64, bool) {
	if !isDecimal(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParsePrice reads one price cell. It never fails: blank cells, placeholder
// text ("POA", "N/A", "Included") and anything else that is not a number
// come back as Unavailable.
//
//	"£500"       → Exact(500)
//	"From £450"  → From(450)
//	"£1,250.50"  → Exact(1250.5)
//	"POA"        → Unavailable
func ParsePrice(cell string) model.PriceValue {
	s := cleanAmount(cell)
	if s == "" {
		return model.UnavailablePrice()
	}

	if len(s) >= 4 && strings.EqualFold(s[:4], "from") {
		if amount, ok := parseAmount(cleanAmount(s[4:])); ok {
			return model.FromPrice(amount)
		}
		return model.UnavailablePrice()
	}

	if amount, ok := parseAmount(s); ok {
		return model.ExactPrice(amount)
	}
	return model.UnavailablePrice()
}

// IsBlank reports whether a cell carries no text.
func IsBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}
