package model

import (
	"strconv"
)

// PriceQualifier distinguishes an exact quoted price from an indicative
// "from" price or a price that is not available.
type PriceQualifier int

const (
	Unavailable PriceQualifier = iota
	Exact
	From
)

func (q PriceQualifier) String() string {
	switch q {
	case Exact:
		return "exact"
	case From:
		return "from"
	default:
		return "unavailable"
	}
}

// PriceValue is a parsed price cell. It is a plain value: copies share
// nothing, so entries stay read-only once built. The amount is only
// meaningful for Exact and From prices.
type PriceValue struct {
	Qualifier PriceQualifier
	amount    float64
}

func ExactPrice(amount float64) PriceValue {
	return PriceValue{Qualifier: Exact, amount: amount}
}

func FromPrice(amount float64) PriceValue {
	return PriceValue{Qualifier: From, amount: amount}
}

func UnavailablePrice() PriceValue {
	return PriceValue{Qualifier: Unavailable}
}

// Value returns the amount and whether one is present.
func (v PriceValue) Value() (float64, bool) {
	if v.Qualifier != Exact && v.Qualifier != From {
		return 0, false
	}
	return v.amount, true
}

// ExactValue returns the amount only for Exact prices.
func (v PriceValue) ExactValue() (float64, bool) {
	if v.Qualifier != Exact {
		return 0, false
	}
	return v.amount, true
}

// String renders the value in a form the currency parser reads back to the
// same value: "500", "From 450" or "N/A".
func (v PriceValue) String() string {
	amount, ok := v.Value()
	if !ok {
		return "N/A"
	}
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	if v.Qualifier == From {
		return "From " + s
	}
	return s
}

// PriceEntry is one service row of a price list. Every entry belongs to
// exactly one category.
type PriceEntry struct {
	Category string
	Service  string
	prices   map[string]PriceValue
}

// NewPriceEntry copies prices so the entry cannot be changed through the
// caller's map.
func NewPriceEntry(category, service string, prices map[string]PriceValue) PriceEntry {
	cp := make(map[string]PriceValue, len(prices))
	for loc, v := range prices {
		cp[loc] = v
	}
	return PriceEntry{Category: category, Service: service, prices: cp}
}

// Price returns the value quoted at location. Locations missing from the
// entry read as Unavailable.
func (e PriceEntry) Price(location string) PriceValue {
	if v, ok := e.prices[location]; ok {
		return v
	}
	return UnavailablePrice()
}

// PricesByLocation returns a copy of the location → price mapping.
func (e PriceEntry) PricesByLocation() map[string]PriceValue {
	cp := make(map[string]PriceValue, len(e.prices))
	for loc, v := range e.prices {
		cp[loc] = v
	}
	return cp
}
