package stats

import (
	"sort"

	"clinicstats/internal/model"
)

// PriceDelta compares one entry's price at two locations. Difference is
// A-B; Percent is Difference/B*100 rounded to one decimal, or 0 when B is 0.
type PriceDelta struct {
	Service    string
	LocationA  string
	LocationB  string
	A          float64
	B          float64
	Difference float64
	Percent    float64
	// Indicative is set when either side is a "from" price.
	Indicative bool
}

func newDelta(service, locA, locB string, a, b float64) PriceDelta {
	d := PriceDelta{Service: service, LocationA: locA, LocationB: locB, A: a, B: b, Difference: a - b}
	if b > 0 {
		d.Percent = Round1(d.Difference / b * 100)
	}
	return d
}

// PriceDifference compares a single entry across two locations. Unlike the
// category statistics it also accepts "from" prices and flags the result
// as indicative. ok is false when either side has no amount.
func PriceDifference(e model.PriceEntry, locA, locB string) (d PriceDelta, ok bool) {
	pa, pb := e.Price(locA), e.Price(locB)
	a, okA := pa.Value()
	b, okB := pb.Value()
	if !okA || !okB {
		return PriceDelta{}, false
	}
	d = newDelta(e.Service, locA, locB, a, b)
	d.Indicative = pa.Qualifier == model.From || pb.Qualifier == model.From
	return d, true
}

// exactDifference is PriceDifference restricted to Exact prices.
func exactDifference(e model.PriceEntry, locA, locB string) (PriceDelta, bool) {
	a, okA := e.Price(locA).ExactValue()
	b, okB := e.Price(locB).ExactValue()
	if !okA || !okB {
		return PriceDelta{}, false
	}
	return newDelta(e.Service, locA, locB, a, b), true
}

// LocationStats summarises the Exact prices quoted at one location.
type LocationStats struct {
	Location string
	Priced   int
	Average  float64
	Total    float64
}

// RankedPrice is one Exact price used in a top-N list.
type RankedPrice struct {
	Service  string
	Location string
	Amount   float64
}

// PairDeltas holds the differences for one ordered pair of locations.
type PairDeltas struct {
	LocationA string
	LocationB string
	Deltas    []PriceDelta
}

// CategoryStats is the price summary of one category. Only Exact prices
// contribute; "from" and unavailable prices are ignored throughout.
type CategoryStats struct {
	Category  string
	Services  int
	Locations []LocationStats
	// Min and Max span every Exact amount at every location. HasRange is
	// false when the category has no Exact amount.
	Min, Max float64
	HasRange bool
	// Top ranks Exact amounts across all locations.
	Top []RankedPrice
	// TopAtFirst ranks comparable entries by their first-location amount.
	TopAtFirst []PriceDelta
	// Pairs lists differences for every location pair, in location order,
	// for entries with Exact amounts at both.
	Pairs []PairDeltas
	// BiggestDifferences ranks the first pair's deltas by difference.
	BiggestDifferences []PriceDelta
}

// CategoryPrices computes statistics for one category over the given
// locations. topN bounds the ranked lists; 0 or less means no limit.
func CategoryPrices(entries []model.PriceEntry, category string, locations []string, topN int) CategoryStats {
	st := CategoryStats{Category: category, Services: len(entries)}

	for _, loc := range locations {
		ls := LocationStats{Location: loc}
		for _, e := range entries {
			amount, ok := e.Price(loc).ExactValue()
			if !ok {
				continue
			}
			ls.Priced++
			ls.Total += amount
			st.Top = append(st.Top, RankedPrice{Service: e.Service, Location: loc, Amount: amount})
			if !st.HasRange || amount < st.Min {
				st.Min = amount
			}
			if !st.HasRange || amount > st.Max {
				st.Max = amount
			}
			st.HasRange = true
		}
		if ls.Priced > 0 {
			ls.Average = ls.Total / float64(ls.Priced)
		}
		st.Locations = append(st.Locations, ls)
	}

	sort.SliceStable(st.Top, func(i, j int) bool { return st.Top[i].Amount > st.Top[j].Amount })
	st.Top = limit(st.Top, topN)

	for i := 0; i < len(locations); i++ {
		for j := i + 1; j < len(locations); j++ {
			pair := PairDeltas{LocationA: locations[i], LocationB: locations[j]}
			for _, e := range entries {
				if d, ok := exactDifference(e, locations[i], locations[j]); ok {
					pair.Deltas = append(pair.Deltas, d)
				}
			}
			st.Pairs = append(st.Pairs, pair)
		}
	}

	if len(st.Pairs) > 0 {
		first := st.Pairs[0].Deltas

		byA := append([]PriceDelta(nil), first...)
		sort.SliceStable(byA, func(i, j int) bool { return byA[i].A > byA[j].A })
		st.TopAtFirst = limit(byA, topN)

		byDiff := append([]PriceDelta(nil), first...)
		sort.SliceStable(byDiff, func(i, j int) bool { return byDiff[i].Difference > byDiff[j].Difference })
		st.BiggestDifferences = limit(byDiff, topN)
	}
	return st
}

// AllCategoryPrices runs CategoryPrices for every category of the catalog,
// in header order.
func AllCategoryPrices(c *model.Catalog, topN int) []CategoryStats {
	locations := c.Locations()
	var out []CategoryStats
	for _, cat := range c.Categories() {
		out = append(out, CategoryPrices(c.EntriesInCategory(cat), cat, locations, topN))
	}
	return out
}

// LocationTotals sums Exact amounts per location within each category.
func LocationTotals(c *model.Catalog) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for _, e := range c.PriceEntries() {
		for loc, v := range e.PricesByLocation() {
			amount, ok := v.ExactValue()
			if !ok {
				continue
			}
			if out[e.Category] == nil {
				out[e.Category] = make(map[string]float64)
			}
			out[e.Category][loc] += amount
		}
	}
	return out
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
