package stats

import (
	"strings"

	"clinicstats/internal/membership"
	"clinicstats/internal/model"
)

// MappedFilter selects memberships by mapping state.
type MappedFilter int

const (
	AnyMapping MappedFilter = iota
	OnlyMapped
	OnlyUnmapped
)

// Filter narrows the mapping rows. Zero fields match everything.
type Filter struct {
	Specialization string // exact
	Mapped         MappedFilter
	NameContains   string // case-insensitive
	Initial        string // first letter of the name, case-insensitive
	Service        string // case-insensitive substring of the services text
}

// FilterMemberships returns the matching mapping rows in source order.
func FilterMemberships(c *model.Catalog, f Filter) []model.ServiceMembership {
	var out []model.ServiceMembership
	for _, m := range c.Memberships() {
		if f.Specialization != "" && m.Specialization != f.Specialization {
			continue
		}
		switch f.Mapped {
		case OnlyMapped:
			if !m.Mapped() {
				continue
			}
		case OnlyUnmapped:
			if m.Mapped() {
				continue
			}
		}
		if f.NameContains != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.NameContains)) {
			continue
		}
		if f.Initial != "" && !strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(f.Initial)) {
			continue
		}
		if f.Service != "" && !membership.Offers(m.Raw, f.Service) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SearchPrices returns entries in category (all categories when empty)
// whose service contains query, ignoring case.
func SearchPrices(c *model.Catalog, category, query string) []model.PriceEntry {
	entries := c.PriceEntries()
	if category != "" {
		entries = c.EntriesInCategory(category)
	}
	q := strings.ToLower(query)
	var out []model.PriceEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Service), q) {
			out = append(out, e)
		}
	}
	return out
}
