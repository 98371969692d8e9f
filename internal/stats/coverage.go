// Package stats computes coverage, price and grouping statistics over a
// built catalog. Every function is pure and leaves the catalog untouched.
package stats

import (
	"math"
	"sort"

	"clinicstats/internal/membership"
	"clinicstats/internal/model"
	"clinicstats/internal/pricelist"
)

// Round1 rounds to one decimal place, halves to even.
func Round1(x float64) float64 {
	return math.RoundToEven(x*10) / 10
}

// Percent is n/total*100 rounded to one decimal, or 0 when total is 0.
func Percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(n) / float64(total) * 100)
}

// TotalClinicians is the roster size, or the number of mapping rows when the
// roster is empty.
func TotalClinicians(c *model.Catalog) int {
	if n := c.NumClinicians(); n > 0 {
		return n
	}
	return len(c.Memberships())
}

// Coverage is the share of clinicians offering one catalog service.
type Coverage struct {
	Service    string
	Clinicians int
	Percent    float64
}

// ServiceCoverage reports, per catalog service in catalog order, how many
// clinicians offer it. A clinician offers a service when the service name
// occurs in their services text (see membership.Offers), so a name that is
// part of a longer name is counted for both.
func ServiceCoverage(c *model.Catalog) []Coverage {
	total := TotalClinicians(c)
	members := c.Memberships()
	services := c.Services()

	out := make([]Coverage, 0, len(services))
	for _, s := range services {
		n := 0
		for _, m := range members {
			if membership.Offers(m.Raw, s.Name) {
				n++
			}
		}
		out = append(out, Coverage{Service: s.Name, Clinicians: n, Percent: Percent(n, total)})
	}
	return out
}

// MappingSummary counts clinicians with and without mapped services.
type MappingSummary struct {
	Total    int
	Mapped   int
	Unmapped int
	Rate     float64
}

func Mapping(c *model.Catalog) MappingSummary {
	var s MappingSummary
	for _, m := range c.Memberships() {
		if m.Mapped() {
			s.Mapped++
		} else {
			s.Unmapped++
		}
	}
	s.Total = TotalClinicians(c)
	s.Rate = Percent(s.Mapped, s.Total)
	return s
}

// ServiceCount is the number of mapped clinicians listing a service token.
type ServiceCount struct {
	Service    string
	Clinicians int
	Percent    float64
}

// ServiceDistribution counts exact service tokens across mapped memberships,
// highest first. Unlike ServiceCoverage it only counts whole tokens, and
// includes services missing from the catalog.
func ServiceDistribution(c *model.Catalog) []ServiceCount {
	return countTokens(c.Memberships(), TotalClinicians(c))
}

func countTokens(members []model.ServiceMembership, total int) []ServiceCount {
	counts := make(map[string]int)
	for _, m := range members {
		for _, tok := range m.Tokens() {
			counts[tok]++
		}
	}
	out := make([]ServiceCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, ServiceCount{Service: s, Clinicians: n, Percent: Percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Clinicians != out[j].Clinicians {
			return out[i].Clinicians > out[j].Clinicians
		}
		return out[i].Service < out[j].Service
	})
	return out
}

// ServiceAnalysis pairs a catalog service's clinician count with whether
// any price list names it.
type ServiceAnalysis struct {
	Service    string
	Clinicians int
	HasPricing bool
}

// AnalyzeServices uses the same substring count as ServiceCoverage. Pricing
// is an exact match against price-entry services and category headers.
func AnalyzeServices(c *model.Catalog) []ServiceAnalysis {
	priced := make(map[string]bool)
	for _, e := range c.PriceEntries() {
		priced[e.Service] = true
	}
	for _, cat := range c.Categories() {
		priced[cat] = true
	}

	cov := ServiceCoverage(c)
	out := make([]ServiceAnalysis, len(cov))
	for i, cv := range cov {
		out[i] = ServiceAnalysis{Service: cv.Service, Clinicians: cv.Clinicians, HasPricing: priced[cv.Service]}
	}
	return out
}

// DistinctPricedServices counts distinct names in the first column of the
// price lists, headers included.
func DistinctPricedServices(c *model.Catalog) int {
	names := make(map[string]struct{})
	for _, e := range c.PriceEntries() {
		names[e.Service] = struct{}{}
	}
	for _, cat := range c.Categories() {
		if cat != pricelist.Uncategorized {
			names[cat] = struct{}{}
		}
	}
	return len(names)
}
