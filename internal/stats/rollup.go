package stats

import (
	"sort"

	"clinicstats/internal/department"
	"clinicstats/internal/model"
)

// DepartmentShare is the number of roster clinicians in one department.
type DepartmentShare struct {
	Department model.Department
	Clinicians int
	Percent    float64
}

// DepartmentRollup groups the roster by department, largest first. Ties
// keep the order of model.Departments. Empty departments are left out.
func DepartmentRollup(c *model.Catalog) []DepartmentShare {
	return DepartmentRollupWith(c, department.Rules)
}

func DepartmentRollupWith(c *model.Catalog, rules []department.Rule) []DepartmentShare {
	counts := make(map[model.Department]int)
	for _, cl := range c.Clinicians() {
		counts[department.ClassifyWith(rules, cl.Specialization)]++
	}
	total := TotalClinicians(c)

	var out []DepartmentShare
	for _, d := range model.Departments {
		if n := counts[d]; n > 0 {
			out = append(out, DepartmentShare{Department: d, Clinicians: n, Percent: Percent(n, total)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Clinicians > out[j].Clinicians })
	return out
}

// SpecializationCount is the number of roster clinicians with one
// specialization.
type SpecializationCount struct {
	Specialization string
	Clinicians     int
}

// SpecializationSummary describes the spread of specializations.
type SpecializationSummary struct {
	Counts                   []SpecializationCount
	MostCommon               string
	MostCommonCount          int
	Singletons               int
	AveragePerSpecialization float64
}

// Specializations counts roster clinicians per specialization, largest
// first, ties by name.
func Specializations(c *model.Catalog) SpecializationSummary {
	counts := make(map[string]int)
	for _, cl := range c.Clinicians() {
		counts[cl.Specialization]++
	}

	var s SpecializationSummary
	for spec, n := range counts {
		s.Counts = append(s.Counts, SpecializationCount{Specialization: spec, Clinicians: n})
		if n == 1 {
			s.Singletons++
		}
	}
	sort.Slice(s.Counts, func(i, j int) bool {
		if s.Counts[i].Clinicians != s.Counts[j].Clinicians {
			return s.Counts[i].Clinicians > s.Counts[j].Clinicians
		}
		return s.Counts[i].Specialization < s.Counts[j].Specialization
	})
	if len(s.Counts) > 0 {
		s.MostCommon = s.Counts[0].Specialization
		s.MostCommonCount = s.Counts[0].Clinicians
		s.AveragePerSpecialization = float64(c.NumClinicians()) / float64(len(s.Counts))
	}
	return s
}

// SpecializationDetail drills into one specialization.
type SpecializationDetail struct {
	Specialization   string
	Clinicians       int
	ServiceProviders int
	UniqueServices   int
	Percent          float64
	// Providers are the mapped memberships with this specialization.
	Providers []model.ServiceMembership
	// Services counts service tokens across Providers, highest first.
	Services []ServiceCount
}

// DetailFor matches the specialization exactly. Roster counts come from
// the roster; provider figures come from the mapping's own specialization
// column.
func DetailFor(c *model.Catalog, specialization string) SpecializationDetail {
	d := SpecializationDetail{Specialization: specialization}
	for _, cl := range c.Clinicians() {
		if cl.Specialization == specialization {
			d.Clinicians++
		}
	}
	for _, m := range c.Memberships() {
		if m.Mapped() && m.Specialization == specialization {
			d.Providers = append(d.Providers, m)
		}
	}
	d.ServiceProviders = len(d.Providers)
	d.Services = countTokens(d.Providers, d.ServiceProviders)
	d.UniqueServices = len(d.Services)
	d.Percent = Percent(d.Clinicians, TotalClinicians(c))
	return d
}
