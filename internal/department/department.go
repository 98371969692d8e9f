// Package department groups free-text specializations into departments.
package department

import (
	"strings"

	"clinicstats/internal/model"
)

// Rule maps any of its keywords to a department. Keywords are lower-case and
// match anywhere in the specialization.
type Rule struct {
	Department model.Department
	Keywords   []string
}

// Rules is tested in order; the first rule with a matching keyword wins.
// Note that short keywords match inside longer words ("ent" matches
// "Pain Management"), so order decides most overlaps.
var Rules = []Rule{
	{model.Cardiology, []string{"cardio", "heart"}},
	{model.Orthopaedics, []string{"ortho", "bone", "joint", "knee", "hip", "spine"}},
	{model.Gastroenterology, []string{"gastro", "hepato", "bowel"}},
	{model.BreastCare, []string{"breast", "oncoplastic"}},
	{model.Dermatology, []string{"dermat", "skin"}},
	{model.ENT, []string{"ent", "ear", "nose", "throat"}},
	{model.Neurology, []string{"neuro", "brain"}},
	{model.WomensHealth, []string{"gynae", "obstet", "women"}},
	{model.Physiotherapy, []string{"physio", "therapy"}},
	{model.GeneralPractice, []string{"gp", "general practice", "practitioner"}},
	{model.Urology, []string{"urol", "kidney", "renal"}},
	{model.PlasticSurgery, []string{"plastic", "aesthetic", "cosmetic"}},
}

// Classify returns the department for a specialization, or
// OtherSpecialties when no rule matches.
func Classify(specialization string) model.Department {
	return ClassifyWith(Rules, specialization)
}

func ClassifyWith(rules []Rule, specialization string) model.Department {
	s := strings.ToLower(specialization)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(s, kw) {
				return r.Department
			}
		}
	}
	return model.OtherSpecialties
}
