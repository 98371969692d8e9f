// Package model defines the normalized catalog built by one ingestion pass:
// clinicians, catalog services, service memberships and price entries.
package model

import (
	"sort"
)

// Clinician is one roster row. ID is the roster's id column when present,
// otherwise the 1-based data row index.
type Clinician struct {
	ID             int
	Name           string
	Specialization string
}

// CatalogService is one row of the canonical service catalog. Name is the
// join key matched against clinicians' service text.
type CatalogService struct {
	Name string
}

// Department is a derived grouping label for a specialization.
type Department string

const (
	Cardiology       Department = "Cardiology"
	Orthopaedics     Department = "Orthopaedics"
	Gastroenterology Department = "Gastroenterology"
	BreastCare       Department = "Breast Care"
	Dermatology      Department = "Dermatology"
	ENT              Department = "ENT"
	Neurology        Department = "Neurology/Neurosurgery"
	WomensHealth     Department = "Women's Health"
	Physiotherapy    Department = "Physiotherapy"
	GeneralPractice  Department = "General Practice"
	Urology          Department = "Urology/Renal"
	PlasticSurgery   Department = "Plastic Surgery"
	OtherSpecialties Department = "Other Specialties"
)

// Departments lists the closed set of department labels.
var Departments = []Department{
	Cardiology,
	Orthopaedics,
	Gastroenterology,
	BreastCare,
	Dermatology,
	ENT,
	Neurology,
	WomensHealth,
	Physiotherapy,
	GeneralPractice,
	Urology,
	PlasticSurgery,
	OtherSpecialties,
}

// UnknownClinician is the ClinicianID of a mapping row whose name is not on
// the roster. Roster ids are never negative.
const UnknownClinician = -1

// ServiceMembership is the resolved "services offered" of one mapping row.
// An empty set means the clinician offers no mapped services; the raw
// "no match" marker is never stored, so Raw is empty for such rows.
type ServiceMembership struct {
	// ClinicianID is UnknownClinician when the name is not on the roster.
	ClinicianID    int
	Name           string
	Specialization string
	// Raw is the comma-joined service text as it appeared in the source.
	Raw    string
	tokens []string
	set    map[string]struct{}
}

// NewServiceMembership builds a membership from the ordered service tokens
// of a mapping row. Duplicate tokens collapse in the set but are kept in
// Tokens.
func NewServiceMembership(clinicianID int, name, specialization, raw string, tokens []string) ServiceMembership {
	m := ServiceMembership{
		ClinicianID:    clinicianID,
		Name:           name,
		Specialization: specialization,
		Raw:            raw,
		tokens:         append([]string(nil), tokens...),
		set:            make(map[string]struct{}, len(tokens)),
	}
	for _, t := range tokens {
		m.set[t] = struct{}{}
	}
	return m
}

// Mapped reports whether the clinician offers at least one service.
func (m ServiceMembership) Mapped() bool {
	return len(m.set) > 0
}

// Has reports exact set membership.
func (m ServiceMembership) Has(service string) bool {
	_, ok := m.set[service]
	return ok
}

// Services returns the distinct services, sorted.
func (m ServiceMembership) Services() []string {
	out := make([]string, 0, len(m.set))
	for s := range m.set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Tokens returns the service tokens in source order, duplicates included.
func (m ServiceMembership) Tokens() []string {
	return append([]string(nil), m.tokens...)
}
