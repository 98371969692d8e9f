package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Catalog is the aggregate root produced by an ingestion pass. It is
// immutable once built; accessors return copies of the ordered sequences.
type Catalog struct {
	passID      uuid.UUID
	clinicians  []Clinician
	services    []CatalogService
	memberships []ServiceMembership
	entries     []PriceEntry
	categories  []string
	locations   []string

	clinicianByID    map[int]int
	serviceByName    map[string]int
	membershipByName map[string]int
	entriesByCat     map[string][]int
}

// PassID identifies the ingestion pass that built the catalog.
func (c *Catalog) PassID() uuid.UUID { return c.passID }

func (c *Catalog) Clinicians() []Clinician {
	return append([]Clinician(nil), c.clinicians...)
}

func (c *Catalog) Services() []CatalogService {
	return append([]CatalogService(nil), c.services...)
}

func (c *Catalog) Memberships() []ServiceMembership {
	return append([]ServiceMembership(nil), c.memberships...)
}

func (c *Catalog) PriceEntries() []PriceEntry {
	return append([]PriceEntry(nil), c.entries...)
}

// Categories returns price categories in the order their headers appeared.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Locations returns the price-list locations in column order.
func (c *Catalog) Locations() []string {
	return append([]string(nil), c.locations...)
}

func (c *Catalog) NumClinicians() int { return len(c.clinicians) }

func (c *Catalog) Clinician(id int) (Clinician, bool) {
	i, ok := c.clinicianByID[id]
	if !ok {
		return Clinician{}, false
	}
	return c.clinicians[i], true
}

func (c *Catalog) Service(name string) (CatalogService, bool) {
	i, ok := c.serviceByName[name]
	if !ok {
		return CatalogService{}, false
	}
	return c.services[i], true
}

// Membership looks a mapping row up by clinician name. With duplicate names
// the first row wins.
func (c *Catalog) Membership(name string) (ServiceMembership, bool) {
	i, ok := c.membershipByName[name]
	if !ok {
		return ServiceMembership{}, false
	}
	return c.memberships[i], true
}

// EntriesInCategory returns the entries of one category in source order.
func (c *Catalog) EntriesInCategory(category string) []PriceEntry {
	idx := c.entriesByCat[category]
	out := make([]PriceEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.entries[i])
	}
	return out
}

// ErrBuilderSpent is returned when a Builder is used after Build.
var ErrBuilderSpent = errors.New("catalog builder already built")

// Builder accumulates a Catalog. Nothing is visible to readers until Build
// returns; a pass that fails simply drops the Builder.
type Builder struct {
	c *Catalog
}

func NewBuilder(passID uuid.UUID) *Builder {
	return &Builder{c: &Catalog{
		passID:           passID,
		clinicianByID:    make(map[int]int),
		serviceByName:    make(map[string]int),
		membershipByName: make(map[string]int),
		entriesByCat:     make(map[string][]int),
	}}
}

// AddClinician appends a roster row. IDs must be unique.
func (b *Builder) AddClinician(cl Clinician) error {
	if b.c == nil {
		return ErrBuilderSpent
	}
	if _, dup := b.c.clinicianByID[cl.ID]; dup {
		return fmt.Errorf("duplicate clinician id %d", cl.ID)
	}
	b.c.clinicianByID[cl.ID] = len(b.c.clinicians)
	b.c.clinicians = append(b.c.clinicians, cl)
	return nil
}

// AddService appends a catalog row. Every row is kept; lookups by name
// resolve to the first row with that name.
func (b *Builder) AddService(s CatalogService) error {
	if b.c == nil {
		return ErrBuilderSpent
	}
	if _, dup := b.c.serviceByName[s.Name]; !dup {
		b.c.serviceByName[s.Name] = len(b.c.services)
	}
	b.c.services = append(b.c.services, s)
	return nil
}

func (b *Builder) AddMembership(m ServiceMembership) error {
	if b.c == nil {
		return ErrBuilderSpent
	}
	if _, dup := b.c.membershipByName[m.Name]; !dup {
		b.c.membershipByName[m.Name] = len(b.c.memberships)
	}
	b.c.memberships = append(b.c.memberships, m)
	return nil
}

// AddCategory records a category header. Repeated names are kept once, at
// their first position.
func (b *Builder) AddCategory(name string) error {
	if b.c == nil {
		return ErrBuilderSpent
	}
	if _, seen := b.c.entriesByCat[name]; seen {
		return nil
	}
	b.c.entriesByCat[name] = nil
	b.c.categories = append(b.c.categories, name)
	return nil
}

// AddPriceEntry appends an entry, registering its category if needed.
func (b *Builder) AddPriceEntry(e PriceEntry) error {
	if b.c == nil {
		return ErrBuilderSpent
	}
	if err := b.AddCategory(e.Category); err != nil {
		return err
	}
	b.c.entriesByCat[e.Category] = append(b.c.entriesByCat[e.Category], len(b.c.entries))
	b.c.entries = append(b.c.entries, e)
	return nil
}

// AddLocation records a price-list location, keeping first-seen order.
func (b *Builder) AddLocation(name string) error {
	if b.c == nil {
		return ErrBuilderSpent
	}
	for _, l := range b.c.locations {
		if l == name {
			return nil
		}
	}
	b.c.locations = append(b.c.locations, name)
	return nil
}

// Build hands out the finished Catalog. The Builder cannot be used again.
func (b *Builder) Build() (*Catalog, error) {
	if b.c == nil {
		return nil, ErrBuilderSpent
	}
	c := b.c
	b.c = nil
	return c, nil
}
