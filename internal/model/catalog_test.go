package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuildsOnce(t *testing.T) {
	b := NewBuilder(uuid.New())
	require.NoError(t, b.AddClinician(Clinician{ID: 1, Name: "Dr. A", Specialization: "Cardiology"}))
	require.NoError(t, b.AddService(CatalogService{Name: "MRI"}))

	c, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumClinicians())

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrBuilderSpent)
	assert.ErrorIs(t, b.AddClinician(Clinician{ID: 2}), ErrBuilderSpent)

	// the built catalog is unaffected by later builder calls
	assert.Equal(t, 1, c.NumClinicians())
}

func TestBuilderRejectsDuplicateClinicianID(t *testing.T) {
	b := NewBuilder(uuid.New())
	require.NoError(t, b.AddClinician(Clinician{ID: 7, Name: "Dr. A"}))
	assert.Error(t, b.AddClinician(Clinician{ID: 7, Name: "Dr. B"}))
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	b := NewBuilder(uuid.New())
	require.NoError(t, b.AddClinician(Clinician{ID: 1, Name: "Dr. A"}))
	prices := map[string]PriceValue{"Orpington": ExactPrice(100)}
	require.NoError(t, b.AddPriceEntry(NewPriceEntry("MRI", "Head MRI", prices)))
	c, err := b.Build()
	require.NoError(t, err)

	cl := c.Clinicians()
	cl[0].Name = "changed"
	got, ok := c.Clinician(1)
	require.True(t, ok)
	assert.Equal(t, "Dr. A", got.Name)

	// mutating the source map or the returned map leaves the entry intact
	prices["Orpington"] = ExactPrice(1)
	entry := c.PriceEntries()[0]
	entry.PricesByLocation()["Orpington"] = ExactPrice(2)
	amount, ok := c.PriceEntries()[0].Price("Orpington").ExactValue()
	require.True(t, ok)
	assert.Equal(t, 100.0, amount)
}

func TestPriceValuesAreNotShared(t *testing.T) {
	b := NewBuilder(uuid.New())
	require.NoError(t, b.AddPriceEntry(NewPriceEntry("MRI", "Head MRI", map[string]PriceValue{
		"Canary Wharf": ExactPrice(500),
	})))
	c, err := b.Build()
	require.NoError(t, err)

	// a reader's copy can be rewritten without touching the catalog
	got := c.PriceEntries()[0].Price("Canary Wharf")
	got.Qualifier = From
	assert.Equal(t, FromPrice(500), got)

	assert.Equal(t, ExactPrice(500), c.PriceEntries()[0].Price("Canary Wharf"))
	assert.NotEqual(t, ExactPrice(500), FromPrice(500))
}

func TestCategoriesKeepHeaderOrder(t *testing.T) {
	b := NewBuilder(uuid.New())
	require.NoError(t, b.AddCategory("MRI"))
	require.NoError(t, b.AddCategory("Audiology"))
	require.NoError(t, b.AddPriceEntry(NewPriceEntry("CT", "CT Head", nil)))
	require.NoError(t, b.AddPriceEntry(NewPriceEntry("MRI", "Head MRI", nil)))
	require.NoError(t, b.AddCategory("MRI"))
	c, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"MRI", "Audiology", "CT"}, c.Categories())
	assert.Len(t, c.EntriesInCategory("MRI"), 1)
	assert.Empty(t, c.EntriesInCategory("Audiology"))
}

func TestMembershipSetAndTokens(t *testing.T) {
	m := NewServiceMembership(1, "Dr. A", "ENT", "A, B, A", []string{"A", "B", "A"})
	assert.True(t, m.Mapped())
	assert.True(t, m.Has("A"))
	assert.False(t, m.Has("a"))
	assert.Equal(t, []string{"A", "B"}, m.Services())
	assert.Equal(t, []string{"A", "B", "A"}, m.Tokens())

	empty := NewServiceMembership(2, "Dr. B", "ENT", "", nil)
	assert.False(t, empty.Mapped())
	assert.Empty(t, empty.Services())
}

func TestPriceValueString(t *testing.T) {
	assert.Equal(t, "500", ExactPrice(500).String())
	assert.Equal(t, "From 450.5", FromPrice(450.5).String())
	assert.Equal(t, "N/A", UnavailablePrice().String())

	_, ok := FromPrice(10).ExactValue()
	assert.False(t, ok)
	v, ok := FromPrice(10).Value()
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
}
