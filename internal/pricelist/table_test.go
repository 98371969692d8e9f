package pricelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/model"
)

var twoSites = Options{Locations: []string{"Canary Wharf", "Orpington"}}

func TestParseTableHeaderThenService(t *testing.T) {
	rows := [][]string{
		{"MRI", "", ""},
		{"Head MRI", "£500", "From £450"},
	}
	res := ParseTable(rows, twoSites)

	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Equal(t, "MRI", e.Category)
	assert.Equal(t, "Head MRI", e.Service)

	cw, ok := e.Price("Canary Wharf").ExactValue()
	require.True(t, ok)
	assert.Equal(t, 500.0, cw)

	orp := e.Price("Orpington")
	assert.Equal(t, model.From, orp.Qualifier)
	v, _ := orp.Value()
	assert.Equal(t, 450.0, v)

	assert.Equal(t, []string{"MRI"}, res.Categories)
	assert.Empty(t, res.Issues)
}

func TestIsHeaderRow(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  bool
	}{
		{"both blank", []string{"CT", "", ""}, true},
		{"whitespace blank", []string{"CT", "  ", "\t"}, true},
		{"short row", []string{"CT"}, true},
		{"first price only", []string{"CT Head", "£200", ""}, false},
		{"second price only", []string{"CT Head", "", "£180"}, false},
		{"placeholder text is data", []string{"CT Head", "POA", ""}, false},
		{"blank name", []string{"", "", ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHeaderRow(tt.cells, 2))
		})
	}
}

func TestParseTableOnePriceBlankIsData(t *testing.T) {
	rows := [][]string{
		{"Ultrasound", "", ""},
		{"Pelvic scan", "", "£220"},
		{"Abdominal scan", "£250", ""},
	}
	res := ParseTable(rows, twoSites)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, model.Unavailable, res.Entries[0].Price("Canary Wharf").Qualifier)
	assert.Equal(t, model.Exact, res.Entries[0].Price("Orpington").Qualifier)
	assert.Equal(t, model.Exact, res.Entries[1].Price("Canary Wharf").Qualifier)
	assert.Equal(t, model.Unavailable, res.Entries[1].Price("Orpington").Qualifier)
}

func TestParseTableSkipsBlankNames(t *testing.T) {
	rows := [][]string{
		{"X-Ray", "", ""},
		{"", "£10", "£20"},
		{"   ", "", ""},
		{"Chest X-Ray", "£90", "£80"},
	}
	res := ParseTable(rows, twoSites)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Chest X-Ray", res.Entries[0].Service)
	assert.Equal(t, []string{"X-Ray"}, res.Categories)
}

func TestParseTableCategorySwitch(t *testing.T) {
	rows := [][]string{
		{"CT", "", ""},
		{"CT Head", "£300", "£280"},
		{"Cardiology", "", ""},
		{"Echo", "£400", "£380"},
		{"ECG", "£90", "N/A"},
		{"Empty Section", "", ""},
	}
	res := ParseTable(rows, twoSites)

	require.Len(t, res.Entries, 3)
	assert.Equal(t, "CT", res.Entries[0].Category)
	assert.Equal(t, "Cardiology", res.Entries[1].Category)
	assert.Equal(t, "Cardiology", res.Entries[2].Category)
	assert.Equal(t, []string{"CT", "Cardiology", "Empty Section"}, res.Categories)
}

func TestParseTableUncategorized(t *testing.T) {
	rows := [][]string{
		{"Stray service", "£10", "£12"},
		{"MRI", "", ""},
		{"Knee MRI", "£450", "£400"},
	}
	res := ParseTable(rows, twoSites)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, Uncategorized, res.Entries[0].Category)
	assert.Equal(t, "MRI", res.Entries[1].Category)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, 1, res.Issues[0].Row)
	assert.Equal(t, "Stray service", res.Issues[0].Service)
}

func TestParseTableInitialCategory(t *testing.T) {
	opts := twoSites
	opts.InitialCategory = "Audiology"
	rows := [][]string{
		{"Hearing test", "£120", "£100"},
		{"Tympanometry", "From £60", ""},
	}
	res := ParseTable(rows, opts)

	require.Len(t, res.Entries, 2)
	for _, e := range res.Entries {
		assert.Equal(t, "Audiology", e.Category)
	}
	assert.Empty(t, res.Issues)
	assert.Equal(t, []string{"Audiology"}, res.Categories)
}

func TestParserFeedIncremental(t *testing.T) {
	p := NewParser(twoSites)
	p.Feed(2, []string{"MRI", "", ""})
	first := p.Result()
	p.Feed(3, []string{"Spine MRI", "£700", "£650"})

	assert.Empty(t, first.Entries)
	assert.Len(t, p.Result().Entries, 1)
}
