package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves sheets (name → rows) to an XLSX file and returns its
// path. The default sheet is renamed to the first sheet given.
func writeWorkbook(t *testing.T, order []string, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestWorkbookSourceLoad(t *testing.T) {
	path := writeWorkbook(t, []string{"clinicians", "prices"}, map[string][][]any{
		"clinicians": {
			{"Name", "Specialization"},
			{"Dr. A", "Cardiology"},
		},
		"prices": {
			{"Service", "Canary Wharf", "Orpington"},
			{"MRI"},
			{"Head MRI", "£500", "From £450"},
			{"Too", "many", "cells", "here"},
		},
	})
	src := NewWorkbookSource(path)

	sheets, err := src.Sheets()
	require.NoError(t, err)
	assert.Equal(t, []string{"clinicians", "prices"}, sheets)

	tbl, err := src.Load(context.Background(), "prices")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", tbl.Encoding)
	assert.Equal(t, []string{"Service", "Canary Wharf", "Orpington"}, tbl.Header)

	require.Len(t, tbl.Rows, 2)
	// trailing empty cells are padded back
	assert.Equal(t, []string{"MRI", "", ""}, tbl.Rows[0].Cells)
	assert.Equal(t, 2, tbl.Rows[0].Num)
	assert.Equal(t, 2, tbl.FirstRecord)
	assert.Equal(t, "From £450", tbl.Rows[1].At(2))

	require.Len(t, tbl.Issues, 1)
	assert.Equal(t, 4, tbl.Issues[0].Row)
	assert.ErrorIs(t, tbl.Issues[0], ErrMalformedRow)
}

func TestWorkbookSourceChecksumStable(t *testing.T) {
	path := writeWorkbook(t, []string{"services"}, map[string][][]any{
		"services": {{"Services"}, {"MRI"}, {"CT Scan"}},
	})
	src := NewWorkbookSource(path)

	a, err := src.Load(context.Background(), "services")
	require.NoError(t, err)
	b, err := src.Load(context.Background(), "services")
	require.NoError(t, err)
	assert.Equal(t, a.Checksum, b.Checksum)
}

func TestWorkbookSourceMissingSheet(t *testing.T) {
	path := writeWorkbook(t, []string{"services"}, map[string][][]any{
		"services": {{"Services"}},
	})
	_, err := NewWorkbookSource(path).Load(context.Background(), "mapping")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestWorkbookSourceMissingFile(t *testing.T) {
	src := NewWorkbookSource(filepath.Join(t.TempDir(), "absent.xlsx"))
	_, err := src.Load(context.Background(), "services")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "services", se.Source)
}
