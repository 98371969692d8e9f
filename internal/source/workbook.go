package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource loads tables from the sheets of one XLSX workbook. The
// table name is the sheet name.
type WorkbookSource struct {
	Path string
}

func NewWorkbookSource(path string) *WorkbookSource {
	return &WorkbookSource{Path: path}
}

// Sheets lists the workbook's sheet names in order.
func (s *WorkbookSource) Sheets() ([]string, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func (s *WorkbookSource) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFound(s.Path, err)
		}
		return nil, fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	return f, nil
}

// Load reads one sheet. Spreadsheets drop trailing empty cells, so short
// rows are padded to the header width; only rows wider than the header are
// malformed. Empty rows are skipped.
func (s *WorkbookSource) Load(ctx context.Context, name string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.open()
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Source = name
		}
		return nil, err
	}
	defer f.Close()

	if !slices.Contains(f.GetSheetList(), name) {
		return nil, NotFound(name, fmt.Errorf("no sheet %q in %s", name, s.Path))
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}

	t := &Table{Name: name, Encoding: "xlsx"}
	hasher := newRowHasher()
	for i, cells := range rows {
		if i == 0 {
			t.Header = trimHeader(cells)
			hasher.add(t.Header)
			continue
		}
		if len(cells) == 0 {
			continue
		}
		t.noteRecord(i + 1)
		hasher.add(cells)
		width := len(t.Header)
		if len(cells) > width {
			t.Issues = append(t.Issues, MalformedRow(name, i+1, len(cells), width))
			continue
		}
		padded := make([]string, width)
		copy(padded, cells)
		t.Rows = append(t.Rows, Row{Num: i + 1, Cells: padded})
	}
	t.Checksum = hasher.sum()
	return t, nil
}
