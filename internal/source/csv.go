package source

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirSource loads tables from delimited text files in a directory. A table
// named "clinicians" is read from <Dir>/clinicians.csv; names that already
// carry an extension or a subdirectory ("prices/mri.csv") are used as given.
type DirSource struct {
	Dir       string
	Encodings []string
}

func NewDirSource(dir string, encodings []string) *DirSource {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	return &DirSource{Dir: dir, Encodings: encodings}
}

func (s *DirSource) path(name string) string {
	if filepath.Ext(name) == "" {
		name += ".csv"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

func (s *DirSource) Load(ctx context.Context, name string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFound(name, err)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	chain := s.Encodings
	if len(chain) == 0 {
		chain = DefaultEncodings
	}
	text, enc, ok := decode(raw, chain)
	if !ok {
		return nil, Undecodable(name, chain)
	}

	t, err := parseCSV(name, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	t.Encoding = enc
	t.Checksum = sha256.Sum256(raw)
	return t, nil
}

// parseCSV reads the header and data records. Records whose field count
// differs from the header are recorded as MalformedRow and skipped.
func parseCSV(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}

	t := &Table{Name: name, Header: trimHeader(header)}
	width := len(t.Header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				t.noteRecord(pe.StartLine)
				t.Issues = append(t.Issues, &Error{
					Kind:    KindMalformedRow,
					Source:  name,
					Row:     pe.StartLine,
					Message: pe.Err.Error(),
				})
				continue
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		line, _ := reader.FieldPos(0)
		t.noteRecord(line)
		if len(record) != width {
			t.Issues = append(t.Issues, MalformedRow(name, line, len(record), width))
			continue
		}
		t.Rows = append(t.Rows, Row{Num: line, Cells: record})
	}
	return t, nil
}
