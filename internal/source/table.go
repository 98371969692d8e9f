// Package source reads named tables from CSV directories, XLSX workbooks or
// PostgreSQL into raw string rows.
package source

import (
	"context"
	"crypto/sha256"
	"hash"
	"strings"
)

// Row is one data record. Num is the record's position in the source, with
// the header at 1.
type Row struct {
	Num   int
	Cells []string
}

// At returns the trimmed cell at i, or "" when the row is short.
func (r Row) At(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

// Table is a loaded source table. Rows whose column count did not match the
// header are absent from Rows and listed in Issues.
type Table struct {
	Name     string
	Header   []string
	Rows     []Row
	Encoding string
	Checksum [32]byte
	Issues   []*Error
	// FirstRecord is the Num of the first record after the header, whether
	// it was kept or skipped as malformed. 0 when there is none.
	FirstRecord int
}

// noteRecord records num as the first record if none was seen yet.
func (t *Table) noteRecord(num int) {
	if t.FirstRecord == 0 {
		t.FirstRecord = num
	}
}

// Column returns the index of the header cell matching name, ignoring case
// and surrounding space, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// RequireColumn is Column with a MissingColumn error.
func (t *Table) RequireColumn(name string) (int, error) {
	i := t.Column(name)
	if i < 0 {
		return -1, MissingColumn(t.Name, name)
	}
	return i, nil
}

// Loader reads one named table.
type Loader interface {
	Load(ctx context.Context, name string) (*Table, error)
}

// rowHasher checksums sources that are not read as a single byte stream.
// Cells and rows are separated by ASCII unit and record separators.
type rowHasher struct {
	h hash.Hash
}

func newRowHasher() *rowHasher {
	return &rowHasher{h: sha256.New()}
}

func (rh *rowHasher) add(cells []string) {
	for i, c := range cells {
		if i > 0 {
			rh.h.Write([]byte{0x1f})
		}
		rh.h.Write([]byte(c))
	}
	rh.h.Write([]byte{0x1e})
}

func (rh *rowHasher) sum() [32]byte {
	var out [32]byte
	copy(out[:], rh.h.Sum(nil))
	return out
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}
