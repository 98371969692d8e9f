package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies load failures.
type ErrorKind string

const (
	// KindSourceNotFound: the named table does not exist. Fatal.
	KindSourceNotFound ErrorKind = "SOURCE_NOT_FOUND"

	// KindUndecodableSource: no candidate encoding could decode the table.
	KindUndecodableSource ErrorKind = "UNDECODABLE_SOURCE"

	// KindMalformedRow: a row's column count does not match the header.
	// The row is skipped and loading continues.
	KindMalformedRow ErrorKind = "MALFORMED_ROW"

	// KindMissingColumn: a column the consumer requires is not in the header.
	KindMissingColumn ErrorKind = "MISSING_COLUMN"
)

var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrUndecodableSource = errors.New("undecodable source")
	ErrMalformedRow      = errors.New("malformed row")
	ErrMissingColumn     = errors.New("missing column")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindSourceNotFound:
		return ErrSourceNotFound
	case KindUndecodableSource:
		return ErrUndecodableSource
	case KindMalformedRow:
		return ErrMalformedRow
	case KindMissingColumn:
		return ErrMissingColumn
	}
	return nil
}

// Error is a load failure or row-level issue for one named source.
type Error struct {
	Kind    ErrorKind
	Source  string
	Row     int // 0 when the error concerns the whole table
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Source)
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind's sentinel, so errors.Is(err, ErrSourceNotFound)
// works through any wrapping.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Fatal reports whether the error aborts ingestion.
func (e *Error) Fatal() bool {
	return e.Kind != KindMalformedRow
}

func NotFound(source string, err error) *Error {
	return &Error{Kind: KindSourceNotFound, Source: source, Err: err}
}

func Undecodable(source string, tried []string) *Error {
	return &Error{
		Kind:    KindUndecodableSource,
		Source:  source,
		Message: "tried " + strings.Join(tried, ", "),
	}
}

func MalformedRow(source string, row, got, want int) *Error {
	return &Error{
		Kind:    KindMalformedRow,
		Source:  source,
		Row:     row,
		Message: fmt.Sprintf("%d columns, expected %d", got, want),
	}
}

func MissingColumn(source, column string) *Error {
	return &Error{
		Kind:    KindMissingColumn,
		Source:  source,
		Message: fmt.Sprintf("column %q not in header", column),
	}
}
