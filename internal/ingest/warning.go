package ingest

import (
	"fmt"

	"clinicstats/internal/source"
)

// WarningKind classifies row-level problems. None of them stop a pass.
type WarningKind string

const (
	WarnMalformedRow     WarningKind = WarningKind(source.KindMalformedRow)
	WarnUncategorized    WarningKind = "UNCATEGORIZED_ENTRY"
	WarnUnknownClinician WarningKind = "UNKNOWN_CLINICIAN"
	WarnInvalidID        WarningKind = "INVALID_ID"
	WarnDuplicateID      WarningKind = "DUPLICATE_ID"
)

// WarningKinds lists every kind in reporting order.
var WarningKinds = []WarningKind{
	WarnMalformedRow,
	WarnUncategorized,
	WarnUnknownClinician,
	WarnInvalidID,
	WarnDuplicateID,
}

// Warning is a skipped or degraded row.
type Warning struct {
	Kind    WarningKind
	Source  string
	Row     int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s row %d: %s", w.Kind, w.Source, w.Row, w.Message)
}

func warningFromIssue(e *source.Error) Warning {
	return Warning{
		Kind:    WarningKind(e.Kind),
		Source:  e.Source,
		Row:     e.Row,
		Message: e.Message,
	}
}

func (r *Result) warn(src string, row int, kind WarningKind, msg string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Source: src, Row: row, Message: msg})
}

// CountWarnings groups warnings by kind.
func CountWarnings(ws []Warning) map[WarningKind]int {
	out := make(map[WarningKind]int)
	for _, w := range ws {
		out[w.Kind]++
	}
	return out
}
