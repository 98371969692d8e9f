// Package membership resolves a clinician's "services offered" text into a
// set of service names.
package membership

import (
	"sort"
	"strings"

	"clinicstats/internal/model"
)

// Sentinel is the marker the mapping source uses for "no mapped services".
const Sentinel = "No Match"

// Resolution is the parsed form of one services cell.
type Resolution struct {
	Set map[string]struct{}
	// Tokens holds the trimmed tokens in source order, duplicates included.
	Tokens []string
}

func (r Resolution) Empty() bool { return len(r.Set) == 0 }

func (r Resolution) Has(service string) bool {
	_, ok := r.Set[service]
	return ok
}

// Services returns the distinct services, sorted.
func (r Resolution) Services() []string {
	out := make([]string, 0, len(r.Set))
	for s := range r.Set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Resolver splits services text. The zero value uses the default sentinel.
type Resolver struct {
	Sentinel string
}

func (r Resolver) sentinel() string {
	if r.Sentinel == "" {
		return Sentinel
	}
	return r.Sentinel
}

// IsSentinel reports whether raw is the "no services" marker.
func (r Resolver) IsSentinel(raw string) bool {
	return strings.TrimSpace(raw) == r.sentinel()
}

// Resolve returns the empty set for the sentinel; otherwise it splits raw on
// commas, trims each token and drops empty ones.
func (r Resolver) Resolve(raw string) Resolution {
	res := Resolution{Set: make(map[string]struct{})}
	if r.IsSentinel(raw) {
		return res
	}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		res.Tokens = append(res.Tokens, tok)
		res.Set[tok] = struct{}{}
	}
	return res
}

// Membership builds the model row for one mapping record. The sentinel is
// never carried into the model: such rows get an empty Raw.
func (r Resolver) Membership(clinicianID int, name, specialization, raw string) model.ServiceMembership {
	res := r.Resolve(raw)
	stored := strings.TrimSpace(raw)
	if res.Empty() {
		stored = ""
	}
	return model.NewServiceMembership(clinicianID, name, specialization, stored, res.Tokens)
}

// Resolve uses the default sentinel.
func Resolve(raw string) Resolution {
	return Resolver{}.Resolve(raw)
}

// Offers reports whether service occurs in raw, ignoring case. This is a
// plain substring test: "CT" is offered by any text containing "CT Scan" or
// "Doctor". Coverage counts depend on this behaviour.
func Offers(raw, service string) bool {
	if service == "" {
		return false
	}
	return strings.Contains(strings.ToLower(raw), strings.ToLower(service))
}

// Join renders tokens the way the mapping source writes them.
func Join(tokens []string) string {
	return strings.Join(tokens, ", ")
}
