// Package ingest runs one ingestion pass: load every source table, resolve
// rows into model entities and build the catalog atomically.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clinicstats/internal/membership"
	"clinicstats/internal/model"
	"clinicstats/internal/pricelist"
	"clinicstats/internal/source"
)

// Layout selects how price tables are read.
type Layout string

const (
	// LayoutCombined: one table whose first column mixes category headers
	// and services, followed by one price column per location.
	LayoutCombined Layout = "combined"

	// LayoutPerCategory: one table per category. The first data row repeats
	// the category and location names and is skipped.
	LayoutPerCategory Layout = "per-category"
)

// Column names expected in the input tables.
const (
	ColID              = "id"
	ColName            = "Name"
	ColSpecialization  = "Specialization"
	ColServices        = "Services"
	ColServicesOffered = "Services Offered"
)

// PriceTable names one price-list table. Category is the category the
// table starts in; it is required for the per-category layout.
type PriceTable struct {
	Name     string
	Category string
}

// Sources names the tables of one pass.
type Sources struct {
	Clinicians string
	Services   string
	Mapping    string
	Prices     []PriceTable
}

type Options struct {
	Layout Layout
	// Locations names the price columns. The combined layout prefers the
	// header row and falls back to these for blank header cells.
	Locations []string
	Sentinel  string
	Logger    zerolog.Logger
}

// DefaultLocations are the two clinic sites of the price lists.
var DefaultLocations = []string{"Canary Wharf", "Orpington"}

// Tables holds the raw tables of one pass, before any resolution.
type Tables struct {
	Clinicians *source.Table
	Services   *source.Table
	Mapping    *source.Table
	Prices     []*source.Table
	// Checksum covers every table's checksum in load order.
	Checksum [32]byte
}

// Result is a built catalog with the row-level warnings found on the way.
type Result struct {
	Catalog  *model.Catalog
	Warnings []Warning
	Checksum [32]byte
	// key is Checksum combined with the settings that built the catalog.
	key [32]byte
}

// Pipeline loads and builds catalogs. It holds no state between runs.
type Pipeline struct {
	loader  source.Loader
	sources Sources
	opts    Options
}

func NewPipeline(loader source.Loader, sources Sources, opts Options) *Pipeline {
	if opts.Layout == "" {
		opts.Layout = LayoutCombined
	}
	if len(opts.Locations) == 0 {
		opts.Locations = DefaultLocations
	}
	return &Pipeline{loader: loader, sources: sources, opts: opts}
}

// Run loads every source then builds the catalog. On failure no catalog is
// returned.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	tables, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return p.Build(tables)
}

// Load attempts every table, even after a failure, and reports all failing
// sources in one *Error.
func (p *Pipeline) Load(ctx context.Context) (*Tables, error) {
	log := p.opts.Logger
	var (
		t    Tables
		errs []error
	)

	load := func(name string) *source.Table {
		tbl, err := p.loader.Load(ctx, name)
		if err != nil {
			log.Error().Err(err).Str("table", name).Msg("load failed")
			errs = append(errs, err)
			return nil
		}
		log.Info().
			Str("table", name).
			Int("rows", len(tbl.Rows)).
			Int("skipped", len(tbl.Issues)).
			Str("encoding", tbl.Encoding).
			Str("checksum", hex.EncodeToString(tbl.Checksum[:6])).
			Msg("table loaded")
		return tbl
	}

	t.Clinicians = load(p.sources.Clinicians)
	t.Services = load(p.sources.Services)
	t.Mapping = load(p.sources.Mapping)
	for _, pt := range p.sources.Prices {
		t.Prices = append(t.Prices, load(pt.Name))
	}
	if len(errs) > 0 {
		return nil, &Error{Errs: errs}
	}

	h := sha256.New()
	for _, tbl := range t.all() {
		h.Write(tbl.Checksum[:])
	}
	copy(t.Checksum[:], h.Sum(nil))
	return &t, nil
}

// cacheKey identifies a catalog by its source checksum and every setting
// that changes how the sources are read.
func (p *Pipeline) cacheKey(checksum [32]byte) [32]byte {
	h := sha256.New()
	h.Write(checksum[:])
	field := func(parts ...string) {
		for _, s := range parts {
			h.Write([]byte(s))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	field(string(p.opts.Layout), p.opts.Sentinel)
	field(p.opts.Locations...)
	field(p.sources.Clinicians, p.sources.Services, p.sources.Mapping)
	for _, pt := range p.sources.Prices {
		field(pt.Name, pt.Category)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (t *Tables) all() []*source.Table {
	out := []*source.Table{t.Clinicians, t.Services, t.Mapping}
	return append(out, t.Prices...)
}

// Build resolves loaded tables into a catalog. Missing required columns are
// fatal and reported together; row-level problems become warnings.
func (p *Pipeline) Build(t *Tables) (*Result, error) {
	start := time.Now()
	log := p.opts.Logger
	b := model.NewBuilder(uuid.New())
	res := &Result{Checksum: t.Checksum, key: p.cacheKey(t.Checksum)}
	var errs []error

	for _, tbl := range t.all() {
		for _, issue := range tbl.Issues {
			log.Debug().Str("table", tbl.Name).Int("row", issue.Row).Msg(issue.Message)
			res.Warnings = append(res.Warnings, warningFromIssue(issue))
		}
	}

	ids, err := p.buildRoster(b, t.Clinicians, res)
	if err != nil {
		errs = append(errs, err)
	}
	if err := p.buildCatalog(b, t.Services); err != nil {
		errs = append(errs, err)
	}
	if err := p.buildMapping(b, t.Mapping, ids, res); err != nil {
		errs = append(errs, err)
	}
	for i, tbl := range t.Prices {
		var category string
		if i < len(p.sources.Prices) {
			category = p.sources.Prices[i].Category
		}
		if err := p.buildPrices(b, tbl, category, res); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, &Error{Errs: errs}
	}

	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	res.Catalog = c
	log.Info().
		Str("pass_id", c.PassID().String()).
		Int("clinicians", c.NumClinicians()).
		Int("services", len(c.Services())).
		Int("memberships", len(c.Memberships())).
		Int("price_entries", len(c.PriceEntries())).
		Int("warnings", len(res.Warnings)).
		Dur("took", time.Since(start)).
		Msg("catalog built")
	return res, nil
}

// buildRoster adds clinicians and returns name → id for the mapping join.
// Without an id column, ids are 1-based data row positions.
func (p *Pipeline) buildRoster(b *model.Builder, t *source.Table, res *Result) (map[string]int, error) {
	nameCol, err := t.RequireColumn(ColName)
	if err != nil {
		return nil, err
	}
	specCol, err := t.RequireColumn(ColSpecialization)
	if err != nil {
		return nil, err
	}
	idCol := t.Column(ColID)

	ids := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		id := i + 1
		if idCol >= 0 {
			parsed, err := strconv.Atoi(row.At(idCol))
			if err != nil || parsed < 0 {
				res.warn(t.Name, row.Num, WarnInvalidID, fmt.Sprintf("id %q is not a non-negative integer, using %d", row.At(idCol), id))
			} else {
				id = parsed
			}
		}
		cl := model.Clinician{ID: id, Name: row.At(nameCol), Specialization: row.At(specCol)}
		if err := b.AddClinician(cl); err != nil {
			res.warn(t.Name, row.Num, WarnDuplicateID, err.Error())
			continue
		}
		if _, seen := ids[cl.Name]; !seen {
			ids[cl.Name] = cl.ID
		}
	}
	return ids, nil
}

// buildCatalog reads the Services column. A single-column table is accepted
// whatever its header says.
func (p *Pipeline) buildCatalog(b *model.Builder, t *source.Table) error {
	col := t.Column(ColServices)
	if col < 0 {
		if len(t.Header) != 1 {
			return source.MissingColumn(t.Name, ColServices)
		}
		col = 0
	}
	for _, row := range t.Rows {
		name := row.At(col)
		if name == "" {
			continue
		}
		if err := b.AddService(model.CatalogService{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) buildMapping(b *model.Builder, t *source.Table, ids map[string]int, res *Result) error {
	var cols [3]int
	for i, name := range []string{ColName, ColSpecialization, ColServicesOffered} {
		c, err := t.RequireColumn(name)
		if err != nil {
			return err
		}
		cols[i] = c
	}

	resolver := membership.Resolver{Sentinel: p.opts.Sentinel}
	for _, row := range t.Rows {
		name := row.At(cols[0])
		id, ok := ids[name]
		if !ok {
			id = model.UnknownClinician
			res.warn(t.Name, row.Num, WarnUnknownClinician, fmt.Sprintf("%q is not on the roster", name))
		}
		m := resolver.Membership(id, name, row.At(cols[1]), row.At(cols[2]))
		if err := b.AddMembership(m); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) buildPrices(b *model.Builder, t *source.Table, category string, res *Result) error {
	opts := pricelist.Options{Locations: p.opts.Locations, InitialCategory: category}
	rows := t.Rows
	if p.opts.Layout == LayoutPerCategory {
		// The first record repeats the category and location names. It is
		// skipped by position: when it was malformed it is already gone.
		rows = make([]source.Row, 0, len(t.Rows))
		for _, r := range t.Rows {
			if r.Num != t.FirstRecord {
				rows = append(rows, r)
			}
		}
	} else {
		opts.Locations = p.locationsFromHeader(t.Header)
	}

	for _, loc := range opts.Locations {
		if err := b.AddLocation(loc); err != nil {
			return err
		}
	}

	parser := pricelist.NewParser(opts)
	for _, row := range rows {
		parser.Feed(row.Num, row.Cells)
	}
	parsed := parser.Result()

	for _, c := range parsed.Categories {
		if err := b.AddCategory(c); err != nil {
			return err
		}
	}
	for _, e := range parsed.Entries {
		if err := b.AddPriceEntry(e); err != nil {
			return err
		}
	}
	for _, issue := range parsed.Issues {
		res.warn(t.Name, issue.Row, WarnUncategorized, fmt.Sprintf("%s: tagged %s", issue.Service, pricelist.Uncategorized))
	}
	return nil
}

// locationsFromHeader names the price columns after the first from the
// header row. Blank cells take the configured name at the same position.
func (p *Pipeline) locationsFromHeader(header []string) []string {
	if len(header) < 2 {
		return p.opts.Locations
	}
	out := make([]string, 0, len(header)-1)
	for i, h := range header[1:] {
		h = strings.TrimSpace(h)
		if h == "" {
			if i < len(p.opts.Locations) {
				h = p.opts.Locations[i]
			} else {
				h = fmt.Sprintf("Location %d", i+1)
			}
		}
		out = append(out, h)
	}
	return out
}

// Error lists every source that failed in one pass.
type Error struct {
	Errs []error
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("ingestion failed (%d): %s", len(e.Errs), strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() []error {
	return e.Errs
}

// Sources returns the names of failing sources that reported one.
func (e *Error) Sources() []string {
	var out []string
	for _, err := range e.Errs {
		var se *source.Error
		if errors.As(err, &se) {
			out = append(out, se.Source)
		}
	}
	return out
}
