package pricelist

import (
	"fmt"
	"strings"

	"clinicstats/internal/model"
)

// Uncategorized tags entries that appear before any category header.
const Uncategorized = "Uncategorized"

// Options configures a Parser.
type Options struct {
	// Locations names the price columns following the service column, in
	// order. A row has exactly len(Locations) price cells; missing trailing
	// cells read as blank.
	Locations []string
	// InitialCategory is the category in effect before the first header row.
	// Per-category tables set it to the table's configured category.
	InitialCategory string
}

// Issue is a non-fatal problem found while parsing a row.
type Issue struct {
	Row     int
	Service string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d (%s): %s", i.Row, i.Service, i.Message)
}

// Result is the output of one parsed table.
type Result struct {
	Entries []model.PriceEntry
	// Categories lists header names in first-seen order, including headers
	// that were followed by no entries.
	Categories []string
	Issues     []Issue
}

// Parser separates category header rows from service rows. Rows are fed in
// source order; the most recent header names the category of every entry
// after it.
type Parser struct {
	opts    Options
	current string
	seen    map[string]bool
	result  Result
}

func NewParser(opts Options) *Parser {
	p := &Parser{
		opts:    opts,
		current: strings.TrimSpace(opts.InitialCategory),
		seen:    make(map[string]bool),
	}
	if p.current != "" {
		p.addCategory(p.current)
	}
	return p
}

func (p *Parser) addCategory(name string) {
	if p.seen[name] {
		return
	}
	p.seen[name] = true
	p.result.Categories = append(p.result.Categories, name)
}

// IsHeaderRow reports whether a row is a category header: a non-blank first
// cell and every one of the n price cells blank. A row with any price
// present is data.
func IsHeaderRow(cells []string, n int) bool {
	if len(cells) == 0 || IsBlank(cells[0]) {
		return false
	}
	for i := 1; i <= n; i++ {
		if i < len(cells) && !IsBlank(cells[i]) {
			return false
		}
	}
	return true
}

// Feed consumes one row. rowNum is the row's position in the source and is
// only used for issues. Rows with a blank first cell are ignored.
func (p *Parser) Feed(rowNum int, cells []string) {
	if len(cells) == 0 || IsBlank(cells[0]) {
		return
	}
	name := strings.TrimSpace(cells[0])
	n := len(p.opts.Locations)

	if IsHeaderRow(cells, n) {
		p.current = name
		p.addCategory(name)
		return
	}

	category := p.current
	if category == "" {
		category = Uncategorized
		p.addCategory(category)
		p.result.Issues = append(p.result.Issues, Issue{
			Row:     rowNum,
			Service: name,
			Message: "service row before any category header",
		})
	}

	prices := make(map[string]model.PriceValue, n)
	for i, loc := range p.opts.Locations {
		cell := ""
		if i+1 < len(cells) {
			cell = cells[i+1]
		}
		prices[loc] = ParsePrice(cell)
	}
	p.result.Entries = append(p.result.Entries, model.NewPriceEntry(category, name, prices))
}

// Result returns what has been parsed so far.
func (p *Parser) Result() Result {
	return Result{
		Entries:    append([]model.PriceEntry(nil), p.result.Entries...),
		Categories: append([]string(nil), p.result.Categories...),
		Issues:     append([]Issue(nil), p.result.Issues...),
	}
}

// ParseTable parses rows in order. Row numbers in issues are 1-based
// positions in rows.
func ParseTable(rows [][]string, opts Options) Result {
	p := NewParser(opts)
	for i, row := range rows {
		p.Feed(i+1, row)
	}
	return p.Result()
}
