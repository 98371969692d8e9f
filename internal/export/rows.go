package export

import (
	"fmt"
	"os"
	"path/filepath"

	"clinicstats/internal/model"
	"clinicstats/internal/stats"
)

// PriceRow is one price cell: an entry at one location.
type PriceRow struct {
	PassID    string   `parquet:"pass_id"`
	Category  string   `parquet:"category"`
	Service   string   `parquet:"service"`
	Location  string   `parquet:"location"`
	Qualifier string   `parquet:"qualifier"` // exact | from | unavailable
	Amount    *float64 `parquet:"amount,optional"`
}

type CoverageRow struct {
	PassID     string  `parquet:"pass_id"`
	Service    string  `parquet:"service"`
	Clinicians int32   `parquet:"clinicians"`
	Percent    float64 `parquet:"percent"`
	HasPricing bool    `parquet:"has_pricing"`
}

type DepartmentRow struct {
	PassID     string  `parquet:"pass_id"`
	Department string  `parquet:"department"`
	Clinicians int32   `parquet:"clinicians"`
	Percent    float64 `parquet:"percent"`
}

// DeltaRow is one Exact/Exact location comparison.
type DeltaRow struct {
	PassID     string  `parquet:"pass_id"`
	Category   string  `parquet:"category"`
	Service    string  `parquet:"service"`
	LocationA  string  `parquet:"location_a"`
	LocationB  string  `parquet:"location_b"`
	PriceA     float64 `parquet:"price_a"`
	PriceB     float64 `parquet:"price_b"`
	Difference float64 `parquet:"difference"`
	Percent    float64 `parquet:"percent"`
}

// PriceRows flattens the catalog's entries, one row per entry and catalog
// location, in entry order.
func PriceRows(c *model.Catalog) []PriceRow {
	pass := c.PassID().String()
	locations := c.Locations()
	var rows []PriceRow
	for _, e := range c.PriceEntries() {
		for _, loc := range locations {
			v := e.Price(loc)
			row := PriceRow{
				PassID:    pass,
				Category:  e.Category,
				Service:   e.Service,
				Location:  loc,
				Qualifier: v.Qualifier.String(),
			}
			if amount, ok := v.Value(); ok {
				row.Amount = &amount
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func CoverageRows(r stats.Report) []CoverageRow {
	pass := r.PassID.String()
	rows := make([]CoverageRow, 0, len(r.Services))
	for i, s := range r.Services {
		row := CoverageRow{
			PassID:     pass,
			Service:    s.Service,
			Clinicians: int32(s.Clinicians),
			HasPricing: s.HasPricing,
		}
		if i < len(r.Coverage) {
			row.Percent = r.Coverage[i].Percent
		}
		rows = append(rows, row)
	}
	return rows
}

func DepartmentRows(r stats.Report) []DepartmentRow {
	pass := r.PassID.String()
	rows := make([]DepartmentRow, 0, len(r.Departments))
	for _, d := range r.Departments {
		rows = append(rows, DepartmentRow{
			PassID:     pass,
			Department: string(d.Department),
			Clinicians: int32(d.Clinicians),
			Percent:    d.Percent,
		})
	}
	return rows
}

func DeltaRows(r stats.Report) []DeltaRow {
	pass := r.PassID.String()
	var rows []DeltaRow
	for _, cat := range r.Categories {
		for _, pair := range cat.Pairs {
			for _, d := range pair.Deltas {
				rows = append(rows, DeltaRow{
					PassID:     pass,
					Category:   cat.Category,
					Service:    d.Service,
					LocationA:  d.LocationA,
					LocationB:  d.LocationB,
					PriceA:     d.A,
					PriceB:     d.B,
					Difference: d.Difference,
					Percent:    d.Percent,
				})
			}
		}
	}
	return rows
}

// File names written by WriteAll.
const (
	PricesFile      = "prices.parquet"
	CoverageFile    = "coverage.parquet"
	DepartmentsFile = "departments.parquet"
	DeltasFile      = "price_deltas.parquet"
)

// WriteAll writes every export table into dir, creating it if needed, and
// returns the row count per file.
func WriteAll(dir string, c *model.Catalog, r stats.Report) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	counts := make(map[string]int)
	write := func(name string, fn func(string) (int, error)) error {
		n, err := fn(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		counts[name] = n
		return nil
	}

	if err := write(PricesFile, func(p string) (int, error) { return writeFile(p, PriceRows(c)) }); err != nil {
		return nil, err
	}
	if err := write(CoverageFile, func(p string) (int, error) { return writeFile(p, CoverageRows(r)) }); err != nil {
		return nil, err
	}
	if err := write(DepartmentsFile, func(p string) (int, error) { return writeFile(p, DepartmentRows(r)) }); err != nil {
		return nil, err
	}
	if err := write(DeltasFile, func(p string) (int, error) { return writeFile(p, DeltaRows(r)) }); err != nil {
		return nil, err
	}
	return counts, nil
}
