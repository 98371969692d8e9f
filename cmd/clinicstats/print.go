package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"clinicstats/internal/ingest"
	"clinicstats/internal/model"
	"clinicstats/internal/stats"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func printReport(w io.Writer, r stats.Report) {
	fmt.Fprintf(w, "pass %s\n", r.PassID)
	fmt.Fprintf(w, "clinicians: %d  catalog services: %d  priced services: %d\n",
		r.Clinicians, r.CatalogServices, r.DistinctPricedServices)
	fmt.Fprintf(w, "mapped: %d  unmapped: %d  mapping rate: %.1f%%\n",
		r.Mapping.Mapped, r.Mapping.Unmapped, r.Mapping.Rate)

	section(w, "Service coverage")
	tw := newTable(w)
	fmt.Fprintln(tw, "SERVICE\tCLINICIANS\tPERCENT\tPRICED")
	for i, s := range r.Services {
		pct := 0.0
		if i < len(r.Coverage) {
			pct = r.Coverage[i].Percent
		}
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%s\n", s.Service, s.Clinicians, pct, yesNo(s.HasPricing))
	}
	tw.Flush()

	section(w, "Departments")
	tw = newTable(w)
	fmt.Fprintln(tw, "DEPARTMENT\tCLINICIANS\tPERCENT")
	for _, d := range r.Departments {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", d.Department, d.Clinicians, d.Percent)
	}
	tw.Flush()

	section(w, "Specializations")
	sp := r.Specializations
	if sp.MostCommon != "" {
		fmt.Fprintf(w, "most common: %s (%d)  singletons: %d  average: %.1f\n",
			sp.MostCommon, sp.MostCommonCount, sp.Singletons, stats.Round1(sp.AveragePerSpecialization))
	}
	tw = newTable(w)
	for _, s := range sp.Counts {
		fmt.Fprintf(tw, "%s\t%d\n", s.Specialization, s.Clinicians)
	}
	tw.Flush()

	for _, cat := range r.Categories {
		printCategory(w, cat)
	}
}

func printCategory(w io.Writer, cat stats.CategoryStats) {
	section(w, "Prices: "+cat.Category)
	fmt.Fprintf(w, "services: %d", cat.Services)
	if cat.HasRange {
		fmt.Fprintf(w, "  range: £%.2f - £%.2f", cat.Min, cat.Max)
	}
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "LOCATION\tPRICED\tAVERAGE\tTOTAL")
	for _, l := range cat.Locations {
		fmt.Fprintf(tw, "%s\t%d\t£%.2f\t£%.2f\n", l.Location, l.Priced, l.Average, l.Total)
	}
	tw.Flush()

	if len(cat.BiggestDifferences) > 0 {
		fmt.Fprintln(w, "biggest differences:")
		tw = newTable(w)
		for _, d := range cat.BiggestDifferences {
			fmt.Fprintf(tw, "  %s\t%s £%.2f\t%s £%.2f\t%+.2f (%.1f%%)\n",
				d.Service, d.LocationA, d.A, d.LocationB, d.B, d.Difference, d.Percent)
		}
		tw.Flush()
	}
}

func printDetail(w io.Writer, d stats.SpecializationDetail) {
	section(w, "Specialization: "+d.Specialization)
	fmt.Fprintf(w, "clinicians: %d (%.1f%%)  providers: %d  unique services: %d\n",
		d.Clinicians, d.Percent, d.ServiceProviders, d.UniqueServices)
	tw := newTable(w)
	for _, s := range d.Services {
		fmt.Fprintf(tw, "%s\t%d\n", s.Service, s.Clinicians)
	}
	tw.Flush()
}

func printEntries(w io.Writer, locations []string, entries []model.PriceEntry) {
	tw := newTable(w)
	fmt.Fprintf(tw, "CATEGORY\tSERVICE\t%s\n", strings.ToUpper(strings.Join(locations, "\t")))
	for _, e := range entries {
		cells := make([]string, len(locations))
		for i, loc := range locations {
			cells[i] = e.Price(loc).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Category, e.Service, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func printWarningSummary(w io.Writer, ws []ingest.Warning) {
	if len(ws) == 0 {
		return
	}
	counts := ingest.CountWarnings(ws)
	parts := make([]string, 0, len(counts))
	for _, kind := range ingest.WarningKinds {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
		}
	}
	fmt.Fprintf(w, "\n%d warning(s): %s\n", len(ws), strings.Join(parts, " "))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
