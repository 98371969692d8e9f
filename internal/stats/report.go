package stats

import (
	"github.com/google/uuid"

	"clinicstats/internal/model"
)

// DefaultTopN bounds ranked price lists.
const DefaultTopN = 5

// Report is the full set of precomputed statistics for one catalog. It is
// built once and handed to presentation as is.
type Report struct {
	PassID                 uuid.UUID
	Clinicians             int
	CatalogServices        int
	Mapping                MappingSummary
	Coverage               []Coverage
	Distribution           []ServiceCount
	Services               []ServiceAnalysis
	Specializations        SpecializationSummary
	Departments            []DepartmentShare
	Categories             []CategoryStats
	DistinctPricedServices int
	Locations              []string
}

func BuildReport(c *model.Catalog, topN int) Report {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return Report{
		PassID:                 c.PassID(),
		Clinicians:             TotalClinicians(c),
		CatalogServices:        len(c.Services()),
		Mapping:                Mapping(c),
		Coverage:               ServiceCoverage(c),
		Distribution:           ServiceDistribution(c),
		Services:               AnalyzeServices(c),
		Specializations:        Specializations(c),
		Departments:            DepartmentRollup(c),
		Categories:             AllCategoryPrices(c, topN),
		DistinctPricedServices: DistinctPricedServices(c),
		Locations:              c.Locations(),
	}
}
