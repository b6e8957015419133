package dataset

import "fmt"

// Name is the logical name of a dataset.
type Name string

const (
	CO2          Name = "co2"
	CO2PerGDP    Name = "gdp"
	CountryTotal Name = "country_total"
	TopEmitters  Name = "top_emitters"
	SectorLatest Name = "sector_latest"
	SectorAll    Name = "sector_all"
)

// Column names shared by the source files.
const (
	ColCountry        = "country"
	ColYear           = "year"
	ColCO2            = "co2"
	ColCO2PerGDP      = "co2_per_gdp"
	ColSector         = "sector"
	ColCO2Emissions   = "co2_emissions"
	ColTotalEmissions = "total_emissions"
)

var requiredColumns = map[Name][]string{
	CO2:          {ColCountry, ColYear, ColCO2},
	CO2PerGDP:    {ColCountry, ColYear, ColCO2PerGDP},
	CountryTotal: {ColCountry, ColCO2},
	TopEmitters:  {ColCountry, ColCO2},
	SectorLatest: {ColSector, ColCO2Emissions},
	SectorAll:    {ColSector, ColTotalEmissions},
}

// Names returns every dataset name in load order.
func Names() []Name {
	return []Name{CO2, CO2PerGDP, CountryTotal, TopEmitters, SectorLatest, SectorAll}
}

// Paths maps each dataset to its source file.
type Paths struct {
	CO2          string
	CO2PerGDP    string
	CountryTotal string
	TopEmitters  string
	SectorLatest string
	SectorAll    string
}

// For returns the file path of the named dataset.
func (p Paths) For(name Name) string {
	switch name {
	case CO2:
		return p.CO2
	case CO2PerGDP:
		return p.CO2PerGDP
	case CountryTotal:
		return p.CountryTotal
	case TopEmitters:
		return p.TopEmitters
	case SectorLatest:
		return p.SectorLatest
	case SectorAll:
		return p.SectorAll
	}
	return ""
}

// Validate checks that every dataset has a path.
func (p Paths) Validate() error {
	for _, name := range Names() {
		if p.For(name) == "" {
			return &LoadError{Dataset: name, Err: fmt.Errorf("no file path configured")}
		}
	}
	return nil
}
