package domain

// EmissionRecord is one row of the per-country, per-year CO2 table.
// (Country, Year) is assumed unique.
type EmissionRecord struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	CO2     float64 `json:"co2"`
}

// CO2PerGDPRecord holds the latest emission intensity per country.
// CO2PerGDP is NaN when the source cell was empty.
type CO2PerGDPRecord struct {
	Country   string  `json:"country"`
	Year      int     `json:"year"`
	CO2PerGDP float64 `json:"co2_per_gdp"`
}

// CountryTotal is the total emission for a country.
type CountryTotal struct {
	Country string  `json:"country"`
	CO2     float64 `json:"co2"`
}

// TopEmitter is a row of the pre-limited top emitters table.
type TopEmitter struct {
	Country string  `json:"country"`
	CO2     float64 `json:"co2"`
}

// SectorContribution is a sector's emission for the most recent year.
type SectorContribution struct {
	Sector       string  `json:"sector"`
	CO2Emissions float64 `json:"co2_emissions"`
}

// SectorTotal is a sector's all-time emission total.
type SectorTotal struct {
	Sector         string  `json:"sector"`
	TotalEmissions float64 `json:"total_emissions"`
}

// UnifiedEmitter is a TopEmitter after the emission column was renamed
// to co2_emissions for display.
type UnifiedEmitter struct {
	Country      string  `json:"country"`
	CO2Emissions float64 `json:"co2_emissions"`
}

// GDPPoint is one row of the CO2-per-GDP join. Year comes from the
// CO2-per-GDP table, which is the column of record.
type GDPPoint struct {
	Country      string  `json:"country"`
	Year         int     `json:"year"`
	CO2PerGDP    float64 `json:"co2_per_gdp"`
	GDP          float64 `json:"gdp"`
	CO2Emissions float64 `json:"co2_emissions"`
}

// YearValue is one observation of an annual series.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// SeriesPoint is a point of a displayed series. Forecast marks values
// produced by the forecast extender rather than read from history.
type SeriesPoint struct {
	Year     int     `json:"year"`
	CO2      float64 `json:"co2"`
	Forecast bool    `json:"forecast"`
}

// YearRange is the inclusive span of years present in a table.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Clamp returns year limited to the range.
func (r YearRange) Clamp(year int) int {
	if year < r.Min {
		return r.Min
	}
	if year > r.Max {
		return r.Max
	}
	return year
}
