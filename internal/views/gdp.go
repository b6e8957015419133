package views

import (
	"math"

	"co2dash/pkg/contracts/domain"
)

// CO2PerGDPJoin inner-joins the intensity table with country totals on
// country and derives gdp = co2_emissions / co2_per_gdp.
//
// Rows whose gdp is not a finite, non-negative number are dropped. That
// covers a zero or missing co2_per_gdp. The year of each output row is
// the intensity table's year. Every matching pair is kept, ordered by the
// intensity rows and then by the totals rows.
func CO2PerGDPJoin(gdp []domain.CO2PerGDPRecord, totals []domain.CountryTotal) []domain.GDPPoint {
	byCountry := make(map[string][]float64, len(totals))
	for _, t := range totals {
		byCountry[t.Country] = append(byCountry[t.Country], t.CO2)
	}

	out := make([]domain.GDPPoint, 0)
	for _, g := range gdp {
		for _, emissions := range byCountry[g.Country] {
			value := emissions / g.CO2PerGDP
			if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
				continue
			}
			out = append(out, domain.GDPPoint{
				Country:      g.Country,
				Year:         g.Year,
				CO2PerGDP:    g.CO2PerGDP,
				GDP:          value,
				CO2Emissions: emissions,
			})
		}
	}
	return out
}
