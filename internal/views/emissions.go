package views

import (
	"sort"

	"co2dash/pkg/contracts/domain"
)

// YearSlice returns the rows recorded for year, in input order.
func YearSlice(rows []domain.EmissionRecord, year int) []domain.EmissionRecord {
	out := make([]domain.EmissionRecord, 0)
	for _, r := range rows {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// TopNByEmission sorts totals by co2 descending and keeps the first n.
// Equal values keep their input order.
func TopNByEmission(totals []domain.CountryTotal, n int) []domain.CountryTotal {
	sorted := make([]domain.CountryTotal, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CO2 > sorted[j].CO2
	})

	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// RenameForUnified exposes the emission column as co2_emissions.
func RenameForUnified(top []domain.TopEmitter) []domain.UnifiedEmitter {
	out := make([]domain.UnifiedEmitter, 0, len(top))
	for _, t := range top {
		out = append(out, domain.UnifiedEmitter{Country: t.Country, CO2Emissions: t.CO2})
	}
	return out
}

// YearRange returns the span of years in rows. ok is false for no rows.
func YearRange(rows []domain.EmissionRecord) (r domain.YearRange, ok bool) {
	for i, row := range rows {
		if i == 0 {
			r = domain.YearRange{Min: row.Year, Max: row.Year}
			continue
		}
		if row.Year < r.Min {
			r.Min = row.Year
		}
		if row.Year > r.Max {
			r.Max = row.Year
		}
	}
	return r, len(rows) > 0
}

// Countries returns the distinct country names, sorted.
func Countries(rows []domain.EmissionRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	sort.Strings(out)
	return out
}

// CountrySeries returns the annual series of one country ordered by year.
func CountrySeries(rows []domain.EmissionRecord, country string) []domain.YearValue {
	out := make([]domain.YearValue, 0)
	for _, r := range rows {
		if r.Country == country {
			out = append(out, domain.YearValue{Year: r.Year, Value: r.CO2})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}
