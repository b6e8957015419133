package views

import "co2dash/pkg/contracts/domain"

// SectorShare is a sector's latest emission with its percentage of the
// total across all sectors.
type SectorShare struct {
	Sector       string  `json:"sector"`
	CO2Emissions float64 `json:"co2_emissions"`
	Share        float64 `json:"share"`
}

// SectorShares computes each sector's share of the latest total, as the
// pie chart shows it. Shares are zero when the total is zero.
func SectorShares(latest []domain.SectorContribution) []SectorShare {
	var total float64
	for _, s := range latest {
		total += s.CO2Emissions
	}

	out := make([]SectorShare, 0, len(latest))
	for _, s := range latest {
		share := 0.0
		if total > 0 {
			share = s.CO2Emissions / total * 100
		}
		out = append(out, SectorShare{Sector: s.Sector, CO2Emissions: s.CO2Emissions, Share: share})
	}
	return out
}

// SectorTotals returns a copy of the all-time sector table.
func SectorTotals(all []domain.SectorTotal) []domain.SectorTotal {
	out := make([]domain.SectorTotal, len(all))
	copy(out, all)
	return out
}
