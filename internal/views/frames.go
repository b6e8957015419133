package views

import (
	"co2dash/pkg/contracts/domain"
)

// Frame names double as export sheet names and chart titles.
const (
	FrameChoropleth  = "choropleth"
	FrameSectors     = "sectors"
	FrameSectorsAll  = "sectors_all_time"
	FrameCountries   = "countries"
	FrameTopEmitters = "top_emitters"
	FrameCO2GDP      = "co2_gdp"
	FrameForecast    = "forecast"
)

// ChoroplethFrame tabulates the coloured year slice.
func ChoroplethFrame(cells []ChoroplethCell) *domain.Frame {
	f := domain.NewFrame(FrameChoropleth, "country", "year", "co2", "color")
	for _, c := range cells {
		f.Append(c.Country, c.Year, c.CO2, c.Color)
	}
	return f
}

// SectorFrame tabulates the latest sector contributions.
func SectorFrame(shares []SectorShare) *domain.Frame {
	f := domain.NewFrame(FrameSectors, "sector", "co2_emissions", "share")
	for _, s := range shares {
		f.Append(s.Sector, s.CO2Emissions, s.Share)
	}
	return f
}

// SectorTotalsFrame tabulates all-time sector totals.
func SectorTotalsFrame(totals []domain.SectorTotal) *domain.Frame {
	f := domain.NewFrame(FrameSectorsAll, "sector", "total_emissions")
	for _, s := range totals {
		f.Append(s.Sector, s.TotalEmissions)
	}
	return f
}

// CountriesFrame tabulates the top-N country totals.
func CountriesFrame(totals []domain.CountryTotal) *domain.Frame {
	f := domain.NewFrame(FrameCountries, "country", "co2")
	for _, c := range totals {
		f.Append(c.Country, c.CO2)
	}
	return f
}

// TopEmittersFrame tabulates the unified top emitters.
func TopEmittersFrame(rows []domain.UnifiedEmitter) *domain.Frame {
	f := domain.NewFrame(FrameTopEmitters, "country", "co2_emissions")
	for _, r := range rows {
		f.Append(r.Country, r.CO2Emissions)
	}
	return f
}

// GDPFrame tabulates the CO2-per-GDP join.
func GDPFrame(points []domain.GDPPoint) *domain.Frame {
	f := domain.NewFrame(FrameCO2GDP, "country", "year", "co2_per_gdp", "gdp", "co2_emissions")
	for _, p := range points {
		f.Append(p.Country, p.Year, p.CO2PerGDP, p.GDP, p.CO2Emissions)
	}
	return f
}

// ForecastFrame tabulates a historical series extended by a forecast.
func ForecastFrame(series []domain.SeriesPoint) *domain.Frame {
	f := domain.NewFrame(FrameForecast, "year", "co2", "forecast")
	for _, p := range series {
		f.Append(p.Year, p.CO2, p.Forecast)
	}
	return f
}
