package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"co2dash/internal/config"
	"co2dash/internal/dataset"
	"co2dash/internal/forecast"
	"co2dash/pkg/contracts/domain"
)

// MockTableSource is a mock for TableSource and DataState
type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) Tables(ctx context.Context) (*dataset.Tables, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(*dataset.Tables), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTableSource) Loaded() bool {
	return m.Called().Bool(0)
}

// MockArtifacts is a mock for ArtifactSource
type MockArtifacts struct {
	mock.Mock
}

func (m *MockArtifacts) Load(ctx context.Context) (forecast.Scaler, forecast.Predictor, error) {
	args := m.Called(ctx)
	var s forecast.Scaler
	var p forecast.Predictor
	if v := args.Get(0); v != nil {
		s = v.(forecast.Scaler)
	}
	if v := args.Get(1); v != nil {
		p = v.(forecast.Predictor)
	}
	return s, p, args.Error(2)
}

func (m *MockArtifacts) Status() map[forecast.Artifact]string {
	return m.Called().Get(0).(map[forecast.Artifact]string)
}

// MockForecaster is a mock for Forecaster
type MockForecaster struct {
	mock.Mock
}

func (m *MockForecaster) Forecast(ctx context.Context, country string) (*ForecastResult, error) {
	args := m.Called(ctx, country)
	if r := args.Get(0); r != nil {
		return r.(*ForecastResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockHub is a mock for HubStatter
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Stats() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSettings() config.DashboardConfig {
	return config.DashboardConfig{DefaultYear: 2022, DefaultTopN: 15, MinTopN: 5, MaxTopN: 50}
}

func fixtureTables() *dataset.Tables {
	var co2 []domain.EmissionRecord
	for year := 2015; year <= 2020; year++ {
		co2 = append(co2,
			domain.EmissionRecord{Country: "China", Year: year, CO2: float64(9000 + 100*(year-2015))},
			domain.EmissionRecord{Country: "France", Year: year, CO2: float64(330 - (year - 2015))},
		)
	}
	totals := make([]domain.CountryTotal, 0, 20)
	for i := 0; i < 20; i++ {
		totals = append(totals, domain.CountryTotal{Country: string(rune('A' + i)), CO2: float64(100 * (i + 1))})
	}
	totals = append(totals,
		domain.CountryTotal{Country: "China", CO2: 250000},
		domain.CountryTotal{Country: "France", CO2: 39000},
	)

	return &dataset.Tables{
		CO2: co2,
		CO2PerGDP: []domain.CO2PerGDPRecord{
			{Country: "China", Year: 2020, CO2PerGDP: 0.5},
			{Country: "France", Year: 2020, CO2PerGDP: 0.1},
			{Country: "Nowhere", Year: 2020, CO2PerGDP: 0.3},
		},
		CountryTotals: totals,
		TopEmitters: []domain.TopEmitter{
			{Country: "China", CO2: 11000},
			{Country: "USA", CO2: 5000},
		},
		SectorLatest: []domain.SectorContribution{
			{Sector: "Energy", CO2Emissions: 75},
			{Sector: "Agriculture", CO2Emissions: 25},
		},
		SectorAll: []domain.SectorTotal{
			{Sector: "Energy", TotalEmissions: 9000},
		},
		LoadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
