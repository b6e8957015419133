package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"co2dash/internal/forecast"
)

func identityScaler() forecast.Scaler {
	return &forecast.MinMaxScaler{DataMin: 0, DataMax: 1, FeatureRange: [2]float64{0, 1}}
}

func newForecastService(t *testing.T, artifacts *MockArtifacts, horizon int) *ForecastService {
	t.Helper()
	tables := new(MockTableSource)
	tables.On("Tables", mock.Anything).Return(fixtureTables(), nil)
	return NewForecastService(tables, artifacts, forecast.NewExtender(5, horizon), nil, testLogger())
}

func TestForecastExtendsHistory(t *testing.T) {
	artifacts := new(MockArtifacts)
	artifacts.On("Load", mock.Anything).Return(identityScaler(), &forecast.MeanPredictor{Window: 5}, nil)
	svc := newForecastService(t, artifacts, 3)

	result, err := svc.Forecast(context.Background(), " China ")
	require.NoError(t, err)
	assert.Equal(t, "China", result.Country)
	assert.Equal(t, 5, result.Window)
	assert.Equal(t, 3, result.Horizon)
	require.Len(t, result.Series, 9)

	for i, p := range result.Series {
		assert.Equal(t, 2015+i, p.Year)
		assert.Equal(t, i >= 6, p.Forecast, "year %d", p.Year)
	}
	// Mean of 2016..2020
	assert.InDelta(t, 9300.0, result.Series[6].CO2, 1e-6)
	artifacts.AssertExpectations(t)
}

func TestForecastUnknownCountry(t *testing.T) {
	artifacts := new(MockArtifacts)
	svc := newForecastService(t, artifacts, 3)

	_, err := svc.Forecast(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrUnknownCountry)

	_, err = svc.Forecast(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUnknownCountry)

	// Artifacts are not touched for an unknown country
	artifacts.AssertNotCalled(t, "Load", mock.Anything)
}

func TestForecastArtifactsUnavailable(t *testing.T) {
	unavailable := &forecast.UnavailableError{Artifact: forecast.ArtifactModel, Path: "model.json", Err: errors.New("no such file")}
	artifacts := new(MockArtifacts)
	artifacts.On("Load", mock.Anything).Return(nil, nil, unavailable)
	svc := newForecastService(t, artifacts, 3)

	_, err := svc.Forecast(context.Background(), "France")
	assert.ErrorIs(t, err, forecast.ErrUnavailable)

	var ue *forecast.UnavailableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, forecast.ArtifactModel, ue.Artifact)
}

func TestForecastInsufficientHistory(t *testing.T) {
	artifacts := new(MockArtifacts)
	artifacts.On("Load", mock.Anything).Return(identityScaler(), &forecast.MeanPredictor{Window: 10}, nil)
	tables := new(MockTableSource)
	tables.On("Tables", mock.Anything).Return(fixtureTables(), nil)
	svc := NewForecastService(tables, artifacts, forecast.NewExtender(10, 3), nil, testLogger())

	_, err := svc.Forecast(context.Background(), "France")
	assert.ErrorIs(t, err, forecast.ErrInsufficientHistory)
}

func TestForecastPredictorError(t *testing.T) {
	boom := errors.New("inference failed")
	artifacts := new(MockArtifacts)
	artifacts.On("Load", mock.Anything).Return(identityScaler(), forecast.PredictorFunc(func(context.Context, []float64) (float64, error) {
		return 0, boom
	}), nil)
	svc := newForecastService(t, artifacts, 3)

	_, err := svc.Forecast(context.Background(), "China")
	assert.ErrorIs(t, err, boom)
}
