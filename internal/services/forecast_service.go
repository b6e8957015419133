package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"co2dash/internal/forecast"
	"co2dash/internal/infrastructure"
	"co2dash/internal/views"
	"co2dash/pkg/contracts/domain"
)

// Forecast run outcomes reported to metrics
const (
	forecastSuccess     = "success"
	forecastUnavailable = "unavailable"
	forecastError       = "error"
)

// ArtifactSource provides the trained scaler and model.
// *forecast.ArtifactLoader satisfies it.
type ArtifactSource interface {
	Load(ctx context.Context) (forecast.Scaler, forecast.Predictor, error)
}

// ForecastResult is a country's history followed by its forecast
type ForecastResult struct {
	Country string               `json:"country"`
	Window  int                  `json:"window"`
	Horizon int                  `json:"horizon"`
	Series  []domain.SeriesPoint `json:"series"`
}

// ForecastService extends country series with the trained model
type ForecastService struct {
	tables    TableSource
	artifacts ArtifactSource
	extender  *forecast.Extender
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewForecastService creates the service. metrics may be nil.
func NewForecastService(tables TableSource, artifacts ArtifactSource, extender *forecast.Extender, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ForecastService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if extender == nil {
		extender = forecast.NewExtender(forecast.DefaultWindow, forecast.DefaultHorizon)
	}
	return &ForecastService{
		tables:    tables,
		artifacts: artifacts,
		extender:  extender,
		metrics:   metrics,
		logger:    logger.With(slog.String("service", "forecast")),
	}
}

// Forecast returns the country's history followed by Horizon predicted
// years. The country must appear in the emissions table.
func (s *ForecastService) Forecast(ctx context.Context, country string) (*ForecastResult, error) {
	country = strings.TrimSpace(country)
	ctx, span := infrastructure.StartSpan(ctx, "forecast.extend",
		attribute.String("forecast.country", country),
		attribute.Int("forecast.horizon", s.extender.Horizon))
	defer span.End()

	start := time.Now()
	result, err := s.run(ctx, country)

	status := forecastSuccess
	switch {
	case err == nil:
	case errors.Is(err, forecast.ErrUnavailable):
		status = forecastUnavailable
	default:
		status = forecastError
	}
	infrastructure.RecordForecastRun(ctx, s.metrics, status, time.Since(start))

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "forecast failed",
			slog.String("country", country),
			slog.String("status", status),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "forecast completed",
		slog.String("country", country),
		slog.Int("points", len(result.Series)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (s *ForecastService) run(ctx context.Context, country string) (*ForecastResult, error) {
	if country == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownCountry)
	}

	t, err := s.tables.Tables(ctx)
	if err != nil {
		return nil, err
	}
	history := views.CountrySeries(t.CO2, country)
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}

	scaler, predictor, err := s.artifacts.Load(ctx)
	if err != nil {
		return nil, err
	}

	series, err := s.extender.Extend(ctx, history, scaler, predictor)
	if err != nil {
		return nil, err
	}
	return &ForecastResult{
		Country: country,
		Window:  s.extender.Window,
		Horizon: s.extender.Horizon,
		Series:  series,
	}, nil
}
