package forecast

import (
	"context"
	"fmt"

	"co2dash/pkg/contracts/domain"
)

// Defaults for the roll-forward.
const (
	DefaultWindow  = 5
	DefaultHorizon = 10
)

// Extender rolls a series forward one predicted step at a time.
type Extender struct {
	Window  int
	Horizon int
}

// NewExtender returns an extender with the given window and horizon.
// Non-positive values fall back to the defaults.
func NewExtender(window, horizon int) *Extender {
	if window <= 0 {
		window = DefaultWindow
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Extender{Window: window, Horizon: horizon}
}

// Predict returns Horizon raw-unit predictions following history, which
// must be ordered by year with one value per year.
func (e *Extender) Predict(ctx context.Context, history []domain.YearValue, scaler Scaler, predictor Predictor) ([]domain.YearValue, error) {
	if len(history) < e.Window {
		return nil, fmt.Errorf("%w: have %d years, need %d", ErrInsufficientHistory, len(history), e.Window)
	}

	raw := make([]float64, len(history))
	for i, h := range history {
		raw[i] = h.Value
	}
	normalized := scaler.Transform(raw)

	window := make([]float64, e.Window)
	copy(window, normalized[len(normalized)-e.Window:])

	predicted := make([]float64, 0, e.Horizon)
	for step := 0; step < e.Horizon; step++ {
		next, err := predictor.PredictNext(ctx, window)
		if err != nil {
			return nil, fmt.Errorf("predict step %d: %w", step+1, err)
		}
		predicted = append(predicted, next)
		copy(window, window[1:])
		window[len(window)-1] = next
	}

	values := scaler.InverseTransform(predicted)
	lastYear := history[len(history)-1].Year
	out := make([]domain.YearValue, 0, e.Horizon)
	for i, v := range values {
		out = append(out, domain.YearValue{Year: lastYear + 1 + i, Value: v})
	}
	return out, nil
}

// Extend returns history followed by the forecast, with forecast points
// flagged.
func (e *Extender) Extend(ctx context.Context, history []domain.YearValue, scaler Scaler, predictor Predictor) ([]domain.SeriesPoint, error) {
	future, err := e.Predict(ctx, history, scaler, predictor)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SeriesPoint, 0, len(history)+len(future))
	for _, h := range history {
		out = append(out, domain.SeriesPoint{Year: h.Year, CO2: h.Value})
	}
	for _, f := range future {
		out = append(out, domain.SeriesPoint{Year: f.Year, CO2: f.Value, Forecast: true})
	}
	return out, nil
}
