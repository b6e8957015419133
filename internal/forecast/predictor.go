package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Predictor returns the next normalized value for a window of normalized
// values.
type Predictor interface {
	PredictNext(ctx context.Context, window []float64) (float64, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, window []float64) (float64, error)

// PredictNext calls f.
func (f PredictorFunc) PredictNext(ctx context.Context, window []float64) (float64, error) {
	return f(ctx, window)
}

// LinearPredictor is an autoregressive model: bias + dot(weights, window).
// Weights[0] applies to the oldest value in the window.
type LinearPredictor struct {
	Window  int       `json:"window"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// PredictNext applies the model to window.
func (p *LinearPredictor) PredictNext(ctx context.Context, window []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(window) != len(p.Weights) {
		return 0, fmt.Errorf("window has %d values, model expects %d", len(window), len(p.Weights))
	}
	return p.Bias + floats.Dot(p.Weights, window), nil
}

// WindowSize returns the input length the model was trained on.
func (p *LinearPredictor) WindowSize() int {
	return p.Window
}

// MeanPredictor predicts the mean of the window. It is the baseline the
// trained models are compared against.
type MeanPredictor struct {
	Window int `json:"window"`
}

// PredictNext returns the window mean.
func (p *MeanPredictor) PredictNext(ctx context.Context, window []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(window) == 0 {
		return 0, errors.New("empty window")
	}
	return stat.Mean(window, nil), nil
}

// WindowSize returns the configured window.
func (p *MeanPredictor) WindowSize() int {
	return p.Window
}

// windowed is implemented by predictors that know their input length.
type windowed interface {
	WindowSize() int
}

type modelFile struct {
	Kind    string    `json:"kind"`
	Window  int       `json:"window"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// DecodePredictor parses a model artifact.
func DecodePredictor(data []byte) (Predictor, error) {
	var f modelFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if f.Window <= 0 {
		return nil, fmt.Errorf("invalid model window %d", f.Window)
	}

	switch f.Kind {
	case "linear":
		if len(f.Weights) != f.Window {
			return nil, fmt.Errorf("model has %d weights for window %d", len(f.Weights), f.Window)
		}
		if !finite(append([]float64{f.Bias}, f.Weights...)...) {
			return nil, errors.New("model parameters must be finite")
		}
		return &LinearPredictor{Window: f.Window, Weights: f.Weights, Bias: f.Bias}, nil
	case "mean":
		return &MeanPredictor{Window: f.Window}, nil
	case "":
		return nil, errors.New("model kind is missing")
	default:
		return nil, fmt.Errorf("unknown model kind %q", f.Kind)
	}
}
