package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scaler is a previously fitted, invertible transform between raw values
// and the model's normalized range.
type Scaler interface {
	Transform(values []float64) []float64
	InverseTransform(values []float64) []float64
}

// MinMaxScaler maps [DataMin, DataMax] onto FeatureRange.
type MinMaxScaler struct {
	DataMin      float64    `json:"data_min"`
	DataMax      float64    `json:"data_max"`
	FeatureRange [2]float64 `json:"feature_range"`
}

func (s *MinMaxScaler) scale() float64 {
	span := s.DataMax - s.DataMin
	if span == 0 {
		span = 1
	}
	return (s.FeatureRange[1] - s.FeatureRange[0]) / span
}

// Transform returns (x - DataMin) * scale + FeatureRange[0] for each x.
func (s *MinMaxScaler) Transform(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-s.DataMin, out)
	floats.Scale(s.scale(), out)
	floats.AddConst(s.FeatureRange[0], out)
	return out
}

// InverseTransform undoes Transform.
func (s *MinMaxScaler) InverseTransform(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-s.FeatureRange[0], out)
	floats.Scale(1/s.scale(), out)
	floats.AddConst(s.DataMin, out)
	return out
}

// StandardScaler maps values to zero mean and unit variance.
type StandardScaler struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

func (s *StandardScaler) std() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

// Transform returns (x - Mean) / Scale for each x.
func (s *StandardScaler) Transform(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-s.Mean, out)
	floats.Scale(1/s.std(), out)
	return out
}

// InverseTransform undoes Transform.
func (s *StandardScaler) InverseTransform(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.Scale(s.std(), out)
	floats.AddConst(s.Mean, out)
	return out
}

type scalerFile struct {
	Kind         string      `json:"kind"`
	DataMin      *float64    `json:"data_min"`
	DataMax      *float64    `json:"data_max"`
	FeatureRange *[2]float64 `json:"feature_range"`
	Mean         *float64    `json:"mean"`
	Scale        *float64    `json:"scale"`
}

// DecodeScaler parses a scaler artifact.
func DecodeScaler(data []byte) (Scaler, error) {
	var f scalerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}

	switch f.Kind {
	case "minmax":
		if f.DataMin == nil || f.DataMax == nil {
			return nil, errors.New("minmax scaler needs data_min and data_max")
		}
		s := &MinMaxScaler{DataMin: *f.DataMin, DataMax: *f.DataMax, FeatureRange: [2]float64{0, 1}}
		if f.FeatureRange != nil {
			s.FeatureRange = *f.FeatureRange
		}
		if s.FeatureRange[1] <= s.FeatureRange[0] {
			return nil, fmt.Errorf("invalid feature_range %v", s.FeatureRange)
		}
		if !finite(s.DataMin, s.DataMax, s.FeatureRange[0], s.FeatureRange[1]) {
			return nil, errors.New("minmax scaler parameters must be finite")
		}
		return s, nil
	case "standard":
		if f.Mean == nil || f.Scale == nil {
			return nil, errors.New("standard scaler needs mean and scale")
		}
		if !finite(*f.Mean, *f.Scale) || *f.Scale < 0 {
			return nil, errors.New("standard scaler parameters must be finite with scale >= 0")
		}
		return &StandardScaler{Mean: *f.Mean, Scale: *f.Scale}, nil
	case "":
		return nil, errors.New("scaler kind is missing")
	default:
		return nil, fmt.Errorf("unknown scaler kind %q", f.Kind)
	}
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
