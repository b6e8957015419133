package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalers_RoundTrip(t *testing.T) {
	series := []float64{10, 12, 9, 15, 20, 0, 11397.04, 3.5e4}

	scalers := map[string]Scaler{
		"minmax unit range":   &MinMaxScaler{DataMin: 0, DataMax: 35000, FeatureRange: [2]float64{0, 1}},
		"minmax custom range": &MinMaxScaler{DataMin: 9, DataMax: 20, FeatureRange: [2]float64{-1, 1}},
		"minmax flat data":    &MinMaxScaler{DataMin: 5, DataMax: 5, FeatureRange: [2]float64{0, 1}},
		"standard":            &StandardScaler{Mean: 13.2, Scale: 4.1},
		"standard zero scale": &StandardScaler{Mean: 7},
	}

	for name, s := range scalers {
		t.Run(name, func(t *testing.T) {
			back := s.InverseTransform(s.Transform(series))
			require.Len(t, back, len(series))
			for i := range series {
				assert.InDelta(t, series[i], back[i], 1e-9*max(1, series[i]))
			}
		})
	}
}

func TestMinMaxScaler_Transform(t *testing.T) {
	s := &MinMaxScaler{DataMin: 10, DataMax: 20, FeatureRange: [2]float64{0, 1}}
	in := []float64{10, 15, 20}

	assert.Equal(t, []float64{0, 0.5, 1}, s.Transform(in))
	assert.Equal(t, []float64{10, 15, 20}, in, "input untouched")
}

func TestStandardScaler_Transform(t *testing.T) {
	s := &StandardScaler{Mean: 10, Scale: 2}
	assert.Equal(t, []float64{-1, 0, 2}, s.Transform([]float64{8, 10, 14}))
}

func TestDecodeScaler(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Scaler
		wantErr string
	}{
		{
			name:  "minmax default range",
			input: `{"kind":"minmax","data_min":1,"data_max":3}`,
			want:  &MinMaxScaler{DataMin: 1, DataMax: 3, FeatureRange: [2]float64{0, 1}},
		},
		{
			name:  "minmax explicit range",
			input: `{"kind":"minmax","data_min":1,"data_max":3,"feature_range":[-1,1]}`,
			want:  &MinMaxScaler{DataMin: 1, DataMax: 3, FeatureRange: [2]float64{-1, 1}},
		},
		{
			name:  "standard",
			input: `{"kind":"standard","mean":4.5,"scale":2}`,
			want:  &StandardScaler{Mean: 4.5, Scale: 2},
		},
		{name: "not json", input: `\x80PK`, wantErr: "decode scaler"},
		{name: "no kind", input: `{"mean":1}`, wantErr: "kind is missing"},
		{name: "unknown kind", input: `{"kind":"robust"}`, wantErr: "unknown scaler kind"},
		{name: "minmax missing max", input: `{"kind":"minmax","data_min":1}`, wantErr: "data_max"},
		{name: "inverted range", input: `{"kind":"minmax","data_min":1,"data_max":2,"feature_range":[1,0]}`, wantErr: "feature_range"},
		{name: "negative scale", input: `{"kind":"standard","mean":1,"scale":-2}`, wantErr: "scale >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeScaler([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
