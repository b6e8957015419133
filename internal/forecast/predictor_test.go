package forecast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearPredictor(t *testing.T) {
	p := &LinearPredictor{Window: 3, Weights: []float64{0.2, 0.3, 0.5}, Bias: 0.1}

	got, err := p.PredictNext(context.Background(), []float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.1+0.2+0.6+1.5, got, 1e-12)

	_, err = p.PredictNext(context.Background(), []float64{1, 2})
	require.Error(t, err)
}

func TestPredictors_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&LinearPredictor{Window: 1, Weights: []float64{1}}).PredictNext(ctx, []float64{1})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = (&MeanPredictor{Window: 1}).PredictNext(ctx, []float64{1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeanPredictor(t *testing.T) {
	got, err := (&MeanPredictor{Window: 4}).PredictNext(context.Background(), []float64{1, 2, 3, 6})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = (&MeanPredictor{}).PredictNext(context.Background(), nil)
	require.Error(t, err)
}

func TestDecodePredictor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Predictor
		wantErr string
	}{
		{
			name:  "linear",
			input: `{"kind":"linear","window":2,"weights":[0.4,0.6],"bias":0.01}`,
			want:  &LinearPredictor{Window: 2, Weights: []float64{0.4, 0.6}, Bias: 0.01},
		},
		{
			name:  "mean",
			input: `{"kind":"mean","window":5}`,
			want:  &MeanPredictor{Window: 5},
		},
		{name: "weights mismatch", input: `{"kind":"linear","window":3,"weights":[1]}`, wantErr: "1 weights for window 3"},
		{name: "zero window", input: `{"kind":"mean","window":0}`, wantErr: "invalid model window"},
		{name: "unknown kind", input: `{"kind":"lstm","window":5}`, wantErr: "unknown model kind"},
		{name: "missing kind", input: `{"window":5}`, wantErr: "kind is missing"},
		{name: "truncated", input: `{"kind":"linear",`, wantErr: "decode model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePredictor([]byte(tt.input))
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
