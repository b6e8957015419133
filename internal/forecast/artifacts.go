package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"co2dash/internal/infrastructure"
)

// ArtifactLoader reads the scaler and model files on first use and keeps
// them once both load. Failures are retried on the next call so that
// artifacts saved after startup are picked up.
type ArtifactLoader struct {
	scalerPath string
	modelPath  string
	window     int
	logger     *slog.Logger
	metrics    *infrastructure.BusinessMetrics

	mu        sync.Mutex
	scaler    Scaler
	predictor Predictor
}

// NewArtifactLoader creates a loader for the two artifact files. window
// is the input length the extender will feed the model.
func NewArtifactLoader(scalerPath, modelPath string, window int, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *ArtifactLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArtifactLoader{
		scalerPath: scalerPath,
		modelPath:  modelPath,
		window:     window,
		logger:     logger.With(slog.String("component", "forecast_artifacts")),
		metrics:    metrics,
	}
}

// Load returns the scaler and predictor.
func (l *ArtifactLoader) Load(ctx context.Context) (Scaler, Predictor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.scaler != nil && l.predictor != nil {
		return l.scaler, l.predictor, nil
	}

	scaler, err := l.loadScaler()
	if err != nil {
		l.fail(ctx, err)
		return nil, nil, err
	}
	predictor, err := l.loadPredictor()
	if err != nil {
		l.fail(ctx, err)
		return nil, nil, err
	}

	l.scaler, l.predictor = scaler, predictor
	l.logger.InfoContext(ctx, "forecast artifacts loaded",
		slog.String("scaler_path", l.scalerPath),
		slog.String("model_path", l.modelPath))
	return scaler, predictor, nil
}

// Status reports whether each artifact is readable and valid, without
// caching the result.
func (l *ArtifactLoader) Status() map[Artifact]string {
	status := map[Artifact]string{ArtifactScaler: "ok", ArtifactModel: "ok"}
	if _, err := l.loadScaler(); err != nil {
		status[ArtifactScaler] = err.Error()
	}
	if _, err := l.loadPredictor(); err != nil {
		status[ArtifactModel] = err.Error()
	}
	return status
}

func (l *ArtifactLoader) loadScaler() (Scaler, error) {
	data, err := os.ReadFile(l.scalerPath)
	if err != nil {
		return nil, &UnavailableError{Artifact: ArtifactScaler, Path: l.scalerPath, Err: err}
	}
	s, err := DecodeScaler(data)
	if err != nil {
		return nil, &UnavailableError{Artifact: ArtifactScaler, Path: l.scalerPath, Err: err}
	}
	return s, nil
}

func (l *ArtifactLoader) loadPredictor() (Predictor, error) {
	data, err := os.ReadFile(l.modelPath)
	if err != nil {
		return nil, &UnavailableError{Artifact: ArtifactModel, Path: l.modelPath, Err: err}
	}
	p, err := DecodePredictor(data)
	if err != nil {
		return nil, &UnavailableError{Artifact: ArtifactModel, Path: l.modelPath, Err: err}
	}
	if w, ok := p.(windowed); ok && l.window > 0 && w.WindowSize() != l.window {
		return nil, &UnavailableError{
			Artifact: ArtifactModel,
			Path:     l.modelPath,
			Err:      fmt.Errorf("model window %d does not match configured window %d", w.WindowSize(), l.window),
		}
	}
	return p, nil
}

func (l *ArtifactLoader) fail(ctx context.Context, err error) {
	artifact := "unknown"
	if ue, ok := err.(*UnavailableError); ok {
		artifact = string(ue.Artifact)
	}
	infrastructure.RecordArtifactFailure(ctx, l.metrics, artifact)
	l.logger.WarnContext(ctx, "forecast artifact unavailable",
		slog.String("artifact", artifact),
		slog.String("error", err.Error()))
}
