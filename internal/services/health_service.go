package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"co2dash/internal/dataset"
	"co2dash/internal/forecast"
	"co2dash/internal/infrastructure"
	"co2dash/pkg/contracts"
)

// Health status values
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
	StatusDegraded = "degraded"
)

// DataState reports whether the datasets are in memory.
// *dataset.Store satisfies it.
type DataState interface {
	TableSource
	Loaded() bool
}

// ArtifactStatuser reports forecast artifact health
type ArtifactStatuser interface {
	Status() map[forecast.Artifact]string
}

// HubStatter reports websocket hub counters. *websocket.Hub satisfies it.
type HubStatter interface {
	Stats() map[string]interface{}
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth     `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	data      DataState
	artifacts ArtifactStatuser
	hub       HubStatter
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service. artifacts and hub may be nil.
func NewHealthService(version string, data DataState, artifacts ArtifactStatuser, hub HubStatter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &HealthService{
		version:   version,
		data:      data,
		artifacts: artifacts,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.Duration("uptime", time.Since(hs.startTime)))
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready only once the datasets are loaded. An
// unusable forecast model degrades the forecast page but not readiness.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"data":     hs.checkData(ctx),
			"forecast": hs.checkForecast(),
		},
	}
	if hs.hub != nil {
		status.Services["websocket"] = ServiceHealth{Status: StatusReady, Details: hs.hub.Stats()}
	}

	if status.Services["data"].Status != StatusReady {
		status.Status = StatusNotReady
	}
	return status
}

func (hs *HealthService) checkData(ctx context.Context) ServiceHealth {
	if hs.data == nil || !hs.data.Loaded() {
		return ServiceHealth{Status: StatusNotReady, Message: "datasets not loaded"}
	}
	t, err := hs.data.Tables(ctx)
	if err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
	}

	counts := make(map[string]int, len(dataset.Names()))
	for name, n := range t.RowCounts() {
		counts[string(name)] = n
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("loaded at %s", t.LoadedAt.UTC().Format(time.RFC3339)),
		Details: counts,
	}
}

func (hs *HealthService) checkForecast() ServiceHealth {
	if hs.artifacts == nil {
		return ServiceHealth{Status: StatusDegraded, Message: "forecast disabled"}
	}
	details := make(map[string]string, 2)
	status := StatusReady
	for artifact, s := range hs.artifacts.Status() {
		details[string(artifact)] = s
		if s != "ok" {
			status = StatusDegraded
		}
	}
	h := ServiceHealth{Status: status, Details: details}
	if status != StatusReady {
		h.Message = forecast.UnavailableMessage
	}
	return h
}

// LivenessCheck returns liveness status with runtime statistics
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   infrastructure.CollectRuntimeStats(hs.startTime),
	}
}

// Version returns build information with uptime
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"data_format":  info.DataFormat,
		"api_version":  info.APIVersion,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}
