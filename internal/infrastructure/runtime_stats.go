package infrastructure

import (
	"runtime"
	"time"
)

// RuntimeStats is a point-in-time snapshot of the Go runtime, reported by
// the health endpoint. Prometheus gets the same data from the Go and
// process collectors.
type RuntimeStats struct {
	GoVersion     string        `json:"go_version"`
	Goroutines    int           `json:"goroutines"`
	CPUCount      int           `json:"cpu_count"`
	HeapAllocMB   uint64        `json:"heap_alloc_mb"`
	SysMB         uint64        `json:"sys_mb"`
	GCCount       uint32        `json:"gc_count"`
	LastGCPause   time.Duration `json:"last_gc_pause_ns"`
	ProcessUptime time.Duration `json:"uptime_ns"`
	Timestamp     time.Time     `json:"timestamp"`
}

// CollectRuntimeStats reads the current runtime statistics
func CollectRuntimeStats(startTime time.Time) *RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &RuntimeStats{
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		CPUCount:      runtime.NumCPU(),
		HeapAllocMB:   mem.Alloc / 1024 / 1024,
		SysMB:         mem.Sys / 1024 / 1024,
		GCCount:       mem.NumGC,
		LastGCPause:   time.Duration(mem.PauseNs[(mem.NumGC+255)%256]),
		ProcessUptime: time.Since(startTime),
		Timestamp:     time.Now(),
	}
}
