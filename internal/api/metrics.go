package api

import (
	"net/http"
	"runtime"
	"time"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string           `json:"timestamp"`
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Runtime       RuntimeMetrics   `json:"runtime"`
	MQTT          MQTTMetrics      `json:"mqtt"`
	Store         StoreMetrics     `json:"store"`
	Database      *DatabaseMetrics `json:"database,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// MQTTMetrics contains MQTT client statistics.
type MQTTMetrics struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

// StoreMetrics counts stored records. A count that could not be read is -1.
type StoreMetrics struct {
	Users  int `json:"users"`
	Movies int `json:"movies"`
}

// DatabaseMetrics contains SQLite connection pool statistics.
type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

const bytesPerMB = 1024 * 1024

// handleMetrics returns process, store and connection metrics. It carries
// no per-account data.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / bytesPerMB,
			MemoryTotalMB: float64(memStats.TotalAlloc) / bytesPerMB,
			NumGC:         memStats.NumGC,
		},
		Store: StoreMetrics{Users: -1, Movies: -1},
	}

	if s.mqtt != nil {
		metrics.MQTT = MQTTMetrics{
			Enabled:   true,
			Connected: s.mqtt.IsConnected(),
		}
	}

	ctx := r.Context()
	if n, err := s.users.Count(ctx); err == nil {
		metrics.Store.Users = n
	} else {
		s.logger.Warn("metrics: counting users failed", "error", err)
	}
	if n, err := s.movies.Count(ctx); err == nil {
		metrics.Store.Movies = n
	} else {
		s.logger.Warn("metrics: counting movies failed", "error", err)
	}

	if s.dbStats != nil {
		dbStats := s.dbStats()
		metrics.Database = &DatabaseMetrics{
			OpenConnections: dbStats.OpenConnections,
			InUse:           dbStats.InUse,
			Idle:            dbStats.Idle,
			WaitCount:       dbStats.WaitCount,
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}
