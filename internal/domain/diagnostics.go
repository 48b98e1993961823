// Package domain defines the payloads served by the diagnostics endpoints.
// They are plain JSON DTOs shared by the service and handler layers.
package domain

import (
	"time"

	"github.com/tbourn/go-api-starter/internal/sysutil"
)

// Liveness states reported by the diagnostics endpoints.
const (
	StatusOK      = "ok"
	StatusRunning = "running"
)

// Ping is returned by GET /server/ping.
type Ping struct {
	Message   string    `json:"message" example:"pong"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-01T00:00:00Z"`
}

// Health is returned by GET /server/health.
//
// Fields:
//   - Status: always "ok" when the process can answer.
//   - Uptime: seconds since the server started.
//   - Memory: process memory in bytes.
//   - CPUCount / Platform: host facts.
//   - LoadAverage: 1, 5 and 15 minute load; zeros where unsupported.
type Health struct {
	Status      string              `json:"status" example:"ok"`
	Uptime      float64             `json:"uptime" example:"12.5"`
	Memory      sysutil.MemoryStats `json:"memory"`
	CPUCount    int                 `json:"cpuCount" example:"8"`
	Platform    string              `json:"platform" example:"linux"`
	LoadAverage [3]float64          `json:"loadAverage"`
	Timestamp   time.Time           `json:"timestamp" example:"2025-01-01T00:00:00Z"`
}

// Status is returned by GET /server/status.
type Status struct {
	Status    string    `json:"status" example:"running"`
	Uptime    float64   `json:"uptime" example:"12.5"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-01T00:00:00Z"`
}
