package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"lmedesk/internal/holidays"
)

// HealthService reports process liveness and how much holiday data is loaded.
type HealthService struct {
	version   string
	set       *holidays.Set
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	GoVersion     string    `json:"go_version"`
	HolidayYears  []int     `json:"holiday_years"`
	HolidayCount  int       `json:"holiday_count"`
}

// NewHealthService creates the health service.
func NewHealthService(version string, set *holidays.Set, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		set:       set,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Status returns the current health snapshot. The service is healthy even
// with an empty holiday set: the engine favors availability and computes
// against whatever is loaded.
func (s *HealthService) Status(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		Version:       s.version,
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		HolidayYears:  s.set.Years(),
		HolidayCount:  s.set.Len(),
	}
}
