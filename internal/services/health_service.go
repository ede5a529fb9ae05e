package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"haulpulse/internal/config"
	"haulpulse/internal/dataset"
)

// Health states reported by the health endpoints.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// DatasetInfoProvider reports the dataset backing the dashboard.
type DatasetInfoProvider interface {
	DatasetInfo() (dataset.Info, bool)
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	buildID   string
	reports   string
	datasets  DatasetInfoProvider
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Dataset *dataset.Info `json:"dataset,omitempty"`
}

// NewHealthService creates a health service. reportsDir is checked by the
// readiness probe; datasets may be nil.
func NewHealthService(version, buildTime, buildID, reportsDir string, datasets DatasetInfoProvider, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "health_service"))

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("build_id", buildID))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		buildID:   buildID,
		reports:   reportsDir,
		datasets:  datasets,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once a non-empty dataset is loaded and the
// reports directory exists.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"dataset": hs.checkDatasetHealth(),
			"reports": hs.checkReportsHealth(),
		},
	}

	for name, sh := range status.Services {
		if sh.Status != StatusReady {
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("service", name),
				slog.String("message", sh.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"name":         config.AppName,
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}
	return result
}

func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "dataset provider not configured"}
	}
	info, ok := hs.datasets.DatasetInfo()
	if !ok {
		return ServiceHealth{Status: StatusNotReady, Message: ErrDatasetNotLoaded.Error()}
	}
	if info.Records == 0 {
		return ServiceHealth{Status: StatusNotReady, Message: "dataset is empty", Dataset: &info}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d records loaded", info.Records),
		Dataset: &info,
	}
}

func (hs *HealthService) checkReportsHealth() ServiceHealth {
	if hs.reports == "" {
		return ServiceHealth{Status: StatusReady, Message: "report export to disk disabled"}
	}
	fi, err := os.Stat(hs.reports)
	switch {
	case os.IsNotExist(err):
		return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("reports directory not found: %s", hs.reports)}
	case err != nil:
		return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("reports directory: %v", err)}
	case !fi.IsDir():
		return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("reports path is not a directory: %s", hs.reports)}
	}
	return ServiceHealth{Status: StatusReady}
}
