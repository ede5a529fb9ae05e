package http

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"haulpulse/internal/services"
	"haulpulse/internal/shared/testutil"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	ready := services.NewHealthService("v1.0.0-test", "", "", t.TempDir(), newDashboardService(t), logger)
	notReady := services.NewHealthService("v1.0.0-test", "", "", filepath.Join(t.TempDir(), "missing"), nil, logger)

	routes := func(hs *services.HealthService) http.Handler {
		h := NewHealthHandler(hs, logger)
		r := chi.NewRouter()
		r.Get("/api/health", h.HealthCheck)
		r.Get("/api/health/ready", h.ReadinessCheck)
		r.Get("/api/health/live", h.LivenessCheck)
		r.Get("/api/version", h.Version)
		return r
	}

	tests := []struct {
		name       string
		service    *services.HealthService
		endpoint   string
		wantStatus int
		wantField  string
		wantValue  interface{}
	}{
		{name: "health", service: ready, endpoint: "/api/health", wantStatus: http.StatusOK, wantField: "status", wantValue: services.StatusOK},
		{name: "ready", service: ready, endpoint: "/api/health/ready", wantStatus: http.StatusOK, wantField: "status", wantValue: services.StatusReady},
		{name: "not ready", service: notReady, endpoint: "/api/health/ready", wantStatus: http.StatusServiceUnavailable, wantField: "status", wantValue: services.StatusNotReady},
		{name: "live", service: notReady, endpoint: "/api/health/live", wantStatus: http.StatusOK, wantField: "status", wantValue: services.StatusAlive},
		{name: "version", service: ready, endpoint: "/api/version", wantStatus: http.StatusOK, wantField: "version", wantValue: "v1.0.0-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, routes(tt.service), tt.endpoint)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantValue, decodeBody(t, rec)[tt.wantField])
		})
	}
}
