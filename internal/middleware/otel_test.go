package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haulpulse/internal/infrastructure"
	"haulpulse/internal/shared/testutil"
)

func newTestOTel(t *testing.T) (*infrastructure.OTelProviders, *infrastructure.BusinessMetrics) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	cfg := infrastructure.DefaultOTelConfig()
	cfg.TraceExporter = "none"

	providers, err := infrastructure.InitializeOTel(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(ctx)
	})

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	return providers, metrics
}

func TestNewOTelMiddleware_RequiresProviders(t *testing.T) {
	_, err := NewOTelMiddleware(nil, nil)
	assert.Error(t, err)

	providers, _ := newTestOTel(t)
	_, err = NewOTelMiddleware(providers, nil)
	assert.Error(t, err)
}

func TestOTelMiddleware_RecordsRouteMetrics(t *testing.T) {
	providers, metrics := newTestOTel(t)
	mw, err := NewOTelMiddleware(providers, metrics)
	require.NoError(t, err)

	var traceID string
	r := chi.NewRouter()
	r.Use(mw.Handler)
	r.Get("/api/ranking", func(w http.ResponseWriter, r *http.Request) {
		traceID = infrastructure.GetTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ranking?year=2024&month=3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, traceID, 32)

	scrape := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/api/ranking"`)
}

func TestBusinessMetricsMiddleware(t *testing.T) {
	_, metrics := newTestOTel(t)

	var got *infrastructure.BusinessMetrics
	h := BusinessMetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetBusinessMetricsFromContext(r.Context())
		RecordSystemError(r.Context(), "export", "exporter")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Same(t, metrics, got)
	assert.Nil(t, GetBusinessMetricsFromContext(context.Background()))
}
