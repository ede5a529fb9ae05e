package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haulpulse/internal/shared/testutil"
)

var (
	errPeriodSentinel  = errors.New("invalid period")
	errDatasetSentinel = errors.New("dataset not loaded")
	errExportSentinel  = errors.New("export failed")
)

func newTestHandler(t *testing.T, includeStack bool) (*ErrorHandler, *testutil.BufferedSlogHandler) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, includeStack).
		Register(errPeriodSentinel, ErrInvalidPeriod).
		Register(errDatasetSentinel, ErrDatasetNotLoaded).
		Register(errExportSentinel, ErrExportFailed)
	return h, logs
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
		wantDetail string
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "wrapped context cancellation",
			err:        fmt.Errorf("compute dashboard: %w", context.Canceled),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        ErrUnsupportedFormat,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUnsupportedFormat,
			wantCode:   CodeUnsupportedFormat,
		},
		{
			name:       "registered sentinel keeps the wrapped message",
			err:        fmt.Errorf("%w: month 13 out of range", errPeriodSentinel),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidPeriod,
			wantCode:   CodeInvalidPeriod,
			wantDetail: "invalid period: month 13 out of range",
		},
		{
			name:       "registered unavailable sentinel",
			err:        errDatasetSentinel,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetNotLoaded,
			wantCode:   CodeDatasetNotLoaded,
		},
		{
			name:       "registered server error hides the wrapped cause",
			err:        fmt.Errorf("%w: zip: disk full", errExportSentinel),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeExportFailed,
			wantCode:   CodeExportFailed,
			wantDetail: ErrExportFailed.Message,
		},
		{
			name:       "unknown error hides its message",
			err:        errors.New("disk exploded"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantCode:   CodeInternal,
			wantDetail: ErrInternalServer.Message,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, false)
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/dashboard?year=2024&month=13", nil)

			h.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			got := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, got["type"])
			assert.Equal(t, "/api/dashboard", got["instance"])
			assert.Contains(t, got, "trace_id")
			assert.NotContains(t, got, "stack")
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, got["error_code"])
			}
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, got["detail"])
			}
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	h, logs := newTestHandler(t, false)
	w := httptest.NewRecorder()

	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
	assert.Equal(t, 0, logs.Count())
}

func TestErrorHandler_LogLevel(t *testing.T) {
	h, logs := newTestHandler(t, false)

	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/summary", nil), ErrInvalidPeriod)
	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/summary", nil), errors.New("boom"))

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
	testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
	testutil.AssertLogAttr(t, logs, "status", int64(http.StatusBadRequest))
}

func TestErrorHandler_StackOnlyForServerErrors(t *testing.T) {
	h, _ := newTestHandler(t, true)

	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))
	assert.Contains(t, decodeProblem(t, w), "stack")

	w = httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), ErrInvalidPeriod)
	assert.NotContains(t, decodeProblem(t, w), "stack")
}

func TestErrorHandler_TraceIDFromRequestID(t *testing.T) {
	h, _ := newTestHandler(t, false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-42"))

	h.HandleError(w, r, ErrDatasetNotLoaded)

	assert.Equal(t, "req-42", decodeProblem(t, w)["trace_id"])
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	tests := []struct {
		name         string
		includeStack bool
	}{
		{name: "production hides panic value", includeStack: false},
		{name: "development exposes panic value", includeStack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, logs := newTestHandler(t, tt.includeStack)
			w := httptest.NewRecorder()

			h.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/api/ranking", nil), "nil map")

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			got := decodeProblem(t, w)
			if tt.includeStack {
				assert.Equal(t, "nil map", got["panic"])
			} else {
				assert.NotContains(t, got, "panic")
			}
			testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
		})
	}
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, false)

	w := httptest.NewRecorder()
	h.NotFound(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	notFound := decodeProblem(t, w)
	assert.Equal(t, TypeNotFound, notFound["type"])
	assert.Equal(t, "Not Found", notFound["title"])
	assert.Equal(t, CodeNotFound, notFound["error_code"])
	assert.Equal(t, ErrNotFound.Message, notFound["detail"])

	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/dashboard", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decodeProblem(t, w)["detail"], "DELETE")
}
