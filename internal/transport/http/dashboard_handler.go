package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "haulpulse/internal/errors"
	"haulpulse/internal/haulage"
	hmiddleware "haulpulse/internal/middleware"
	"haulpulse/internal/services"
)

// DashboardHandler handles the dashboard JSON API with RFC 7807 errors
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *hmiddleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    hmiddleware.NewQueryValidator(logger),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes as a standalone router
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the dashboard routes to r
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/periods", h.GetPeriods)
	r.Get("/summary", h.GetSummary)
	r.Get("/ranking", h.GetRanking)
	r.Get("/metrics", h.GetMetrics)
	r.Get("/loaders", h.GetLoaders)
	r.Get("/export", h.Export)
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	view, err := h.service.Dashboard(r.Context(), period)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetPeriods handles GET /api/periods
func (h *DashboardHandler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Periods(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// GetSummary handles GET /api/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	view, err := h.service.Summary(r.Context(), period)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetRanking handles GET /api/ranking
func (h *DashboardHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	view, err := h.service.Ranking(r.Context(), period)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetMetrics handles GET /api/metrics
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	view, err := h.service.Metrics(r.Context(), period)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetLoaders handles GET /api/loaders. Loader efficiency always covers the
// whole dataset, so year and month are ignored.
func (h *DashboardHandler) GetLoaders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Loaders(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"rows":  rows,
		"count": len(rows),
	})
}

// Export handles GET /api/export and serves the report as an attachment
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	format, err := h.validator.ParseEnum(r, hmiddleware.ParamFormat, services.ExportFormats, services.FormatCSV, apierrors.ErrUnsupportedFormat)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	table, err := h.validator.ParseEnum(r, hmiddleware.ParamTable, services.ExportTables, "summary", apierrors.ErrUnknownTable)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Export(r.Context(), period, format, table)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "serving export",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file", result.Filename),
		slog.Int("bytes", len(result.Data)))

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.logger.WarnContext(r.Context(), "export write failed", slog.String("error", err.Error()))
	}
}

// period parses year/month and writes the problem response on failure.
func (h *DashboardHandler) period(w http.ResponseWriter, r *http.Request) (*haulage.Period, bool) {
	p, err := h.validator.ParsePeriod(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return p, true
}
