package http

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	apierrors "haulpulse/internal/errors"
	"haulpulse/internal/haulage"
	hmiddleware "haulpulse/internal/middleware"
	"haulpulse/internal/services"
)

// PageTitle is the dashboard page title.
const PageTitle = "Dashboard de Rendimiento de Camiones"

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

var funcMap = template.FuncMap{
	"fmtSpeed":   func(v float64) string { return fmt.Sprintf("%.1f km/h", v) },
	"fmtKm":      func(v float64) string { return fmt.Sprintf("%.0f km", v) },
	"fmtSeconds": func(v float64) string { return fmt.Sprintf("%.1f seg", v) },
	"fmtTon":     func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"fmtPct": func(v *float64) string {
		if v == nil {
			return "—"
		}
		return fmt.Sprintf("%.2f%%", *v)
	},
	"monthName": monthName,
	// donutStyle paints the filled arc clockwise from the top.
	"donutStyle": func(d services.Donut) template.CSS {
		arc := donutArc(d)
		return template.CSS(fmt.Sprintf("background:conic-gradient(%s 0 %.2f%%, %s %.2f%% 100%%)",
			d.Palette.Primary, arc, d.Palette.Background, arc))
	},
	"heatStyle": func(color string) template.CSS {
		return template.CSS("background:" + color)
	},
}

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(funcMap).Parse(tmplDashboard))

type heatCell struct {
	Value   float64
	Color   string
	Present bool
}

type heatRow struct {
	Truck string
	Cells []heatCell
}

type heatGrid struct {
	Dates  []string
	Trucks []string
	Rows   []heatRow
}

// newHeatGrid pivots the heatmap into one row per truck.
func newHeatGrid(h services.Heatmap) heatGrid {
	col := make(map[string]int, len(h.Dates))
	for i, d := range h.Dates {
		col[d] = i
	}
	row := make(map[string]int, len(h.Trucks))
	g := heatGrid{Dates: h.Dates, Trucks: h.Trucks, Rows: make([]heatRow, len(h.Trucks))}
	for i, t := range h.Trucks {
		row[t] = i
		g.Rows[i] = heatRow{Truck: t, Cells: make([]heatCell, len(h.Dates))}
	}
	for _, c := range h.Cells {
		g.Rows[row[c.Truck]].Cells[col[c.Date]] = heatCell{
			Value:   c.Value,
			Color:   viridisColor(c.Value, h.Min, h.Max),
			Present: true,
		}
	}
	return g
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return strconv.Itoa(m)
	}
	return monthNames[m-1]
}

type selectOption struct {
	Value    int
	Label    string
	Selected bool
}

// selectOptions lists the available values, most recent first, and marks
// current as selected. A current value without data is still listed so the
// selector matches the period on screen.
func selectOptions(available []int, current int, label func(int) string) []selectOption {
	out := make([]selectOption, 0, len(available)+1)
	found := false
	for _, v := range available {
		if !found && v < current {
			out = append(out, selectOption{Value: current, Label: label(current) + " (sin datos)", Selected: true})
			found = true
		}
		if v == current {
			found = true
		}
		out = append(out, selectOption{Value: v, Label: label(v), Selected: v == current})
	}
	if !found {
		out = append(out, selectOption{Value: current, Label: label(current) + " (sin datos)", Selected: true})
	}
	return out
}

type dashboardPage struct {
	Title     string
	View      services.DashboardView
	Years     []selectOption
	Months    []selectOption
	Heat      heatGrid
	ChartsURL string
	ExportURL string
}

// HTMLHandler serves the server-rendered dashboard and chart pages
type HTMLHandler struct {
	service      DashboardServiceInterface
	validator    *hmiddleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHTMLHandler creates a new HTML handler
func NewHTMLHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *HTMLHandler {
	return &HTMLHandler{
		service:      service,
		validator:    hmiddleware.NewQueryValidator(logger),
		logger:       logger.With(slog.String("component", "html_handler")),
		errorHandler: errorHandler,
	}
}

// ServeDashboard handles GET /
func (h *HTMLHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	view, ok := h.load(w, r)
	if !ok {
		return
	}
	periods, err := h.service.Periods(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	query := periodQuery(view.Period)
	page := dashboardPage{
		Title:     PageTitle,
		View:      view,
		Years:     selectOptions(periods.Years, view.Period.Year, strconv.Itoa),
		Months:    selectOptions(periods.MonthsByYear[view.Period.Year], view.Period.Month, monthName),
		Heat:      newHeatGrid(view.Heatmap),
		ChartsURL: "/charts?" + query.Encode(),
	}
	query.Set(hmiddleware.ParamFormat, services.FormatXLSX)
	page.ExportURL = "/api/export?" + query.Encode()

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(r.Context(), "template error", slog.String("error", err.Error()))
		hmiddleware.RecordSystemError(r.Context(), "template", "html_handler")
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

// ServeCharts handles GET /charts
func (h *HTMLHandler) ServeCharts(w http.ResponseWriter, r *http.Request) {
	view, ok := h.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := renderChartsPage(&buf, view); err != nil {
		h.logger.ErrorContext(r.Context(), "chart render error", slog.String("error", err.Error()))
		hmiddleware.RecordSystemError(r.Context(), "chart_render", "html_handler")
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (h *HTMLHandler) load(w http.ResponseWriter, r *http.Request) (services.DashboardView, bool) {
	period, err := h.validator.ParsePeriod(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return services.DashboardView{}, false
	}
	view, err := h.service.Dashboard(r.Context(), period)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return services.DashboardView{}, false
	}
	return view, true
}

func periodQuery(p haulage.Period) url.Values {
	q := url.Values{}
	q.Set(hmiddleware.ParamYear, strconv.Itoa(p.Year))
	q.Set(hmiddleware.ParamMonth, strconv.Itoa(p.Month))
	return q
}

// writeHTML sends a rendered page. Pages are buffered so a template error
// never leaves a half-written body.
func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
