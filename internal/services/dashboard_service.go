package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"haulpulse/internal/dataset"
	"haulpulse/internal/haulage"
	"haulpulse/internal/infrastructure"
)

// Views reported in spans and pipeline metrics.
const (
	ViewDashboard = "dashboard"
	ViewPeriods   = "periods"
	ViewSummary   = "summary"
	ViewRanking   = "ranking"
	ViewMetrics   = "metrics"
	ViewLoaders   = "loaders"
	ViewExport    = "export"
)

// DashboardService answers dashboard queries from an immutable dataset.
// Every call recomputes from the records; nothing is cached, so it is safe
// for concurrent use.
type DashboardService struct {
	dataset *dataset.Dataset
	calc    *haulage.Calculator
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewDashboardService wires the service. metrics may be nil; a nil dataset
// makes every query fail with ErrDatasetNotLoaded.
func NewDashboardService(ds *dataset.Dataset, calc *haulage.Calculator, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) (*DashboardService, error) {
	if calc == nil {
		return nil, fmt.Errorf("dashboard service: calculator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "dashboard_service")

	if ds != nil {
		info := ds.Info()
		logger.Info("DashboardService initialized",
			slog.String("dataset_id", info.ID),
			slog.String("source", info.Source),
			slog.Int("records", info.Records),
			slog.String("first_day", info.FirstDay),
			slog.String("last_day", info.LastDay))
		infrastructure.RecordDatasetLoaded(context.Background(), metrics, info.Source, info.Records)
	} else {
		logger.Warn("DashboardService initialized without dataset")
	}

	return &DashboardService{
		dataset: ds,
		calc:    calc,
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.ServiceName),
		logger:  logger,
	}, nil
}

// DatasetInfo describes the backing dataset. ok is false when none is loaded.
func (s *DashboardService) DatasetInfo() (info dataset.Info, ok bool) {
	if s.dataset == nil {
		return dataset.Info{}, false
	}
	return s.dataset.Info(), true
}

// LoaderLabels returns the loader labels broken out in the summary.
func (s *DashboardService) LoaderLabels() []string {
	return s.calc.Options().LoaderLabels
}

// Periods lists the selectable years and months and the default period.
func (s *DashboardService) Periods(ctx context.Context) (PeriodOptions, error) {
	var out PeriodOptions
	err := s.observe(ctx, ViewPeriods, nil, func(ctx context.Context, records []haulage.RawRecord, _ *haulage.Period) (bool, error) {
		out = PeriodOptions{
			Years:        haulage.AvailableYears(records),
			Months:       haulage.AvailableMonths(records),
			MonthsByYear: make(map[int][]int),
		}
		for _, y := range out.Years {
			out.MonthsByYear[y] = haulage.MonthsForYear(records, y)
		}
		if def, ok := haulage.DefaultPeriod(records); ok {
			out.Default = &def
		}
		return len(records) > 0, nil
	})
	return out, err
}

// Dashboard runs the full pipeline for p, or for the default period when p
// is nil.
func (s *DashboardService) Dashboard(ctx context.Context, p *haulage.Period) (DashboardView, error) {
	var view DashboardView
	err := s.observe(ctx, ViewDashboard, p, func(ctx context.Context, records []haulage.RawRecord, period *haulage.Period) (bool, error) {
		d, err := s.calc.Dashboard(ctx, records, *period)
		if err != nil {
			return false, err
		}
		view = DashboardView{
			Dashboard: d,
			Donut:     NewDonut(d.Metrics),
			Heatmap:   NewHeatmap(d.Summary),
			Dataset:   s.dataset.Info(),
		}
		return d.Metrics.HasData, nil
	})
	return view, err
}

// Summary returns the daily truck summary of a period.
func (s *DashboardService) Summary(ctx context.Context, p *haulage.Period) (SummaryView, error) {
	var view SummaryView
	err := s.observe(ctx, ViewSummary, p, func(ctx context.Context, records []haulage.RawRecord, period *haulage.Period) (bool, error) {
		view = SummaryView{Period: *period, Rows: s.filtered(records, *period)}
		return len(view.Rows) > 0, nil
	})
	return view, err
}

// Ranking returns the truck ranking of a period, lowest tonnage first.
func (s *DashboardService) Ranking(ctx context.Context, p *haulage.Period) (RankingView, error) {
	var view RankingView
	err := s.observe(ctx, ViewRanking, p, func(ctx context.Context, records []haulage.RawRecord, period *haulage.Period) (bool, error) {
		view = RankingView{Period: *period, Rows: haulage.RankTrucks(s.filtered(records, *period))}
		return len(view.Rows) > 0, nil
	})
	return view, err
}

// Metrics returns the indicators and the efficiency donut of a period.
func (s *DashboardService) Metrics(ctx context.Context, p *haulage.Period) (MetricsView, error) {
	var view MetricsView
	err := s.observe(ctx, ViewMetrics, p, func(ctx context.Context, records []haulage.RawRecord, period *haulage.Period) (bool, error) {
		m := s.calc.Metrics(s.filtered(records, *period))
		view = MetricsView{Period: *period, Metrics: m, Donut: NewDonut(m)}
		return m.HasData, nil
	})
	return view, err
}

// Loaders returns loading-station efficiency over the whole dataset.
func (s *DashboardService) Loaders(ctx context.Context) ([]haulage.LoaderEfficiencyRow, error) {
	var rows []haulage.LoaderEfficiencyRow
	err := s.observe(ctx, ViewLoaders, nil, func(ctx context.Context, records []haulage.RawRecord, _ *haulage.Period) (bool, error) {
		rows = haulage.LoaderEfficiency(records)
		return len(rows) > 0, nil
	})
	return rows, err
}

func (s *DashboardService) filtered(records []haulage.RawRecord, period haulage.Period) []haulage.DailyTruckSummary {
	return haulage.FilterByPeriod(s.calc.Summaries(records), period)
}

// computeFunc receives the resolved period, or nil for views that ignore
// periods. It reports whether the result holds data.
type computeFunc func(ctx context.Context, records []haulage.RawRecord, period *haulage.Period) (bool, error)

// observe resolves the period, runs compute inside a span and records the
// pipeline metrics. When p is nil for a period view the default period is
// used; periodless views pass nil through.
func (s *DashboardService) observe(ctx context.Context, view string, p *haulage.Period, compute computeFunc) (err error) {
	ctx, span := s.tracer.Start(ctx, "dashboard."+view, trace.WithAttributes(attribute.String("haul.view", view)))
	defer span.End()

	start := time.Now()
	var (
		label   string
		hasData bool
	)
	defer func() {
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		infrastructure.RecordPipelineMetrics(ctx, s.metrics, view, label, time.Since(start), hasData, err)
	}()

	if s.dataset == nil {
		return ErrDatasetNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	records := s.dataset.Records()

	var period *haulage.Period
	if periodView(view) {
		resolved, err := s.resolve(records, p)
		if err != nil {
			return err
		}
		period = &resolved
		label = resolved.String()
		span.SetAttributes(attribute.String("haul.period", label))
	}

	hasData, err = compute(ctx, records, period)
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "view computed",
		slog.String("view", view),
		slog.String("period", label),
		slog.Bool("has_data", hasData),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (s *DashboardService) resolve(records []haulage.RawRecord, p *haulage.Period) (haulage.Period, error) {
	period, err := s.calc.ResolvePeriod(records, p)
	switch {
	case errors.Is(err, haulage.ErrNoRecords):
		return haulage.Period{}, fmt.Errorf("%w: %v", ErrDatasetNotLoaded, err)
	case err != nil:
		return haulage.Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}
	return period, nil
}

func periodView(view string) bool {
	switch view {
	case ViewDashboard, ViewSummary, ViewRanking, ViewMetrics, ViewExport:
		return true
	}
	return false
}
