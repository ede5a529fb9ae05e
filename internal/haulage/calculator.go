package haulage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNoRecords is returned when the pipeline is asked to pick a default
// period from an empty dataset.
var ErrNoRecords = errors.New("no haulage records")

// Calculator runs the haulage pipeline with a fixed set of options.
type Calculator struct {
	opts   Options
	logger *slog.Logger
}

// NewCalculator creates a calculator. A nil logger falls back to
// slog.Default().
func NewCalculator(opts Options, logger *slog.Logger) (*Calculator, error) {
	if opts.BaselineCapacity <= 0 {
		return nil, fmt.Errorf("baseline capacity must be positive, got %v", opts.BaselineCapacity)
	}
	if opts.Thresholds.Warning >= opts.Thresholds.Critical {
		return nil, fmt.Errorf("warning threshold %v must be below critical threshold %v",
			opts.Thresholds.Warning, opts.Thresholds.Critical)
	}
	if logger == nil {
		logger = slog.Default()
	}
	labels := append([]string(nil), opts.LoaderLabels...)
	opts.LoaderLabels = labels
	return &Calculator{
		opts:   opts,
		logger: logger.With(slog.String("component", "haulage_calculator")),
	}, nil
}

// Options returns the calculator's options.
func (c *Calculator) Options() Options {
	opts := c.opts
	opts.LoaderLabels = append([]string(nil), c.opts.LoaderLabels...)
	return opts
}

// Summaries aggregates records into daily truck summaries.
func (c *Calculator) Summaries(records []RawRecord) []DailyTruckSummary {
	return Aggregate(records, c.opts.LoaderLabels)
}

// Metrics computes the indicators of an already filtered summary.
func (c *Calculator) Metrics(filtered []DailyTruckSummary) Metrics {
	return ComputeMetrics(filtered, c.opts)
}

// ResolvePeriod returns p when set, otherwise the month of the latest
// record.
func (c *Calculator) ResolvePeriod(records []RawRecord, p *Period) (Period, error) {
	if p != nil {
		if err := p.Validate(); err != nil {
			return Period{}, err
		}
		return *p, nil
	}
	def, ok := DefaultPeriod(records)
	if !ok {
		return Period{}, ErrNoRecords
	}
	return def, nil
}

// Dashboard runs the full pipeline for period. The loader table is computed
// from all records regardless of period.
func (c *Calculator) Dashboard(ctx context.Context, records []RawRecord, period Period) (Dashboard, error) {
	if err := period.Validate(); err != nil {
		return Dashboard{}, fmt.Errorf("validate period: %w", err)
	}

	start := time.Now()
	c.logger.DebugContext(ctx, "computing dashboard",
		slog.String("period", period.String()),
		slog.Int("records", len(records)))

	summary := FilterByPeriod(c.Summaries(records), period)
	d := Dashboard{
		Period:  period,
		Summary: summary,
		Metrics: c.Metrics(summary),
		Ranking: RankTrucks(summary),
		Loaders: LoaderEfficiency(records),
	}

	if !d.Metrics.HasData {
		c.logger.InfoContext(ctx, "no data for period", slog.String("period", period.String()))
	}

	c.logger.DebugContext(ctx, "dashboard computed",
		slog.String("period", period.String()),
		slog.Int("summary_rows", len(d.Summary)),
		slog.Int("trucks", len(d.Ranking)),
		slog.Int("loaders", len(d.Loaders)),
		slog.String("efficiency_level", string(d.Metrics.EfficiencyLevel)),
		slog.Duration("duration", time.Since(start)))

	return d, nil
}
