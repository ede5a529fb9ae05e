package http

import (
	"context"

	"haulpulse/internal/haulage"
	"haulpulse/internal/services"
)

// DashboardServiceInterface defines the dashboard operations served over HTTP
type DashboardServiceInterface interface {
	Periods(ctx context.Context) (services.PeriodOptions, error)
	Dashboard(ctx context.Context, p *haulage.Period) (services.DashboardView, error)
	Summary(ctx context.Context, p *haulage.Period) (services.SummaryView, error)
	Ranking(ctx context.Context, p *haulage.Period) (services.RankingView, error)
	Metrics(ctx context.Context, p *haulage.Period) (services.MetricsView, error)
	Loaders(ctx context.Context) ([]haulage.LoaderEfficiencyRow, error)
	Export(ctx context.Context, p *haulage.Period, format, table string) (*services.ExportResult, error)
}
