package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"haulpulse/internal/dataset"
	"haulpulse/internal/haulage"
	"haulpulse/internal/infrastructure"
	"haulpulse/internal/shared/testutil"
)

var (
	march    = haulage.Period{Year: 2024, Month: 3}
	february = haulage.Period{Year: 2024, Month: 2}
)

func newTestService(t *testing.T, ds *dataset.Dataset, metrics *infrastructure.BusinessMetrics) *DashboardService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	calc, err := haulage.NewCalculator(haulage.DefaultOptions(), logger)
	require.NoError(t, err)
	svc, err := NewDashboardService(ds, calc, metrics, logger)
	require.NoError(t, err)
	return svc
}

func TestNewDashboardService_RequiresCalculator(t *testing.T) {
	_, err := NewDashboardService(testutil.NewTestDataset(t), nil, nil, nil)
	assert.Error(t, err)
}

func TestDashboardService_Dashboard(t *testing.T) {
	tests := []struct {
		name        string
		period      *haulage.Period
		wantPeriod  haulage.Period
		wantRows    int
		wantHasData bool
		wantLevel   haulage.EfficiencyLevel
	}{
		{
			name:        "nil period resolves to the latest month",
			period:      nil,
			wantPeriod:  march,
			wantRows:    5,
			wantHasData: true,
			wantLevel:   haulage.LevelGood,
		},
		{
			name:        "explicit earlier month",
			period:      &february,
			wantPeriod:  february,
			wantRows:    2,
			wantHasData: true,
			wantLevel:   haulage.LevelGood,
		},
		{
			name:        "valid month without data",
			period:      &haulage.Period{Year: 2023, Month: 1},
			wantPeriod:  haulage.Period{Year: 2023, Month: 1},
			wantRows:    0,
			wantHasData: false,
			wantLevel:   haulage.LevelNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, testutil.NewTestDataset(t), nil)

			view, err := svc.Dashboard(context.Background(), tt.period)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPeriod, view.Period)
			assert.Len(t, view.Summary, tt.wantRows)
			assert.Len(t, view.Heatmap.Cells, tt.wantRows)
			assert.Equal(t, tt.wantHasData, view.Metrics.HasData)
			assert.Equal(t, tt.wantLevel, view.Donut.Level)
			assert.Equal(t, tt.wantLevel.Palette(), view.Donut.Palette)
			// loader efficiency always covers the whole dataset
			assert.Len(t, view.Loaders, 4)
			assert.Equal(t, 8, view.Dataset.Records)
		})
	}
}

func TestDashboardService_DashboardValues(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)

	view, err := svc.Dashboard(context.Background(), &march)
	require.NoError(t, err)

	first := view.Summary[0]
	assert.Equal(t, testutil.TruckA, first.Truck)
	assert.Equal(t, testutil.Day(2024, time.March, 1), first.Date)
	assert.InDelta(t, 455.0, first.TotalTonPerDay, 1e-9)
	assert.Equal(t, 2, first.LoadsPerDay)
	assert.Equal(t, 1, first.CountFor(testutil.LoaderPH06))
	assert.Equal(t, 1, first.CountFor(testutil.LoaderPH55))

	m := view.Metrics
	assert.InDelta(t, 65.0, m.TonPerShovelAvg, 1e-9)
	assert.InDelta(t, 1-120.0/65.0, m.TonPerShovelEfficiency, 1e-9)
	assert.InDelta(t, -84.62, m.EfficiencyPercentage, 1e-9)
	assert.InDelta(t, 24.0, m.SpeedAvg, 1e-9)
	assert.InDelta(t, 150.0, m.LoaderTimeAvg, 1e-9)

	require.NotNil(t, view.Donut.Value)
	assert.InDelta(t, -84.62, *view.Donut.Value, 1e-9)
	assert.InDelta(t, 184.62, *view.Donut.Remaining, 1e-9)
	assert.Equal(t, DonutLabel, view.Donut.Label)

	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, view.Heatmap.Dates)
	assert.Equal(t, []string{testutil.TruckA, testutil.TruckB, testutil.TruckC}, view.Heatmap.Trucks)
	assert.InDelta(t, 180.0, view.Heatmap.Min, 1e-9)
	assert.InDelta(t, 455.0, view.Heatmap.Max, 1e-9)
}

func TestDashboardService_EmptyPeriodJSON(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)

	view, err := svc.Dashboard(context.Background(), &haulage.Period{Year: 2020, Month: 6})
	require.NoError(t, err)

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, []interface{}{}, got["summary"])
	assert.Equal(t, []interface{}{}, got["ranking"])

	metrics := got["metrics"].(map[string]interface{})
	assert.Equal(t, false, metrics["has_data"])
	assert.Nil(t, metrics["speed_avg"])
	assert.Nil(t, metrics["efficiency_percentage"])

	donut := got["donut"].(map[string]interface{})
	assert.Nil(t, donut["value"])
	assert.Equal(t, string(haulage.LevelNone), donut["level"])
}

func TestDashboardService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ds      *dataset.Dataset
		ctx     func() context.Context
		period  *haulage.Period
		wantErr error
	}{
		{
			name:    "month out of range",
			ds:      dataset.New("trips.csv", testutil.SampleRecords()),
			period:  &haulage.Period{Year: 2024, Month: 13},
			wantErr: ErrInvalidPeriod,
		},
		{
			name:    "non positive year",
			ds:      dataset.New("trips.csv", testutil.SampleRecords()),
			period:  &haulage.Period{Year: 0, Month: 1},
			wantErr: ErrInvalidPeriod,
		},
		{
			name:    "no dataset",
			ds:      nil,
			wantErr: ErrDatasetNotLoaded,
		},
		{
			name:    "empty dataset has no default period",
			ds:      dataset.New("empty.csv", nil),
			wantErr: ErrDatasetNotLoaded,
		},
		{
			name: "cancelled context",
			ds:   dataset.New("trips.csv", testutil.SampleRecords()),
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.ds, nil)
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			_, err := svc.Dashboard(ctx, tt.period)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDashboardService_Periods(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)

	got, err := svc.Periods(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{2024}, got.Years)
	assert.Equal(t, []int{3, 2}, got.Months)
	assert.Equal(t, map[int][]int{2024: {3, 2}}, got.MonthsByYear)
	require.NotNil(t, got.Default)
	assert.Equal(t, march, *got.Default)
}

func TestDashboardService_Ranking(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)

	got, err := svc.Ranking(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, march, got.Period)
	require.Len(t, got.Rows, 3)
	trucks := []string{got.Rows[0].Truck, got.Rows[1].Truck, got.Rows[2].Truck}
	assert.Equal(t, []string{testutil.TruckC, testutil.TruckB, testutil.TruckA}, trucks)
	assert.InDelta(t, 185.0, got.Rows[0].AverageDailyTon, 1e-9)
	assert.InDelta(t, 345.0, got.Rows[2].AverageDailyTon, 1e-9)
}

func TestDashboardService_SummaryAndMetricsAgreeWithDashboard(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)
	ctx := context.Background()

	full, err := svc.Dashboard(ctx, &february)
	require.NoError(t, err)
	summary, err := svc.Summary(ctx, &february)
	require.NoError(t, err)
	metrics, err := svc.Metrics(ctx, &february)
	require.NoError(t, err)

	assert.Equal(t, full.Summary, summary.Rows)
	assert.Equal(t, full.Metrics, metrics.Metrics)
	assert.Equal(t, full.Donut, metrics.Donut)
}

func TestDashboardService_Loaders(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)

	rows, err := svc.Loaders(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Loader)
	}
	assert.Equal(t, []string{testutil.LoaderOut, testutil.LoaderPH06, testutil.LoaderPH48, testutil.LoaderPH55}, names)
	assert.Equal(t, 3, rows[1].Cycles)
	assert.InDelta(t, (55+57.5+58.75)/3, rows[1].AvgTonPerShovel, 1e-9)
}

func TestDashboardService_Export(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		table     string
		wantFile  string
		wantType  string
		wantErrIs error
	}{
		{name: "default csv is the summary", format: "", wantFile: "haulage_summary_2024-03.csv", wantType: ContentTypeCSV},
		{name: "csv ranking", format: "CSV", table: "Ranking", wantFile: "haulage_ranking_2024-03.csv", wantType: ContentTypeCSV},
		{name: "xlsx workbook", format: "xlsx", wantFile: "haulage_2024-03.xlsx", wantType: ContentTypeXLSX},
		{name: "unsupported format", format: "pdf", wantErrIs: ErrUnsupportedFormat},
		{name: "unknown table", format: "csv", table: "drivers", wantErrIs: ErrUnknownTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, testutil.NewTestDataset(t), nil)

			got, err := svc.Export(context.Background(), nil, tt.format, tt.table)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, got.Filename)
			assert.Equal(t, tt.wantType, got.ContentType)
			assert.Equal(t, march, got.Period)
			assert.NotEmpty(t, got.Data)
		})
	}
}

func TestDashboardService_ExportContents(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)
	ctx := context.Background()

	t.Run("csv", func(t *testing.T) {
		got, err := svc.Export(ctx, &march, FormatCSV, "ranking")
		require.NoError(t, err)

		require.True(t, bytes.HasPrefix(got.Data, []byte("\ufeff")), "csv starts with a UTF-8 BOM")
		records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(got.Data, []byte("\ufeff")))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, "truck", records[0][0])
		assert.Equal(t, testutil.TruckC, records[1][0])
		assert.Equal(t, "185.00", records[1][1])
	})

	t.Run("xlsx", func(t *testing.T) {
		got, err := svc.Export(ctx, &march, FormatXLSX, "")
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(got.Data))
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{"Summary", "Ranking", "Loaders", "Metrics"}, f.GetSheetList())

		rows, err := f.GetRows("Summary")
		require.NoError(t, err)
		assert.Len(t, rows, 6)
	})
}

func TestDashboardService_ConcurrentReads(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)
	want, err := svc.Dashboard(context.Background(), nil)
	require.NoError(t, err)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		i := i
		g.Go(func() error {
			p := &march
			if i%2 == 1 {
				p = &february
			}
			view, err := svc.Dashboard(ctx, p)
			if err != nil {
				return err
			}
			if i%2 == 0 {
				assert.Equal(t, want.Summary, view.Summary)
				assert.Equal(t, want.Metrics, view.Metrics)
			}
			_, err = svc.Export(ctx, p, FormatXLSX, "")
			return err
		})
	}
	require.NoError(t, g.Wait())
}

func TestDashboardService_RecordsMetrics(t *testing.T) {
	cfg := infrastructure.DefaultOTelConfig()
	cfg.TraceExporter = "none"
	providers, err := infrastructure.InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	svc := newTestService(t, testutil.NewTestDataset(t), metrics)
	_, err = svc.Dashboard(context.Background(), nil)
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), &haulage.Period{Year: 2019, Month: 1})
	require.NoError(t, err)
	_, err = svc.Export(context.Background(), nil, FormatCSV, "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, "haul_dashboard_requests_total")
	assert.Contains(t, body, "haul_pipeline_duration_seconds")
	assert.Contains(t, body, "haul_empty_period_total")
	assert.Contains(t, body, "haul_export_bytes_total")
	assert.Contains(t, body, "haul_dataset_records")
}
