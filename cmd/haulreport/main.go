package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"haulpulse/internal/app"
	"haulpulse/internal/config"
	"haulpulse/internal/errors"
	"haulpulse/internal/exporter"
	"haulpulse/internal/haulage"
	"haulpulse/internal/infrastructure"
	"haulpulse/internal/services"
	"haulpulse/internal/validation"
)

type options struct {
	data   string
	year   int
	month  int
	format string
	table  string
	out    string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// One trace ID ties together every log line of a run.
	ctx := infrastructure.EnsureTraceID(context.Background())
	files, err := run(ctx, cfg, opts, logger)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Report generation failed")
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()
	for _, f := range files {
		fmt.Println(f)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("haulreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.data, "data", "", "dataset file, CSV or XLSX (defaults to the configured dataset path)")
	fs.IntVar(&opts.year, "year", 0, "report year (defaults to the latest month in the data)")
	fs.IntVar(&opts.month, "month", 0, "report month 1-12, required with -year")
	fs.StringVar(&opts.format, "format", services.FormatCSV, "output format: csv or xlsx")
	fs.StringVar(&opts.table, "table", "", "csv only: summary, ranking, loaders or metrics (defaults to all)")
	fs.StringVar(&opts.out, "out", "", "output directory (defaults to data/reports)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.format = strings.ToLower(opts.format)
	opts.table = strings.ToLower(opts.table)
	return opts, nil
}

// period returns nil when neither -year nor -month was given.
func (o options) period() (*haulage.Period, error) {
	if o.year == 0 && o.month == 0 {
		return nil, nil
	}
	p := haulage.Period{Year: o.year, Month: o.month}
	if err := p.Validate(); err != nil {
		return nil, errors.NewAppError(errors.ErrTypeValidation, "invalid -year/-month", err)
	}
	return &p, nil
}

// run loads the dataset, computes the period and writes the report files.
// It returns the written paths.
func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) ([]string, error) {
	if opts.format != services.FormatCSV && opts.format != services.FormatXLSX {
		return nil, errors.NewAppError(errors.ErrTypeValidation,
			fmt.Sprintf("unsupported format %q", opts.format), services.ErrUnsupportedFormat)
	}
	period, err := opts.period()
	if err != nil {
		return nil, err
	}
	if opts.data != "" {
		cfg.Dataset.Path = opts.data
	}

	paths := cfg.ResolvedPaths()
	if opts.out != "" {
		paths.ReportsDir = opts.out
	}
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return nil, errors.NewExportError("prepare output directory", err)
	}

	logger.InfoContext(ctx, "Loading dataset", slog.String("path", cfg.Dataset.Path))
	ds, err := app.LoadDataset(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	svc, err := app.NewDashboardService(cfg, ds, nil, logger)
	if err != nil {
		return nil, errors.NewStartupError("failed to create dashboard service", err)
	}

	if opts.format == services.FormatXLSX {
		return writeWorkbook(ctx, svc, period, paths, logger)
	}
	return writeCSVTables(ctx, svc, period, opts.table, paths, logger)
}

func writeWorkbook(ctx context.Context, svc *services.DashboardService, period *haulage.Period, paths *config.Paths, logger *slog.Logger) ([]string, error) {
	result, err := svc.Export(ctx, period, services.FormatXLSX, "")
	if err != nil {
		return nil, errors.NewExportError("build workbook", err)
	}
	path := paths.GetReportPath(result.Filename)
	if err := os.WriteFile(path, result.Data, 0644); err != nil {
		return nil, errors.NewExportError("write workbook", err)
	}
	logger.InfoContext(ctx, "Workbook written",
		slog.String("path", path),
		slog.String("period", result.Period.String()),
		slog.Int("bytes", len(result.Data)))
	return []string{path}, nil
}

func writeCSVTables(ctx context.Context, svc *services.DashboardService, period *haulage.Period, table string, paths *config.Paths, logger *slog.Logger) ([]string, error) {
	view, err := svc.Dashboard(ctx, period)
	if err != nil {
		return nil, err
	}
	tables := exporter.BuildTables(view.Dashboard, svc.LoaderLabels())
	if table != "" {
		t, ok := exporter.FindTable(tables, table)
		if !ok {
			return nil, errors.NewAppError(errors.ErrTypeValidation,
				fmt.Sprintf("unknown table %q", table), services.ErrUnknownTable)
		}
		tables = []exporter.Table{t}
	}

	writer := exporter.NewCSVWriter(paths, logger)
	files := make([]string, 0, len(tables))
	for _, t := range tables {
		name := fmt.Sprintf("haulage_%s_%s.csv", strings.ToLower(t.Name), view.Period)
		if err := writer.WriteTable(name, t); err != nil {
			return files, errors.NewExportError("write "+name, err)
		}
		files = append(files, filepath.Join(paths.ReportsDir, name))
	}

	logger.InfoContext(ctx, "CSV report written",
		slog.String("period", view.Period.String()),
		slog.Int("files", len(files)),
		slog.Bool("has_data", view.Metrics.HasData))
	return files, nil
}
