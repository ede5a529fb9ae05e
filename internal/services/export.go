package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"haulpulse/internal/exporter"
	"haulpulse/internal/haulage"
	"haulpulse/internal/infrastructure"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Content types of the export formats.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportFormats lists the accepted export formats.
var ExportFormats = []string{FormatCSV, FormatXLSX}

// ExportTables lists the tables a CSV export can select, lower-cased.
var ExportTables = []string{"summary", "ranking", "loaders", "metrics"}

// ExportResult is an encoded report ready to be served or saved.
type ExportResult struct {
	Filename    string
	ContentType string
	Period      haulage.Period
	Data        []byte
}

// Export encodes a period's dashboard. XLSX carries every table as a sheet;
// CSV carries the one named by table (summary when empty).
func (s *DashboardService) Export(ctx context.Context, p *haulage.Period, format, table string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	table = strings.ToLower(strings.TrimSpace(table))
	if table == "" {
		table = "summary"
	}

	var result *ExportResult
	err := s.observe(ctx, ViewExport, p, func(ctx context.Context, records []haulage.RawRecord, period *haulage.Period) (bool, error) {
		d, err := s.calc.Dashboard(ctx, records, *period)
		if err != nil {
			return false, err
		}
		tables := exporter.BuildTables(d, s.LoaderLabels())

		var buf bytes.Buffer
		switch format {
		case FormatXLSX:
			if err := exporter.WriteWorkbook(&buf, tables); err != nil {
				return false, fmt.Errorf("%w: encode workbook: %w", ErrExportFailed, err)
			}
			result = &ExportResult{
				Filename:    fmt.Sprintf("haulage_%s.xlsx", period),
				ContentType: ContentTypeXLSX,
			}
		default:
			t, ok := exporter.FindTable(tables, table)
			if !ok {
				return false, fmt.Errorf("%w: %q", ErrUnknownTable, table)
			}
			if err := exporter.EncodeTable(&buf, t); err != nil {
				return false, fmt.Errorf("%w: encode %s table: %w", ErrExportFailed, table, err)
			}
			result = &ExportResult{
				Filename:    fmt.Sprintf("haulage_%s_%s.csv", table, period),
				ContentType: ContentTypeCSV,
			}
		}

		result.Period = *period
		result.Data = buf.Bytes()
		return d.Metrics.HasData, nil
	})
	if err != nil {
		return nil, err
	}

	infrastructure.RecordExportMetrics(ctx, s.metrics, format, len(result.Data))
	s.logger.InfoContext(ctx, "export generated",
		slog.String("format", format),
		slog.String("file", result.Filename),
		slog.Int("bytes", len(result.Data)))
	return result, nil
}
