package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"haulpulse/internal/haulage"
	"haulpulse/internal/validation"
)

// Options control how rows are decoded.
type Options struct {
	// DateLayouts are tried in order for the date column.
	DateLayouts []string
	// Sheet selects the XLSX worksheet. Empty means the first sheet.
	Sheet string
}

// DefaultOptions accepts ISO dates with or without a time part, RFC 3339 and
// day-first slashed dates.
func DefaultOptions() Options {
	return Options{
		DateLayouts: []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "02/01/2006"},
	}
}

// Loader reads haulage datasets from CSV or XLSX files.
type Loader struct {
	opts     Options
	files    *validation.FileValidator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default().
func NewLoader(opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = DefaultOptions().DateLayouts
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Loader{
		opts:     opts,
		files:    validation.NewFileValidator(logger),
		validate: v,
		logger:   logger.With(slog.String("component", "dataset_loader")),
	}
}

// Load validates path and reads it into a Dataset. Any malformed row fails
// the whole load.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	start := time.Now()
	l.logger.InfoContext(ctx, "loading dataset", slog.String("path", path))

	ext, err := l.files.ValidateDatasetFile(path)
	if err != nil {
		if ext != validation.ExtCSV && ext != validation.ExtXLSX {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, err
	}

	var rows [][]string
	switch ext {
	case validation.ExtCSV:
		rows, err = readCSVFile(path)
	case validation.ExtXLSX:
		rows, err = readXLSXFile(path, l.opts.Sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	records, err := l.Parse(ctx, rows)
	if err != nil {
		l.logger.ErrorContext(ctx, "dataset rejected",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	ds := New(path, records)
	first, last := ds.DateRange()
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.String("dataset_id", ds.ID()),
		slog.Int("records", ds.Len()),
		slog.String("first_day", first.Format(haulage.DateLayout)),
		slog.String("last_day", last.Format(haulage.DateLayout)),
		slog.Duration("duration", time.Since(start)))
	return ds, nil
}

// Parse decodes a header row followed by data rows. Blank rows are skipped.
func (l *Loader) Parse(ctx context.Context, rows [][]string) ([]haulage.RawRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrNoRows)
	}

	h, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]haulage.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(row) {
			continue
		}

		// header is file row 1
		rowNum := i + 2
		rec, err := l.parseRow(h, row, rowNum)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return records, nil
}

func (l *Loader) parseRow(h header, row []string, rowNum int) (haulage.RawRecord, error) {
	p := rowParser{h: h, row: row, rowNum: rowNum}

	rec := haulage.RawRecord{
		Truck:            p.text(ColTruck),
		Date:             p.date(ColDate, l.opts.DateLayouts),
		Loader:           p.text(ColLoader),
		Ton:              p.float(ColTon),
		NShovel:          p.count(ColNShovel),
		DistanceEmpty:    p.float(ColDistanceEmpty),
		DistanceFull:     p.float(ColDistanceFull),
		TruckTotalCycle:  p.float(ColTruckTotalCycle),
		LoaderTotalCycle: p.float(ColLoaderTotalCycle),
		Speed:            p.float(ColSpeed),
	}
	if p.err != nil {
		return haulage.RawRecord{}, p.err
	}

	if err := l.validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return haulage.RawRecord{}, &RowError{
				Row:    rowNum,
				Column: fe.Field(),
				Err:    fmt.Errorf("value %v fails %q", fe.Value(), fe.ActualTag()+paramSuffix(fe.Param())),
			}
		}
		return haulage.RawRecord{}, &RowError{Row: rowNum, Err: err}
	}
	return rec, nil
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return "=" + param
}
