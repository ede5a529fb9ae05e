package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"haulpulse/internal/haulage"
)

// rowParser decodes cells of one row and keeps the first error.
type rowParser struct {
	h      header
	row    []string
	rowNum int
	err    error
}

func (p *rowParser) fail(column string, err error) {
	if p.err == nil {
		p.err = &RowError{Row: p.rowNum, Column: column, Err: err}
	}
}

func (p *rowParser) text(column string) string {
	return p.h.get(p.row, column)
}

func (p *rowParser) float(column string) float64 {
	raw := p.h.get(p.row, column)
	if raw == "" {
		p.fail(column, fmt.Errorf("empty value"))
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(column, fmt.Errorf("invalid number %q", raw))
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(column, fmt.Errorf("non-finite number %q", raw))
		return 0
	}
	return v
}

// count accepts integral values written as floats, e.g. "3.0".
func (p *rowParser) count(column string) int {
	v := p.float(column)
	if p.err != nil {
		return 0
	}
	if v != math.Trunc(v) {
		p.fail(column, fmt.Errorf("expected a whole number, got %v", v))
		return 0
	}
	return int(v)
}

func (p *rowParser) date(column string, layouts []string) time.Time {
	raw := p.h.get(p.row, column)
	if raw == "" {
		p.fail(column, fmt.Errorf("empty date"))
		return time.Time{}
	}
	t, err := parseDate(raw, layouts)
	if err != nil {
		p.fail(column, err)
		return time.Time{}
	}
	return t
}

// parseDate tries each layout in turn and finally an Excel serial day
// number. The result is truncated to the calendar day.
func parseDate(raw string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return haulage.DayOf(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return haulage.DayOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
