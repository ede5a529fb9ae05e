package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoRows is returned for a dataset with a header and no data.
	ErrNoRows = errors.New("dataset has no data rows")
	// ErrUnsupportedFormat is returned for file types other than CSV and XLSX.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// RowError pins a parse or validation failure to a 1-based file row.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
