package services

import "errors"

// Dashboard service errors
var (
	// ErrInvalidPeriod means the requested year/month does not name a month.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrUnsupportedFormat means the export format is neither csv nor xlsx.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrUnknownTable means the export table name is not one of the dashboard tables.
	ErrUnknownTable = errors.New("unknown export table")

	// ErrExportFailed means a table or workbook could not be encoded.
	ErrExportFailed = errors.New("export failed")

	// ErrDatasetNotLoaded means no dataset, or an empty one, backs the service.
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
)
