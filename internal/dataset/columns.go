package dataset

import (
	"fmt"
	"strings"
)

// Column names of the haulage dataset.
const (
	ColTruck            = "truck"
	ColDate             = "date"
	ColLoader           = "loader"
	ColTon              = "ton"
	ColNShovel          = "n_shovel"
	ColDistanceEmpty    = "distance_empty"
	ColDistanceFull     = "distance_full"
	ColTruckTotalCycle  = "truck_total_cycle"
	ColLoaderTotalCycle = "loader_total_cycle"
	ColSpeed            = "speed"
)

// RequiredColumns lists every column a dataset must carry. Other columns are
// ignored.
var RequiredColumns = []string{
	ColTruck,
	ColDate,
	ColLoader,
	ColTon,
	ColNShovel,
	ColDistanceEmpty,
	ColDistanceFull,
	ColTruckTotalCycle,
	ColLoaderTotalCycle,
	ColSpeed,
}

// header maps a column name to its index in a row.
type header map[string]int

// parseHeader indexes the header row by trimmed, lower-cased name and checks
// that every required column is present.
func parseHeader(row []string) (header, error) {
	h := make(header, len(row))
	for i, name := range row {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name == "" {
			continue
		}
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}

	for _, col := range RequiredColumns {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return h, nil
}

// get returns the trimmed cell for column, or "" when the row is short.
func (h header) get(row []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
