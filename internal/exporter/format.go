package exporter

import (
	"fmt"
	"time"

	"haulpulse/internal/haulage"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatCell renders a typed table cell for CSV.
func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case int:
		return formatInt(x)
	case time.Time:
		return x.Format(haulage.DateLayout)
	default:
		return fmt.Sprint(x)
	}
}
