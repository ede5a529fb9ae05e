package haulage

import (
	"math"

	"github.com/shopspring/decimal"
)

// mean returns the arithmetic mean of field over items, or 0 for no items.
func mean[T any](items []T, field func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += field(it)
	}
	return sum / float64(len(items))
}

// exactSum adds values in decimal so that tonnage totals do not drift with
// the order of the rows.
func exactSum[T any](items []T, field func(T) float64) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(field(it)))
	}
	return total.InexactFloat64()
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
