package haulage

import (
	"sort"
	"time"
)

// FilterByPeriod returns the summary rows dated inside p. A period absent
// from the data yields an empty, non-nil slice.
func FilterByPeriod(summaries []DailyTruckSummary, p Period) []DailyTruckSummary {
	out := make([]DailyTruckSummary, 0)
	for _, s := range summaries {
		if p.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// AvailableYears lists the distinct years in the dataset, most recent first.
func AvailableYears(records []RawRecord) []int {
	return distinctDesc(records, func(t time.Time) int { return t.Year() })
}

// AvailableMonths lists the distinct month numbers in the dataset across all
// years, highest first. Years and months are enumerated independently.
func AvailableMonths(records []RawRecord) []int {
	return distinctDesc(records, func(t time.Time) int { return int(t.Month()) })
}

// MonthsForYear lists the months with data in year, highest first.
func MonthsForYear(records []RawRecord, year int) []int {
	var inYear []RawRecord
	for _, r := range records {
		if r.Date.Year() == year {
			inYear = append(inYear, r)
		}
	}
	return AvailableMonths(inYear)
}

// DefaultPeriod returns the month of the most recent record. ok is false
// for an empty dataset.
func DefaultPeriod(records []RawRecord) (p Period, ok bool) {
	if len(records) == 0 {
		return Period{}, false
	}
	latest := records[0].Date
	for _, r := range records[1:] {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return NewPeriod(latest), true
}

func distinctDesc(records []RawRecord, part func(time.Time) int) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, r := range records {
		v := part(r.Date)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
