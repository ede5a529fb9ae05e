package haulage

import (
	"sort"
	"time"
)

type truckDay struct {
	truck string
	day   time.Time
}

// Aggregate builds one DailyTruckSummary per (truck, day). Loader cycles are
// counted for each label in labels by exact, case-sensitive match; cycles at
// any other station are reported in OtherLoaderCount. Rows are ordered by
// day, then truck.
func Aggregate(records []RawRecord, labels []string) []DailyTruckSummary {
	groups := make(map[truckDay][]RawRecord)
	for _, r := range records {
		key := truckDay{truck: r.Truck, day: r.Day()}
		groups[key] = append(groups[key], r)
	}

	out := make([]DailyTruckSummary, 0, len(groups))
	for key, rows := range groups {
		out = append(out, summarize(key, rows, labels))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Truck < out[j].Truck
	})
	return out
}

func summarize(key truckDay, rows []RawRecord, labels []string) DailyTruckSummary {
	counts := make([]LoaderCount, len(labels))
	tracked := 0
	for i, label := range labels {
		n := 0
		for _, r := range rows {
			if r.Loader == label {
				n++
			}
		}
		counts[i] = LoaderCount{Label: label, Count: n}
		tracked += n
	}

	return DailyTruckSummary{
		Truck:              key.truck,
		Date:               key.day,
		TotalTonPerDay:     exactSum(rows, func(r RawRecord) float64 { return r.Ton }),
		LoadsPerDay:        len(rows),
		LoaderCounts:       counts,
		OtherLoaderCount:   len(rows) - tracked,
		AvgDistanceEmpty:   mean(rows, func(r RawRecord) float64 { return r.DistanceEmpty }),
		AvgDistanceFull:    mean(rows, func(r RawRecord) float64 { return r.DistanceFull }),
		AvgTruckTotalCycle: mean(rows, func(r RawRecord) float64 { return r.TruckTotalCycle }),
		AvgLoadCycle:       mean(rows, func(r RawRecord) float64 { return r.LoaderTotalCycle }),
		AvgTonPerShovel:    mean(rows, RawRecord.TonPerShovel),
		AvgSpeed:           mean(rows, func(r RawRecord) float64 { return r.Speed }),
	}
}
