package haulage

import "sort"

// RankTrucks averages each truck's daily rows and sorts the result ascending
// by average daily tonnage, so the heaviest hauler comes last. Ties are
// broken by truck id.
func RankTrucks(filtered []DailyTruckSummary) []TruckRankingRow {
	byTruck := make(map[string][]DailyTruckSummary)
	for _, s := range filtered {
		byTruck[s.Truck] = append(byTruck[s.Truck], s)
	}

	out := make([]TruckRankingRow, 0, len(byTruck))
	for truck, days := range byTruck {
		out = append(out, TruckRankingRow{
			Truck:                     truck,
			AverageDailyTon:           mean(days, func(s DailyTruckSummary) float64 { return s.TotalTonPerDay }),
			AverageDailyLoads:         mean(days, func(s DailyTruckSummary) float64 { return float64(s.LoadsPerDay) }),
			AverageDailyDistanceEmpty: mean(days, func(s DailyTruckSummary) float64 { return s.AvgDistanceEmpty }),
			AverageDailyDistanceFull:  mean(days, func(s DailyTruckSummary) float64 { return s.AvgDistanceFull }),
			Days:                      len(days),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageDailyTon != out[j].AverageDailyTon {
			return out[i].AverageDailyTon < out[j].AverageDailyTon
		}
		return out[i].Truck < out[j].Truck
	})
	return out
}
