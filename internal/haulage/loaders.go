package haulage

import "sort"

// LoaderEfficiency averages cycle time and ton-per-shovel per loading station
// over every record passed in. Callers pass the full dataset: this table is
// independent of the selected period. Rows are ordered by loader id.
func LoaderEfficiency(records []RawRecord) []LoaderEfficiencyRow {
	byLoader := make(map[string][]RawRecord)
	for _, r := range records {
		byLoader[r.Loader] = append(byLoader[r.Loader], r)
	}

	out := make([]LoaderEfficiencyRow, 0, len(byLoader))
	for loader, rows := range byLoader {
		out = append(out, LoaderEfficiencyRow{
			Loader:          loader,
			AvgCycleTime:    mean(rows, func(r RawRecord) float64 { return r.LoaderTotalCycle }),
			AvgTonPerShovel: mean(rows, RawRecord.TonPerShovel),
			Cycles:          len(rows),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Loader < out[j].Loader })
	return out
}
