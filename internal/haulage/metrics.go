package haulage

// ComputeMetrics reduces the filtered summary to the dashboard indicators.
// An empty input yields Metrics with HasData false and LevelNone.
func ComputeMetrics(filtered []DailyTruckSummary, opts Options) Metrics {
	if len(filtered) == 0 {
		return Metrics{EfficiencyLevel: LevelNone}
	}

	tps := mean(filtered, func(s DailyTruckSummary) float64 { return s.AvgTonPerShovel })
	eff := Efficiency(tps, opts.BaselineCapacity)

	return Metrics{
		HasData:                true,
		SpeedAvg:               mean(filtered, func(s DailyTruckSummary) float64 { return s.AvgSpeed }),
		DistanceEmpty:          mean(filtered, func(s DailyTruckSummary) float64 { return s.AvgDistanceEmpty }),
		DistanceFull:           mean(filtered, func(s DailyTruckSummary) float64 { return s.AvgDistanceFull }),
		LoaderTimeAvg:          mean(filtered, func(s DailyTruckSummary) float64 { return s.AvgLoadCycle }),
		TonPerShovelAvg:        tps,
		TonPerShovelEfficiency: eff,
		EfficiencyPercentage:   EfficiencyPercentage(eff),
		EfficiencyLevel:        ClassifyEfficiency(eff, opts.Thresholds),
	}
}

// Efficiency returns 1 - baseline/meanTonPerShovel, or 0 when the mean is
// exactly zero.
func Efficiency(meanTonPerShovel, baseline float64) float64 {
	if meanTonPerShovel == 0 {
		return 0
	}
	return 1 - baseline/meanTonPerShovel
}

// EfficiencyPercentage expresses eff as a percentage rounded to two places.
func EfficiencyPercentage(eff float64) float64 {
	return round(eff*100, 2)
}

// ClassifyEfficiency buckets eff into half-open intervals: below Warning is
// good, below Critical is warning, anything else is critical.
func ClassifyEfficiency(eff float64, th Thresholds) EfficiencyLevel {
	switch {
	case eff < th.Warning:
		return LevelGood
	case eff < th.Critical:
		return LevelWarning
	default:
		return LevelCritical
	}
}
