package exporter

import (
	"strings"

	"haulpulse/internal/haulage"
)

// Table names, also used as worksheet names.
const (
	TableSummary = "Summary"
	TableRanking = "Ranking"
	TableLoaders = "Loaders"
	TableMetrics = "Metrics"
)

// Table is a named grid of typed cells: string, int, float64 or time.Time.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Records renders the rows as CSV strings.
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = formatCell(cell)
		}
		out[i] = rec
	}
	return out
}

// BuildTables lays out every dashboard table in export order.
func BuildTables(d haulage.Dashboard, labels []string) []Table {
	return []Table{
		SummaryTable(d.Summary, labels),
		RankingTable(d.Ranking),
		LoaderTable(d.Loaders),
		MetricsTable(d.Period, d.Metrics),
	}
}

// SummaryTable lays out daily truck summaries with one count column per
// loader label.
func SummaryTable(rows []haulage.DailyTruckSummary, labels []string) Table {
	headers := []string{"truck", "date", "total_ton_per_day", "loads_per_day"}
	for _, label := range labels {
		headers = append(headers, haulage.LoaderCount{Label: label}.CountField())
	}
	headers = append(headers, "other_loader_count",
		"avg_distance_empty", "avg_distance_full", "avg_truck_total_cycle",
		"avg_load_cycle", "avg_ton_per_shovel", "avg_speed")

	t := Table{Name: TableSummary, Headers: headers, Rows: make([][]interface{}, 0, len(rows))}
	for _, s := range rows {
		row := []interface{}{s.Truck, s.Date, s.TotalTonPerDay, s.LoadsPerDay}
		for _, label := range labels {
			row = append(row, s.CountFor(label))
		}
		row = append(row, s.OtherLoaderCount,
			s.AvgDistanceEmpty, s.AvgDistanceFull, s.AvgTruckTotalCycle,
			s.AvgLoadCycle, s.AvgTonPerShovel, s.AvgSpeed)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// RankingTable keeps the ranking's ascending order.
func RankingTable(rows []haulage.TruckRankingRow) Table {
	t := Table{
		Name: TableRanking,
		Headers: []string{"truck", "average_daily_ton", "average_daily_loads",
			"average_daily_distance_empty", "average_daily_distance_full", "days"},
		Rows: make([][]interface{}, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{r.Truck, r.AverageDailyTon, r.AverageDailyLoads,
			r.AverageDailyDistanceEmpty, r.AverageDailyDistanceFull, r.Days})
	}
	return t
}

// LoaderTable uses the loader, avg_cycle_time, avg_ton_per_shovel column
// order of the dashboard.
func LoaderTable(rows []haulage.LoaderEfficiencyRow) Table {
	t := Table{
		Name:    TableLoaders,
		Headers: []string{"loader", "avg_cycle_time", "avg_ton_per_shovel", "cycles"},
		Rows:    make([][]interface{}, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{r.Loader, r.AvgCycleTime, r.AvgTonPerShovel, r.Cycles})
	}
	return t
}

// MetricsTable is a two column metric/value sheet. Averages are left blank
// when the period has no data.
func MetricsTable(p haulage.Period, m haulage.Metrics) Table {
	value := func(v float64) interface{} {
		if !m.HasData {
			return nil
		}
		return v
	}
	return Table{
		Name:    TableMetrics,
		Headers: []string{"metric", "value"},
		Rows: [][]interface{}{
			{"period", p.String()},
			{"speed_avg", value(m.SpeedAvg)},
			{"distance_empty", value(m.DistanceEmpty)},
			{"distance_full", value(m.DistanceFull)},
			{"loader_time_avg", value(m.LoaderTimeAvg)},
			{"ton_per_shovel_efficiency", value(m.TonPerShovelEfficiency)},
			{"efficiency_percentage", value(m.EfficiencyPercentage)},
			{"efficiency_level", string(m.EfficiencyLevel)},
		},
	}
}

// FindTable returns the table with the given name, ignoring case.
func FindTable(tables []Table, name string) (Table, bool) {
	for _, t := range tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Table{}, false
}
