package services

import (
	"sort"

	"haulpulse/internal/dataset"
	"haulpulse/internal/haulage"
)

// DonutLabel is the caption of the efficiency donut.
const DonutLabel = "Eficiencia"

// PeriodOptions feeds the year and month selectors.
type PeriodOptions struct {
	Years        []int           `json:"years"`
	Months       []int           `json:"months"`
	MonthsByYear map[int][]int   `json:"months_by_year"`
	Default      *haulage.Period `json:"default"`
}

// Donut is the efficiency gauge: Value percent filled, Remaining percent of
// track. Both are nil for a period without data.
type Donut struct {
	Label     string                  `json:"label"`
	Value     *float64                `json:"value"`
	Remaining *float64                `json:"remaining"`
	Level     haulage.EfficiencyLevel `json:"level"`
	Palette   haulage.Palette         `json:"palette"`
}

// HeatmapCell is one truck-day of tonnage.
type HeatmapCell struct {
	Date  string  `json:"date"`
	Truck string  `json:"truck"`
	Value float64 `json:"value"`
}

// Heatmap is the daily tonnage grid: dates on x, trucks on y.
type Heatmap struct {
	Dates  []string      `json:"dates"`
	Trucks []string      `json:"trucks"`
	Cells  []HeatmapCell `json:"cells"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
}

// DashboardView is the payload of the dashboard page and /api/dashboard.
type DashboardView struct {
	haulage.Dashboard
	Donut   Donut        `json:"donut"`
	Heatmap Heatmap      `json:"heatmap"`
	Dataset dataset.Info `json:"dataset"`
}

// SummaryView is the filtered daily summary of one period.
type SummaryView struct {
	Period haulage.Period              `json:"period"`
	Rows   []haulage.DailyTruckSummary `json:"rows"`
}

// RankingView is the truck ranking of one period.
type RankingView struct {
	Period haulage.Period            `json:"period"`
	Rows   []haulage.TruckRankingRow `json:"rows"`
}

// MetricsView carries the metric cards and the donut of one period.
type MetricsView struct {
	Period  haulage.Period  `json:"period"`
	Metrics haulage.Metrics `json:"metrics"`
	Donut   Donut           `json:"donut"`
}

// NewDonut builds the gauge for m.
func NewDonut(m haulage.Metrics) Donut {
	d := Donut{
		Label:   DonutLabel,
		Level:   m.EfficiencyLevel,
		Palette: m.EfficiencyLevel.Palette(),
	}
	if m.HasData {
		value := m.EfficiencyPercentage
		remaining := 100 - value
		d.Value = &value
		d.Remaining = &remaining
	}
	return d
}

// NewHeatmap lays out summary tonnage as a date by truck grid. Axes are
// sorted ascending.
func NewHeatmap(summary []haulage.DailyTruckSummary) Heatmap {
	h := Heatmap{
		Dates:  []string{},
		Trucks: []string{},
		Cells:  make([]HeatmapCell, 0, len(summary)),
	}
	dates := make(map[string]struct{})
	trucks := make(map[string]struct{})

	for i, s := range summary {
		date := s.Date.Format(haulage.DateLayout)
		dates[date] = struct{}{}
		trucks[s.Truck] = struct{}{}
		h.Cells = append(h.Cells, HeatmapCell{Date: date, Truck: s.Truck, Value: s.TotalTonPerDay})

		if i == 0 || s.TotalTonPerDay < h.Min {
			h.Min = s.TotalTonPerDay
		}
		if i == 0 || s.TotalTonPerDay > h.Max {
			h.Max = s.TotalTonPerDay
		}
	}

	for d := range dates {
		h.Dates = append(h.Dates, d)
	}
	for t := range trucks {
		h.Trucks = append(h.Trucks, t)
	}
	sort.Strings(h.Dates)
	sort.Strings(h.Trucks)
	return h
}
