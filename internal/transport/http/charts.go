package http

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"haulpulse/internal/services"
)

// Chart titles.
const (
	HeatmapTitle = "Distribución de Tonelaje Diario por Camión"
	RankingTitle = "Average Daily Ton per Truck"
	DonutTitle   = "Eficiencia de Tonelaje por Palada"
)

const (
	chartBackground = "#0d1117"
	chartWidth      = "1100px"
)

// viridis is sampled at five evenly spaced stops.
var viridis = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

// viridisColor maps v within [min, max] onto the nearest viridis stop.
func viridisColor(v, min, max float64) string {
	if max <= min {
		return viridis[len(viridis)/2]
	}
	t := (v - min) / (max - min)
	idx := int(math.Round(t * float64(len(viridis)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(viridis) {
		idx = len(viridis) - 1
	}
	return viridis[idx]
}

// donutArc clamps an efficiency percentage to the drawable 0..100 range.
func donutArc(d services.Donut) float64 {
	if d.Value == nil {
		return 0
	}
	return math.Max(0, math.Min(100, *d.Value))
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle:       title,
		Width:           chartWidth,
		BackgroundColor: chartBackground,
	})
}

func titleOpts(title, subtitle string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{
		Title:      title,
		Subtitle:   subtitle,
		TitleStyle: &opts.TextStyle{Color: "#f0f6fc"},
	})
}

// newHeatmapChart plots tonnage with dates on x and trucks on y.
func newHeatmapChart(view services.DashboardView) *charts.HeatMap {
	hm := view.Heatmap
	dateIdx := make(map[string]int, len(hm.Dates))
	for i, d := range hm.Dates {
		dateIdx[d] = i
	}
	truckIdx := make(map[string]int, len(hm.Trucks))
	for i, t := range hm.Trucks {
		truckIdx[t] = i
	}

	data := make([]opts.HeatMapData, 0, len(hm.Cells))
	for _, c := range hm.Cells {
		data = append(data, opts.HeatMapData{
			Name:  c.Truck,
			Value: [3]interface{}{dateIdx[c.Date], truckIdx[c.Truck], c.Value},
		})
	}

	chart := charts.NewHeatMap()
	chart.SetGlobalOptions(
		initOpts(HeatmapTitle),
		titleOpts(HeatmapTitle, view.Period.String()),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Name:      "date",
			Data:      hm.Dates,
			SplitArea: &opts.SplitArea{Show: true},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Name:      "truck",
			Data:      hm.Trucks,
			SplitArea: &opts.SplitArea{Show: true},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        float32(hm.Min),
			Max:        float32(hm.Max),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	chart.SetXAxis(hm.Dates).AddSeries("total_ton_per_day", data)
	return chart
}

// newRankingChart draws the ranking as horizontal bars. Rows arrive in
// ascending order, which puts the highest tonnage at the top.
func newRankingChart(view services.DashboardView) *charts.Bar {
	trucks := make([]string, 0, len(view.Ranking))
	data := make([]opts.BarData, 0, len(view.Ranking))
	for _, row := range view.Ranking {
		trucks = append(trucks, row.Truck)
		data = append(data, opts.BarData{Name: row.Truck, Value: row.AverageDailyTon})
	}

	chart := charts.NewBar()
	chart.SetGlobalOptions(
		initOpts(RankingTitle),
		titleOpts(RankingTitle, view.Period.String()),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	chart.SetXAxis(trucks).
		AddSeries("average_daily_ton", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#58a6ff"})).
		XYReversal()
	return chart
}

// newDonutChart draws the efficiency gauge in the level's palette. A period
// without data is drawn as an empty grey ring.
func newDonutChart(view services.DashboardView) *charts.Pie {
	d := view.Donut
	arc := donutArc(d)
	subtitle := "Sin datos"
	if d.Value != nil {
		subtitle = fmt.Sprintf("%.2f%%", *d.Value)
	}

	chart := charts.NewPie()
	chart.SetGlobalOptions(
		initOpts(DonutTitle),
		titleOpts(DonutTitle, subtitle),
		charts.WithLegendOpts(opts.Legend{Show: false}),
	)
	chart.AddSeries(d.Label, []opts.PieData{
		{Name: d.Label, Value: arc, ItemStyle: &opts.ItemStyle{Color: d.Palette.Primary}},
		{Name: "", Value: 100 - arc, ItemStyle: &opts.ItemStyle{Color: d.Palette.Background}},
	},
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "75%"}}),
		charts.WithLabelOpts(opts.Label{Show: false}),
	)
	return chart
}

// renderChartsPage writes the heatmap, ranking and donut as one page.
func renderChartsPage(w io.Writer, view services.DashboardView) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s · %s", PageTitle, view.Period)
	page.AddCharts(
		newHeatmapChart(view),
		newRankingChart(view),
		newDonutChart(view),
	)
	return page.Render(w)
}
