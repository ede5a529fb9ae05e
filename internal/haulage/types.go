package haulage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// RawRecord is a single haul cycle as read from the dataset.
type RawRecord struct {
	Truck            string    `json:"truck" validate:"required"`
	Date             time.Time `json:"date" validate:"required"`
	Loader           string    `json:"loader" validate:"required"`
	Ton              float64   `json:"ton" validate:"gte=0"`
	NShovel          int       `json:"n_shovel" validate:"gte=1"`
	DistanceEmpty    float64   `json:"distance_empty" validate:"gte=0"`
	DistanceFull     float64   `json:"distance_full" validate:"gte=0"`
	TruckTotalCycle  float64   `json:"truck_total_cycle" validate:"gte=0"`
	LoaderTotalCycle float64   `json:"loader_total_cycle" validate:"gte=0"`
	Speed            float64   `json:"speed" validate:"gte=0"`
}

// TonPerShovel returns tons hauled per shovel pass, or 0 when the cycle
// records no passes.
func (r RawRecord) TonPerShovel() float64 {
	if r.NShovel <= 0 {
		return 0
	}
	return r.Ton / float64(r.NShovel)
}

// Day returns the record date truncated to midnight UTC.
func (r RawRecord) Day() time.Time {
	return DayOf(r.Date)
}

// DayOf truncates t to its calendar day in UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LoaderCount is the number of cycles a truck took at one loading station.
type LoaderCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountField returns the flattened column name for the label, e.g.
// "count_ph06".
func (lc LoaderCount) CountField() string {
	return "count_" + strings.ToLower(lc.Label)
}

// DailyTruckSummary aggregates one truck's cycles on one day.
type DailyTruckSummary struct {
	Truck              string        `json:"truck"`
	Date               time.Time     `json:"date"`
	TotalTonPerDay     float64       `json:"total_ton_per_day"`
	LoadsPerDay        int           `json:"loads_per_day"`
	LoaderCounts       []LoaderCount `json:"loader_counts"`
	OtherLoaderCount   int           `json:"other_loader_count"`
	AvgDistanceEmpty   float64       `json:"avg_distance_empty"`
	AvgDistanceFull    float64       `json:"avg_distance_full"`
	AvgTruckTotalCycle float64       `json:"avg_truck_total_cycle"`
	AvgLoadCycle       float64       `json:"avg_load_cycle"`
	AvgTonPerShovel    float64       `json:"avg_ton_per_shovel"`
	AvgSpeed           float64       `json:"avg_speed"`
}

// CountFor returns the count for label, or 0 when the label is not tracked.
func (s DailyTruckSummary) CountFor(label string) int {
	for _, lc := range s.LoaderCounts {
		if lc.Label == label {
			return lc.Count
		}
	}
	return 0
}

// MarshalJSON flattens loader counts into count_<label> columns next to the
// structured list.
func (s DailyTruckSummary) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"truck":                 s.Truck,
		"date":                  s.Date.Format(DateLayout),
		"total_ton_per_day":     s.TotalTonPerDay,
		"loads_per_day":         s.LoadsPerDay,
		"loader_counts":         s.LoaderCounts,
		"other_loader_count":    s.OtherLoaderCount,
		"avg_distance_empty":    s.AvgDistanceEmpty,
		"avg_distance_full":     s.AvgDistanceFull,
		"avg_truck_total_cycle": s.AvgTruckTotalCycle,
		"avg_load_cycle":        s.AvgLoadCycle,
		"avg_ton_per_shovel":    s.AvgTonPerShovel,
		"avg_speed":             s.AvgSpeed,
	}
	if len(s.LoaderCounts) == 0 {
		out["loader_counts"] = []LoaderCount{}
	}
	for _, lc := range s.LoaderCounts {
		out[lc.CountField()] = lc.Count
	}
	return json.Marshal(out)
}

// TruckRankingRow holds one truck's daily averages over a period.
type TruckRankingRow struct {
	Truck                     string  `json:"truck"`
	AverageDailyTon           float64 `json:"average_daily_ton"`
	AverageDailyLoads         float64 `json:"average_daily_loads"`
	AverageDailyDistanceEmpty float64 `json:"average_daily_distance_empty"`
	AverageDailyDistanceFull  float64 `json:"average_daily_distance_full"`
	Days                      int     `json:"days"`
}

// LoaderEfficiencyRow holds one loading station's averages over the whole
// dataset.
type LoaderEfficiencyRow struct {
	Loader          string  `json:"loader"`
	AvgCycleTime    float64 `json:"avg_cycle_time"`
	AvgTonPerShovel float64 `json:"avg_ton_per_shovel"`
	Cycles          int     `json:"cycles"`
}

// Period is a calendar month.
type Period struct {
	Year  int `json:"year" validate:"required,gte=1"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}

// NewPeriod returns the period containing t.
func NewPeriod(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// Validate checks that the period names a real month.
func (p Period) Validate() error {
	if p.Year <= 0 {
		return fmt.Errorf("year must be positive, got %d", p.Year)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", p.Month)
	}
	return nil
}

// String returns the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// EfficiencyLevel buckets the ton-per-shovel efficiency ratio.
type EfficiencyLevel string

const (
	// LevelNone marks a period without data.
	LevelNone     EfficiencyLevel = "none"
	LevelGood     EfficiencyLevel = "good"
	LevelWarning  EfficiencyLevel = "warning"
	LevelCritical EfficiencyLevel = "critical"
)

// Palette is the donut colour pair for a level: the filled arc and the
// remaining track.
type Palette struct {
	Primary    string `json:"primary"`
	Background string `json:"background"`
}

// Palette returns the display colours for the level.
func (l EfficiencyLevel) Palette() Palette {
	switch l {
	case LevelGood:
		return Palette{Primary: "#27AE60", Background: "#12783D"}
	case LevelWarning:
		return Palette{Primary: "#F39C12", Background: "#875A12"}
	case LevelCritical:
		return Palette{Primary: "#E74C3C", Background: "#781F16"}
	default:
		return Palette{Primary: "#CCCCCC", Background: "#666666"}
	}
}

// ColorName returns the level's colour name as shown in legends.
func (l EfficiencyLevel) ColorName() string {
	switch l {
	case LevelGood:
		return "green"
	case LevelWarning:
		return "orange"
	case LevelCritical:
		return "red"
	default:
		return "gray"
	}
}

// Thresholds are the lower bounds of the warning and critical levels.
type Thresholds struct {
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

// Metrics are the scalar indicators of a period.
type Metrics struct {
	HasData                bool            `json:"has_data"`
	SpeedAvg               float64         `json:"speed_avg"`
	DistanceEmpty          float64         `json:"distance_empty"`
	DistanceFull           float64         `json:"distance_full"`
	LoaderTimeAvg          float64         `json:"loader_time_avg"`
	TonPerShovelAvg        float64         `json:"ton_per_shovel_avg"`
	TonPerShovelEfficiency float64         `json:"ton_per_shovel_efficiency"`
	EfficiencyPercentage   float64         `json:"efficiency_percentage"`
	EfficiencyLevel        EfficiencyLevel `json:"efficiency_level"`
}

// MarshalJSON reports averages as null for a period without data.
func (m Metrics) MarshalJSON() ([]byte, error) {
	orNull := func(v float64) *float64 {
		if !m.HasData {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		HasData                bool            `json:"has_data"`
		SpeedAvg               *float64        `json:"speed_avg"`
		DistanceEmpty          *float64        `json:"distance_empty"`
		DistanceFull           *float64        `json:"distance_full"`
		LoaderTimeAvg          *float64        `json:"loader_time_avg"`
		TonPerShovelAvg        *float64        `json:"ton_per_shovel_avg"`
		TonPerShovelEfficiency *float64        `json:"ton_per_shovel_efficiency"`
		EfficiencyPercentage   *float64        `json:"efficiency_percentage"`
		EfficiencyLevel        EfficiencyLevel `json:"efficiency_level"`
		Palette                Palette         `json:"palette"`
	}{
		HasData:                m.HasData,
		SpeedAvg:               orNull(m.SpeedAvg),
		DistanceEmpty:          orNull(m.DistanceEmpty),
		DistanceFull:           orNull(m.DistanceFull),
		LoaderTimeAvg:          orNull(m.LoaderTimeAvg),
		TonPerShovelAvg:        orNull(m.TonPerShovelAvg),
		TonPerShovelEfficiency: orNull(m.TonPerShovelEfficiency),
		EfficiencyPercentage:   orNull(m.EfficiencyPercentage),
		EfficiencyLevel:        m.EfficiencyLevel,
		Palette:                m.EfficiencyLevel.Palette(),
	})
}

// Options tune the pipeline.
type Options struct {
	LoaderLabels     []string
	BaselineCapacity float64
	Thresholds       Thresholds
}

// DefaultOptions returns the stock station list, a 120 t baseline and the
// 0.2/0.4 thresholds.
func DefaultOptions() Options {
	return Options{
		LoaderLabels:     []string{"PH06", "PH48", "PH55", "PH58"},
		BaselineCapacity: 120,
		Thresholds:       Thresholds{Warning: 0.2, Critical: 0.4},
	}
}

// Dashboard bundles every table and indicator for one period.
type Dashboard struct {
	Period  Period                `json:"period"`
	Summary []DailyTruckSummary   `json:"summary"`
	Metrics Metrics               `json:"metrics"`
	Ranking []TruckRankingRow     `json:"ranking"`
	Loaders []LoaderEfficiencyRow `json:"loaders"`
}
