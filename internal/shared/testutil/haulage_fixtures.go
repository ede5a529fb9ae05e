package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"haulpulse/internal/dataset"
	"haulpulse/internal/haulage"
)

// Trucks and loaders used by the sample dataset.
const (
	TruckA = "CAT-793-01"
	TruckB = "CAT-793-02"
	TruckC = "KOM-930-03"

	LoaderPH06 = "PH06"
	LoaderPH48 = "PH48"
	LoaderPH55 = "PH55"
	LoaderOut  = "CF01"
)

// Day returns midnight UTC of the given date.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Cycle builds a haul cycle with plausible distances and cycle times.
func Cycle(truck string, date time.Time, loader string, ton float64, shovels int) haulage.RawRecord {
	return haulage.RawRecord{
		Truck:            truck,
		Date:             date,
		Loader:           loader,
		Ton:              ton,
		NShovel:          shovels,
		DistanceEmpty:    2.5,
		DistanceFull:     3.5,
		TruckTotalCycle:  1800,
		LoaderTotalCycle: 150,
		Speed:            24,
	}
}

// SampleRecords returns a small dataset spanning February and March 2024.
// March is the latest month, so it is the default period.
func SampleRecords() []haulage.RawRecord {
	return []haulage.RawRecord{
		Cycle(TruckA, Day(2024, time.February, 27), LoaderPH06, 220, 4),
		Cycle(TruckB, Day(2024, time.February, 27), LoaderPH48, 210, 4),

		Cycle(TruckA, Day(2024, time.March, 1), LoaderPH06, 230, 4),
		Cycle(TruckA, Day(2024, time.March, 1), LoaderPH55, 225, 5),
		Cycle(TruckB, Day(2024, time.March, 1), LoaderPH48, 240, 4),
		Cycle(TruckC, Day(2024, time.March, 1), LoaderOut, 180, 3),
		Cycle(TruckA, Day(2024, time.March, 2), LoaderPH06, 235, 4),
		Cycle(TruckC, Day(2024, time.March, 2), LoaderPH55, 190, 2),
	}
}

// NewTestDataset wraps SampleRecords in a dataset snapshot.
func NewTestDataset(t testing.TB) *dataset.Dataset {
	t.Helper()
	return dataset.New("testdata/trips.csv", SampleRecords())
}

// WriteDatasetCSV writes records as a dataset CSV in a temp dir and returns
// its path.
func WriteDatasetCSV(t testing.TB, records []haulage.RawRecord) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trips.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create dataset fixture: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, dataset.RequiredColumns)
	for _, r := range records {
		rows = append(rows, []string{
			r.Truck,
			r.Date.Format(haulage.DateLayout),
			r.Loader,
			formatFloat(r.Ton),
			strconv.Itoa(r.NShovel),
			formatFloat(r.DistanceEmpty),
			formatFloat(r.DistanceFull),
			formatFloat(r.TruckTotalCycle),
			formatFloat(r.LoaderTotalCycle),
			formatFloat(r.Speed),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write dataset fixture: %v", err)
	}
	return path
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
