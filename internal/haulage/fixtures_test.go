package haulage

import "time"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cycle(truck string, date time.Time, loader string, ton float64, shovels int) RawRecord {
	return RawRecord{
		Truck:            truck,
		Date:             date,
		Loader:           loader,
		Ton:              ton,
		NShovel:          shovels,
		DistanceEmpty:    2,
		DistanceFull:     3,
		TruckTotalCycle:  1800,
		LoaderTotalCycle: 120,
		Speed:            25,
	}
}
