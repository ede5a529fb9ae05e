package dataset

import (
	"time"

	"github.com/google/uuid"

	"haulpulse/internal/haulage"
)

// Dataset is an immutable snapshot of haulage records. Every accessor hands
// out copies, so concurrent readers never observe each other.
type Dataset struct {
	id       string
	source   string
	loadedAt time.Time
	records  []haulage.RawRecord
	first    time.Time
	last     time.Time
}

// Info describes a loaded dataset.
type Info struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  int       `json:"records"`
	FirstDay string    `json:"first_day,omitempty"`
	LastDay  string    `json:"last_day,omitempty"`
}

// New snapshots records. The slice is copied.
func New(source string, records []haulage.RawRecord) *Dataset {
	d := &Dataset{
		id:       uuid.NewString(),
		source:   source,
		loadedAt: time.Now().UTC(),
		records:  append([]haulage.RawRecord(nil), records...),
	}
	for i, r := range d.records {
		if i == 0 || r.Date.Before(d.first) {
			d.first = r.Date
		}
		if i == 0 || r.Date.After(d.last) {
			d.last = r.Date
		}
	}
	return d
}

// Records returns a copy of the records.
func (d *Dataset) Records() []haulage.RawRecord {
	return append([]haulage.RawRecord(nil), d.records...)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// ID returns the snapshot identifier assigned at load time.
func (d *Dataset) ID() string {
	return d.id
}

// Source returns the path the dataset was read from.
func (d *Dataset) Source() string {
	return d.source
}

// DateRange returns the earliest and latest record dates.
func (d *Dataset) DateRange() (first, last time.Time) {
	return d.first, d.last
}

// Info summarizes the dataset for health and metadata endpoints.
func (d *Dataset) Info() Info {
	info := Info{
		ID:       d.id,
		Source:   d.source,
		LoadedAt: d.loadedAt,
		Records:  len(d.records),
	}
	if len(d.records) > 0 {
		info.FirstDay = d.first.Format(haulage.DateLayout)
		info.LastDay = d.last.Format(haulage.DateLayout)
	}
	return info
}
