package report

import (
	"fmt"
	"hash/fnv"
	"slices"
	"sort"
)

// Dataset is an immutable snapshot of fetched records. Fetch actions build a
// new snapshot (replace or merge) instead of mutating a shared one, so every
// derived summary is a pure function of the snapshot it was given.
type Dataset struct {
	records []Record
	id      string
}

// NewDataset builds a snapshot from a record slice. The slice is copied.
func NewDataset(records []Record) Dataset {
	copied := make([]Record, len(records))
	copy(copied, records)
	return Dataset{records: copied, id: fingerprint(copied)}
}

// Merge returns a new snapshot containing this snapshot's records plus any
// incoming records whose ID is not already present. First occurrence wins.
func (d Dataset) Merge(incoming []Record) Dataset {
	seen := make(map[string]bool, len(d.records))
	merged := make([]Record, len(d.records), len(d.records)+len(incoming))
	copy(merged, d.records)
	for _, r := range d.records {
		seen[r.ID] = true
	}
	for _, r := range incoming {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		merged = append(merged, r)
	}
	return Dataset{records: merged, id: fingerprint(merged)}
}

// Records returns a copy of the snapshot's records.
func (d Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Len returns the number of records in the snapshot.
func (d Dataset) Len() int {
	return len(d.records)
}

// ID is a stable fingerprint of the snapshot, usable as a cache key.
func (d Dataset) ID() string {
	return d.id
}

// Weeks enumerates the ISO week buckets present in the snapshot, newest
// first.
func (d Dataset) Weeks() []YearWeek {
	seen := make(map[YearWeek]bool)
	var weeks []YearWeek
	for _, r := range d.records {
		w := r.Week()
		if !seen[w] {
			seen[w] = true
			weeks = append(weeks, w)
		}
	}
	SortWeeks(weeks)
	slices.Reverse(weeks)
	return weeks
}

// Months enumerates the calendar-month buckets present in the snapshot,
// newest first.
func (d Dataset) Months() []Month {
	seen := make(map[Month]bool)
	var months []Month
	for _, r := range d.records {
		m := r.Month()
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	SortMonths(months)
	slices.Reverse(months)
	return months
}

// Years enumerates the ISO years present in the snapshot, newest first.
func (d Dataset) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range d.records {
		y := r.Week().Year
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)
	slices.Reverse(years)
	return years
}

// InWeek returns the records whose end timestamp falls in the given ISO week.
func (d Dataset) InWeek(yw YearWeek) []Record {
	var out []Record
	for _, r := range d.records {
		if r.Week() == yw {
			out = append(out, r)
		}
	}
	return out
}

// InMonth returns the records whose end timestamp falls in the given month.
func (d Dataset) InMonth(m Month) []Record {
	var out []Record
	for _, r := range d.records {
		if r.Month() == m {
			out = append(out, r)
		}
	}
	return out
}

// InYear returns the records whose ISO week year matches.
func (d Dataset) InYear(year int) []Record {
	var out []Record
	for _, r := range d.records {
		if r.Week().Year == year {
			out = append(out, r)
		}
	}
	return out
}

func fingerprint(records []Record) string {
	h := fnv.New64a()
	for _, r := range records {
		h.Write([]byte(r.ID))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%d-%x", len(records), h.Sum64())
}
