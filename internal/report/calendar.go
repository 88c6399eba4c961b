package report

import (
	"fmt"
	"sort"
	"time"
)

// YearWeek is an ISO-8601 week bucket. The year is the ISO week-numbering
// year, which can differ from the calendar year of the days in the week.
type YearWeek struct {
	Year int
	Week int
}

// WeekOf buckets a timestamp into its ISO year-week.
func WeekOf(t time.Time) YearWeek {
	year, week := t.UTC().ISOWeek()
	return YearWeek{Year: year, Week: week}
}

// String renders the bucket as "2025-W07". The week number is zero-padded so
// labels within one year sort naturally.
func (yw YearWeek) String() string {
	return fmt.Sprintf("%d-W%02d", yw.Year, yw.Week)
}

// Monday returns the Monday (ISO weekday 1) of the week, at midnight UTC.
// Chronological ordering of week buckets must compare Mondays: string order
// breaks across year boundaries.
func (yw YearWeek) Monday() time.Time {
	// January 4 always falls in ISO week 1.
	jan4 := time.Date(yw.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-wd)
	return week1Monday.AddDate(0, 0, (yw.Week-1)*7)
}

// Before reports whether yw is chronologically earlier than other.
func (yw YearWeek) Before(other YearWeek) bool {
	return yw.Monday().Before(other.Monday())
}

// ParseYearWeek parses a "2025-W07" label.
func ParseYearWeek(s string) (YearWeek, error) {
	var yw YearWeek
	if _, err := fmt.Sscanf(s, "%d-W%d", &yw.Year, &yw.Week); err != nil {
		return YearWeek{}, fmt.Errorf("invalid year-week %q: %w", s, err)
	}
	if yw.Week < 1 || yw.Week > 53 {
		return YearWeek{}, fmt.Errorf("invalid year-week %q: week out of range", s)
	}
	return yw, nil
}

// SortWeeks orders week buckets chronologically, oldest first.
func SortWeeks(weeks []YearWeek) {
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
}

// Month is a calendar-month bucket.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf buckets a timestamp into its calendar month.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// String renders the bucket as "2025-07".
func (m Month) String() string {
	return fmt.Sprintf("%d-%02d", m.Year, int(m.Month))
}

// Display renders the bucket as "July 2025".
func (m Month) Display() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether m is chronologically earlier than other.
func (m Month) Before(other Month) bool {
	return m.Time().Before(other.Time())
}

// ParseMonth parses a "2025-07" label.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// SortMonths orders month buckets chronologically, oldest first.
func SortMonths(months []Month) {
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
}
