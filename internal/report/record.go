package report

import (
	"context"
	"time"
)

// UnassignedMember is the sentinel assignee for records the upstream system
// reports without an owner.
const UnassignedMember = "unassigned"

// Record is one reported unit of work from the team activity feed. Assignee
// and Tags are folded to lower case at parse time; everything else is kept as
// the upstream sent it. Records are immutable once parsed.
type Record struct {
	ID        string
	Type      string
	Severity  string
	Assignee  string
	Location  string
	Transfers int
	Tags      string
	Start     time.Time
	End       time.Time
	Duration  string
	Title     string
	Entities  [3]Entity
}

// Entity is one of the up-to-three (code, name) pairs attached to a record.
type Entity struct {
	Code string
	Name string
}

// Week returns the ISO year-week bucket of the record, keyed off the end
// timestamp.
func (r Record) Week() YearWeek {
	return WeekOf(r.End)
}

// Month returns the calendar-month bucket of the record, keyed off the end
// timestamp.
func (r Record) Month() Month {
	return MonthOf(r.End)
}

// RecordSource fetches activity records one (year, month) unit at a time.
type RecordSource interface {
	Name() string
	FetchRecords(ctx context.Context, year int, month time.Month) ([]Record, error)
	HealthCheck() error
}
