package report

import (
	"sort"
	"strings"
)

// Inclusion statuses for the detailed activity view.
const (
	StatusExcludedType = "Excluded (not a contributing type)"
	StatusExempted     = "Excluded (exempted tag)"
	StatusCounted      = "Included in net count"
)

// DrillDownRow pairs a record with the reason it does or does not count
// toward the net total.
type DrillDownRow struct {
	Record Record
	Status string
}

// AssigneeOption pairs an assignee's folded key with its display casing, for
// the drill-down picker.
type AssigneeOption struct {
	Value   string
	Display string
}

// Assignees lists everyone with a record in the slice, sorted by display
// name.
func (e *Engine) Assignees(records []Record) []AssigneeOption {
	seen := make(map[string]bool)
	var opts []AssigneeOption
	for _, r := range records {
		if seen[r.Assignee] {
			continue
		}
		seen[r.Assignee] = true
		opts = append(opts, AssigneeOption{
			Value:   r.Assignee,
			Display: e.Roster.DisplayName(r.Assignee),
		})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Display < opts[j].Display })
	return opts
}

// DrillDown lists one assignee's records with their inclusion status. Rows
// group by status, then by record ID.
func (e *Engine) DrillDown(records []Record, assignee string) []DrillDownRow {
	fold := strings.ToLower(strings.TrimSpace(assignee))

	var rows []DrillDownRow
	for _, r := range records {
		if r.Assignee != fold {
			continue
		}
		status := StatusCounted
		switch {
		case !e.Classifier.IsContribution(r):
			status = StatusExcludedType
		case e.Classifier.IsExempt(r):
			status = StatusExempted
		}
		rows = append(rows, DrillDownRow{Record: r, Status: status})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Status != rows[j].Status {
			return rows[i].Status < rows[j].Status
		}
		return rows[i].Record.ID < rows[j].Record.ID
	})
	return rows
}
