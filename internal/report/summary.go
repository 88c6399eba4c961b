package report

import (
	"sort"
	"strconv"
	"strings"
)

// Counts holds the contribution tallies for one group. Exempted is a subset
// of Gross by construction, so Net is never negative.
type Counts struct {
	Gross    int
	Exempted int
	Net      int
}

func (c *Counts) add(cls Classifier, r Record) {
	if !cls.IsContribution(r) {
		return
	}
	c.Gross++
	if cls.IsExempt(r) {
		c.Exempted++
	} else {
		c.Net++
	}
}

// MemberSummary is one roster member's tallies for a slice of records, plus
// the shortfall against the individual target.
type MemberSummary struct {
	Member string
	Counts
	Needed int
}

// Summary is the roster join of an aggregation pass: exactly one row per
// canonical roster member (zero-filled when absent), with non-roster
// assignees tallied separately so whole-population totals stay available.
type Summary struct {
	Rows   []MemberSummary
	Others Counts
}

// RosterNet sums the net contributions of the roster rows.
func (s Summary) RosterNet() int {
	total := 0
	for _, row := range s.Rows {
		total += row.Net
	}
	return total
}

// TotalNet is the whole-population net count, roster and non-roster alike.
func (s Summary) TotalNet() int {
	return s.RosterNet() + s.Others.Net
}

// Engine aggregates classified records against a roster. It holds no mutable
// state: every method is a pure function of its inputs.
type Engine struct {
	Classifier Classifier
	Roster     *Roster
	Target     int
}

// NewEngine wires a classifier, a roster, and the individual target.
func NewEngine(cls Classifier, roster *Roster, target int) *Engine {
	return &Engine{Classifier: cls, Roster: roster, Target: target}
}

// Summarize groups the records by person and joins the result onto the
// roster. Members with no matching records appear with zero counts.
func (e *Engine) Summarize(records []Record) Summary {
	byMember := make(map[string]*Counts)
	var others Counts
	for _, r := range records {
		if !e.Roster.Contains(r.Assignee) {
			others.add(e.Classifier, r)
			continue
		}
		c := byMember[r.Assignee]
		if c == nil {
			c = &Counts{}
			byMember[r.Assignee] = c
		}
		c.add(e.Classifier, r)
	}

	summary := Summary{Others: others}
	for _, member := range e.Roster.Members() {
		row := MemberSummary{Member: member}
		if c := byMember[strings.ToLower(member)]; c != nil {
			row.Counts = *c
		}
		row.Needed = e.NeededForTarget(row.Net)
		summary.Rows = append(summary.Rows, row)
	}
	return summary
}

// SummarizeWeek aggregates the snapshot's records for one ISO week.
func (e *Engine) SummarizeWeek(ds Dataset, yw YearWeek) Summary {
	return e.Summarize(ds.InWeek(yw))
}

// SummarizeMonth aggregates the snapshot's records for one calendar month.
func (e *Engine) SummarizeMonth(ds Dataset, m Month) Summary {
	return e.Summarize(ds.InMonth(m))
}

// SummarizeYear aggregates the snapshot's records for one ISO year.
func (e *Engine) SummarizeYear(ds Dataset, year int) Summary {
	return e.Summarize(ds.InYear(year))
}

// TopContributor returns the roster member with the highest net count in the
// summary. Ties keep the first-encountered row. The second return is false
// when no member has a positive net count.
func (e *Engine) TopContributor(s Summary) (MemberSummary, bool) {
	best := MemberSummary{}
	found := false
	for _, row := range s.Rows {
		if row.Net > best.Net {
			best = row
			found = true
		}
	}
	return best, found
}

// NeededForTarget is the shortfall against the individual target, clipped at
// zero.
func (e *Engine) NeededForTarget(net int) int {
	if n := e.Target - net; n > 0 {
		return n
	}
	return 0
}

// TotalNet counts the net contributions across all records regardless of
// roster membership.
func (e *Engine) TotalNet(records []Record) int {
	total := 0
	for _, r := range records {
		if e.Classifier.CountsNet(r) {
			total++
		}
	}
	return total
}

// AssigneeSummary is one assignee's tallies in the whole-population view.
type AssigneeSummary struct {
	Name string
	Counts
}

// AllTeams tallies contributing records for every assignee in the slice,
// roster member or not. Display casing comes from the roster, with title-case
// fallback for unknown names. Assignees with no contributing records do not
// appear. Rows sort by net descending, ties by name.
func (e *Engine) AllTeams(records []Record) []AssigneeSummary {
	byAssignee := make(map[string]*Counts)
	for _, r := range records {
		if !e.Classifier.IsContribution(r) {
			continue
		}
		c := byAssignee[r.Assignee]
		if c == nil {
			c = &Counts{}
			byAssignee[r.Assignee] = c
		}
		c.add(e.Classifier, r)
	}

	rows := make([]AssigneeSummary, 0, len(byAssignee))
	for assignee, c := range byAssignee {
		rows = append(rows, AssigneeSummary{Name: e.Roster.DisplayName(assignee), Counts: *c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Net != rows[j].Net {
			return rows[i].Net > rows[j].Net
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// Share is the roster's percentage of the whole-population net count. It is
// zero when the population total is zero.
func Share(rosterNet, totalNet int) float64 {
	if totalNet <= 0 {
		return 0
	}
	return float64(rosterNet) / float64(totalNet) * 100
}

// Matrix is a member-by-bucket pivot of net contribution counts. Buckets are
// ordered chronologically, oldest first.
type Matrix struct {
	Members []string
	Buckets []string
	Net     [][]int
}

// WeeklyMatrix pivots the snapshot into roster members by ISO week.
func (e *Engine) WeeklyMatrix(ds Dataset) Matrix {
	weeks := ds.Weeks()
	SortWeeks(weeks)
	labels := make([]string, len(weeks))
	slices := make([][]Record, len(weeks))
	for i, w := range weeks {
		labels[i] = w.String()
		slices[i] = ds.InWeek(w)
	}
	return e.pivot(labels, slices)
}

// MonthlyMatrix pivots the snapshot into roster members by calendar month.
func (e *Engine) MonthlyMatrix(ds Dataset) Matrix {
	months := ds.Months()
	SortMonths(months)
	labels := make([]string, len(months))
	slices := make([][]Record, len(months))
	for i, m := range months {
		labels[i] = m.String()
		slices[i] = ds.InMonth(m)
	}
	return e.pivot(labels, slices)
}

// YearlyMatrix pivots the snapshot into roster members by ISO year.
func (e *Engine) YearlyMatrix(ds Dataset) Matrix {
	years := ds.Years()
	sort.Ints(years)
	labels := make([]string, len(years))
	slices := make([][]Record, len(years))
	for i, y := range years {
		labels[i] = strconv.Itoa(y)
		slices[i] = ds.InYear(y)
	}
	return e.pivot(labels, slices)
}

func (e *Engine) pivot(labels []string, slices [][]Record) Matrix {
	m := Matrix{
		Members: e.Roster.Members(),
		Buckets: labels,
	}
	m.Net = make([][]int, len(m.Members))
	for i := range m.Net {
		m.Net[i] = make([]int, len(labels))
	}
	for col, records := range slices {
		summary := e.Summarize(records)
		for row := range summary.Rows {
			m.Net[row][col] = summary.Rows[row].Net
		}
	}
	return m
}
