package report

import "time"

// Report bundles one week's and one month's derived views over a snapshot,
// ready for rendering. It is recomputed on demand and never stored.
type Report struct {
	GeneratedAt time.Time

	Week         YearWeek
	Month        Month
	WeekSummary  Summary
	MonthSummary Summary

	// Share of the roster's net count against the whole population, in
	// percent, for the selected week and month.
	WeekShare  float64
	MonthShare float64

	TopWeek  *MemberSummary
	TopMonth *MemberSummary

	// Whole-population contribution table for the selected week, every
	// assignee with a contributing record, sorted by net descending.
	AllTeams []AssigneeSummary

	Weekly  Matrix
	Monthly Matrix
	Yearly  Matrix

	Target       int
	TotalRecords int
}

// BuildReport derives the full report for the selected week and month.
func (e *Engine) BuildReport(ds Dataset, yw YearWeek, m Month) Report {
	weekRecords := ds.InWeek(yw)
	monthRecords := ds.InMonth(m)
	weekSummary := e.Summarize(weekRecords)
	monthSummary := e.Summarize(monthRecords)

	rep := Report{
		GeneratedAt:  time.Now().UTC(),
		Week:         yw,
		Month:        m,
		WeekSummary:  weekSummary,
		MonthSummary: monthSummary,
		AllTeams:     e.AllTeams(weekRecords),
		WeekShare:    Share(weekSummary.RosterNet(), e.TotalNet(weekRecords)),
		MonthShare:   Share(monthSummary.RosterNet(), e.TotalNet(monthRecords)),
		Weekly:       e.WeeklyMatrix(ds),
		Monthly:      e.MonthlyMatrix(ds),
		Yearly:       e.YearlyMatrix(ds),
		Target:       e.Target,
		TotalRecords: ds.Len(),
	}

	if top, ok := e.TopContributor(weekSummary); ok {
		rep.TopWeek = &top
	}
	if top, ok := e.TopContributor(monthSummary); ok {
		rep.TopMonth = &top
	}
	return rep
}
