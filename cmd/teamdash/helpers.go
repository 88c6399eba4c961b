package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"

	"github.com/Afrawles/teamdash/internal/report"
)

// parseCommaList splits a comma-separated string and trims whitespace.
func parseCommaList(input string) []string {
	if input == "" {
		return nil
	}

	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}

// printSummaryTable renders the weekly target analysis to the terminal.
func printSummaryTable(rep report.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Target Analysis - Week %s", rep.Week))
	t.AppendHeader(table.Row{"Team Member", "Gross", "Exempted", "Net", fmt.Sprintf("Needed (%d)", rep.Target)})

	for _, row := range rep.WeekSummary.Rows {
		t.AppendRow(table.Row{row.Member, row.Gross, row.Exempted, row.Net, row.Needed})
	}
	t.AppendFooter(table.Row{"Roster Net", "", "", rep.WeekSummary.RosterNet(), ""})
	t.Render()

	if rep.TopWeek != nil {
		fmt.Printf("\nTop contributor of the week: %s (%d net)\n", rep.TopWeek.Member, rep.TopWeek.Net)
	}
	if rep.TopMonth != nil {
		fmt.Printf("Top contributor for %s: %s (%d net)\n", rep.Month.Display(), rep.TopMonth.Member, rep.TopMonth.Net)
	}
	fmt.Printf("Roster share: %.1f%% (week), %.1f%% (%s)\n", rep.WeekShare, rep.MonthShare, rep.Month.Display())
}
