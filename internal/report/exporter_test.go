package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	e := testEngine(15, "Jane Doe", "Raj Kumar")
	end := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	ds := NewDataset([]Record{
		testRecord("A", "jane doe", end),
		{ID: "B", Type: "WO", Assignee: "jane doe", Tags: "atc-mon", End: end},
		testRecord("C", "outsider", end),
	})
	return e.BuildReport(ds, WeekOf(end), MonthOf(end))
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	rep := sampleReport(t)

	var buf strings.Builder
	err := RenderHTML(&buf, HTMLData{Report: rep, ChartsLink: "charts.html"})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Team Performance")
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "2025-W29")
	assert.Contains(t, html, "July 2025")
	assert.Contains(t, html, `href="charts.html"`)
	assert.NotContains(t, html, "<select", "no pickers without week options")
	assert.Contains(t, html, "Full Team Contributions")
	assert.Contains(t, html, "Outsider", "whole-population table includes non-roster assignees")
	assert.NotContains(t, html, "Drill-Down", "drill-down is interactive only")
}

func TestRenderHTMLDrillDown(t *testing.T) {
	t.Parallel()

	rep := sampleReport(t)
	e := testEngine(15, "Jane Doe", "Raj Kumar")
	end := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	records := []Record{
		{ID: "A", Type: "WO", Assignee: "jane doe", Title: "Fix the thing", End: end},
		{ID: "B", Type: "WO", Assignee: "jane doe", Tags: "atc-mon", End: end},
	}

	var buf strings.Builder
	err := RenderHTML(&buf, HTMLData{
		Report:      rep,
		Weeks:       []string{"2025-W29"},
		Months:      []string{"2025-07"},
		Assignees:   e.Assignees(records),
		DrillMember: "jane doe",
		DrillRows:   e.DrillDown(records, "jane doe"),
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Detailed Activity Drill-Down")
	assert.Contains(t, html, `<option value="jane doe" selected>`)
	assert.Contains(t, html, "Fix the thing")
	assert.Contains(t, html, StatusCounted)
	assert.Contains(t, html, StatusExempted)
}

func TestRenderHTMLWithPickers(t *testing.T) {
	t.Parallel()

	rep := sampleReport(t)

	var buf strings.Builder
	err := RenderHTML(&buf, HTMLData{
		Report: rep,
		Weeks:  []string{"2025-W29", "2025-W28"},
		Months: []string{"2025-07"},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `<option value="2025-W29" selected>`)
	assert.Contains(t, html, `<option value="2025-W28">`)
	assert.Contains(t, html, `action="/refresh"`)
}

func TestExportJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rep := sampleReport(t)

	require.NoError(t, NewExporter(dir).ExportJSON(rep, "out.json"))

	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.Target, decoded.Target)
	assert.Equal(t, rep.Week, decoded.Week)
	assert.Len(t, decoded.WeekSummary.Rows, 2)
}

func TestExportCharts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, NewExporter(dir).ExportCharts(sampleReport(t), "charts.html"))

	data, err := os.ReadFile(filepath.Join(dir, "charts.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "echarts")
	assert.Contains(t, string(data), "Jane Doe")
}

func TestCSVExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, NewCSVExporter(dir).Export(sampleReport(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var summary string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), "_summary.csv") {
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			require.NoError(t, err)
			summary = string(data)
		}
	}
	require.NotEmpty(t, summary, "summary CSV missing")
	assert.Contains(t, summary, "Week:,2025-W29")
	assert.Contains(t, summary, "Jane Doe")
	assert.Contains(t, summary, "Needed for Target (15)")
}

func TestExcelExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, NewExcelExporter(dir).Export(sampleReport(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".xlsx"))

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
