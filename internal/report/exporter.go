package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

//go:embed "templates"
var templateFS embed.FS

// HTMLData feeds the dashboard template. Weeks and Months, when set, render
// the interactive period pickers; Assignees and the drill fields render the
// per-member activity drill-down. File exports leave all of them empty.
type HTMLData struct {
	Report     Report
	ChartsLink string
	Weeks      []string
	Months     []string

	Assignees   []AssigneeOption
	DrillMember string
	DrillRows   []DrillDownRow
}

// RenderHTML writes the dashboard page for the given data.
func RenderHTML(w io.Writer, data HTMLData) error {
	funcMap := template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	}
	tmpl, err := template.New("dashboard.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/dashboard.tmpl")
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}

type Exporter struct {
	OutputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

// ExportJSON writes the derived report as indented JSON.
func (e *Exporter) ExportJSON(rep Report, filename string) error {
	data, err := json.MarshalIndent(rep, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.OutputDir, filename), data, 0644)
}

// ExportHTML renders the summary tables page. chartsFile, when non-empty, is
// the relative name of a companion charts page to link to.
func (e *Exporter) ExportHTML(rep Report, filename, chartsFile string) error {
	f, err := os.Create(filepath.Join(e.OutputDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	return RenderHTML(f, HTMLData{Report: rep, ChartsLink: chartsFile})
}

// ExportCharts renders the go-echarts page for the report.
func (e *Exporter) ExportCharts(rep Report, filename string) error {
	f, err := os.Create(filepath.Join(e.OutputDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create charts file: %w", err)
	}
	defer f.Close()

	if err := ChartsPage(rep).Render(f); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}
