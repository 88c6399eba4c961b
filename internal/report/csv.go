package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type CSVExporter struct {
	OutputDir string
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir}
}

// Export writes the weekly summary and the weekly/monthly pivots as plain
// CSV, for people who want the numbers without the workbook.
func (e *CSVExporter) Export(rep Report) error {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	if err := e.exportSummary(rep, timestamp); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	if err := e.exportPivot(rep.Weekly, fmt.Sprintf("dashboard_%s_weekly_pivot.csv", timestamp)); err != nil {
		return fmt.Errorf("failed to export weekly pivot: %w", err)
	}
	if err := e.exportPivot(rep.Monthly, fmt.Sprintf("dashboard_%s_monthly_pivot.csv", timestamp)); err != nil {
		return fmt.Errorf("failed to export monthly pivot: %w", err)
	}

	return nil
}

func (e *CSVExporter) exportSummary(rep Report, timestamp string) error {
	filename := filepath.Join(e.OutputDir, fmt.Sprintf("dashboard_%s_summary.csv", timestamp))
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Week:", rep.Week.String()}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Month:", rep.Month.Display()}); err != nil {
		return err
	}
	if err := writer.Write([]string{""}); err != nil {
		return err
	}

	header := []string{
		"Team Member",
		"Gross (Week)",
		"Exempted (Week)",
		"Net (Week)",
		fmt.Sprintf("Needed for Target (%d)", rep.Target),
		"Gross (Month)",
		"Exempted (Month)",
		"Net (Month)",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, weekRow := range rep.WeekSummary.Rows {
		monthRow := rep.MonthSummary.Rows[i]
		row := []string{
			weekRow.Member,
			strconv.Itoa(weekRow.Gross),
			strconv.Itoa(weekRow.Exempted),
			strconv.Itoa(weekRow.Net),
			strconv.Itoa(weekRow.Needed),
			strconv.Itoa(monthRow.Gross),
			strconv.Itoa(monthRow.Exempted),
			strconv.Itoa(monthRow.Net),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func (e *CSVExporter) exportPivot(m Matrix, name string) error {
	file, err := os.Create(filepath.Join(e.OutputDir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"Team Member"}, m.Buckets...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, member := range m.Members {
		row := make([]string, 0, len(m.Buckets)+1)
		row = append(row, member)
		for _, v := range m.Net[i] {
			row = append(row, strconv.Itoa(v))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
