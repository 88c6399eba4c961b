package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

// Export writes one workbook: a Summary sheet for the report's selected week
// and month, plus Weekly and Monthly pivot sheets over the whole snapshot.
func (e *ExcelExporter) Export(rep Report) error {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(e.OutputDir, fmt.Sprintf("dashboard_%s.xlsx", timestamp))

	f := excelize.NewFile()
	defer f.Close()

	if err := e.createSummarySheet(f, "Summary", rep); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := e.createPivotSheet(f, "Weekly Pivot", rep.Weekly); err != nil {
		return fmt.Errorf("failed to create weekly pivot: %w", err)
	}
	if err := e.createPivotSheet(f, "Monthly Pivot", rep.Monthly); err != nil {
		return fmt.Errorf("failed to create monthly pivot: %w", err)
	}
	if err := e.createPivotSheet(f, "Yearly Pivot", rep.Yearly); err != nil {
		return fmt.Errorf("failed to create yearly pivot: %w", err)
	}

	// the default sheet is not part of the report
	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}

	return nil
}

func (e *ExcelExporter) createSummarySheet(f *excelize.File, sheetName string, rep Report) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	totalStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#B4C7E7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, "A1", "Week:")
	f.SetCellValue(sheetName, "B1", rep.Week.String())
	f.SetCellValue(sheetName, "A2", "Month:")
	f.SetCellValue(sheetName, "B2", rep.Month.Display())
	f.SetCellValue(sheetName, "A3", "Roster Share (Week):")
	f.SetCellValue(sheetName, "B3", fmt.Sprintf("%.1f%%", rep.WeekShare))

	headers := []string{
		"Team Member",
		"Gross (Week)",
		"Exempted (Week)",
		"Net (Week)",
		fmt.Sprintf("Needed for Target (%d)", rep.Target),
		"Gross (Month)",
		"Exempted (Month)",
		"Net (Month)",
	}

	row := 5
	for col, header := range headers {
		cell := cellName(col+1, row)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var weekTotal, monthTotal Counts
	for i, weekRow := range rep.WeekSummary.Rows {
		monthRow := rep.MonthSummary.Rows[i]
		row++
		f.SetCellValue(sheetName, cellName(1, row), weekRow.Member)
		f.SetCellValue(sheetName, cellName(2, row), weekRow.Gross)
		f.SetCellValue(sheetName, cellName(3, row), weekRow.Exempted)
		f.SetCellValue(sheetName, cellName(4, row), weekRow.Net)
		f.SetCellValue(sheetName, cellName(5, row), weekRow.Needed)
		f.SetCellValue(sheetName, cellName(6, row), monthRow.Gross)
		f.SetCellValue(sheetName, cellName(7, row), monthRow.Exempted)
		f.SetCellValue(sheetName, cellName(8, row), monthRow.Net)

		weekTotal.Gross += weekRow.Gross
		weekTotal.Exempted += weekRow.Exempted
		weekTotal.Net += weekRow.Net
		monthTotal.Gross += monthRow.Gross
		monthTotal.Exempted += monthRow.Exempted
		monthTotal.Net += monthRow.Net
	}

	row++
	f.SetCellValue(sheetName, cellName(1, row), "Total")
	f.SetCellValue(sheetName, cellName(2, row), weekTotal.Gross)
	f.SetCellValue(sheetName, cellName(3, row), weekTotal.Exempted)
	f.SetCellValue(sheetName, cellName(4, row), weekTotal.Net)
	f.SetCellValue(sheetName, cellName(6, row), monthTotal.Gross)
	f.SetCellValue(sheetName, cellName(7, row), monthTotal.Exempted)
	f.SetCellValue(sheetName, cellName(8, row), monthTotal.Net)
	f.SetCellStyle(sheetName, cellName(1, row), cellName(8, row), totalStyle)

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "H", 16)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      5,
		TopLeftCell: "A6",
		ActivePane:  "bottomLeft",
	})

	return nil
}

func (e *ExcelExporter) createPivotSheet(f *excelize.File, sheetName string, m Matrix) error {
	sheetName = sanitizeSheetName(sheetName)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	cell := cellName(1, 1)
	f.SetCellValue(sheetName, cell, "Team Member")
	f.SetCellStyle(sheetName, cell, cell, headerStyle)
	for col, bucket := range m.Buckets {
		cell := cellName(col+2, 1)
		f.SetCellValue(sheetName, cell, bucket)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, member := range m.Members {
		row := i + 2
		f.SetCellValue(sheetName, cellName(1, row), member)
		for j, v := range m.Net[i] {
			f.SetCellValue(sheetName, cellName(j+2, row), v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	for i := 2; i <= len(m.Buckets)+1; i++ {
		f.SetColWidth(sheetName, columnLetter(i), columnLetter(i), 12)
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})

	return nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "?", "")
	name = strings.ReplaceAll(name, "*", "")
	name = strings.ReplaceAll(name, "[", "(")
	name = strings.ReplaceAll(name, "]", ")")

	if len(name) > 31 {
		name = name[:31]
	}

	return name
}
