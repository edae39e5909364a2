package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// SaveXLSX exports the log as a workbook: a Summary sheet with the best trial
// and per-column statistics, and a Trials sheet with every logged row.
// Missing metric fields stay empty cells.
func SaveXLSX(l *Log, path string) error {
	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	f.SetCellValue(summary, "A1", "Log")
	f.SetCellValue(summary, "B1", l.Path)
	f.SetCellValue(summary, "A2", "Trials")
	f.SetCellValue(summary, "B2", len(l.Rows))

	row := 4
	if best, ok := l.Best(); ok {
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), "Best trial")
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), best+1)
		row++
		for j, name := range l.Columns {
			v := l.Rows[best][j]
			f.SetCellValue(summary, fmt.Sprintf("A%d", row), name)
			if !math.IsNaN(v) {
				f.SetCellValue(summary, fmt.Sprintf("B%d", row), v)
			}
			row++
		}
	}

	row++
	f.SetCellValue(summary, fmt.Sprintf("A%d", row), "Column")
	f.SetCellValue(summary, fmt.Sprintf("B%d", row), "Count")
	f.SetCellValue(summary, fmt.Sprintf("C%d", row), "Mean")
	f.SetCellValue(summary, fmt.Sprintf("D%d", row), "StdDev")
	f.SetCellValue(summary, fmt.Sprintf("E%d", row), "Min")
	f.SetCellValue(summary, fmt.Sprintf("F%d", row), "Max")
	f.SetCellValue(summary, fmt.Sprintf("G%d", row), "P95")
	row++
	for _, cs := range l.Stats() {
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), cs.Name)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), cs.Count)
		f.SetCellValue(summary, fmt.Sprintf("C%d", row), cs.Mean)
		f.SetCellValue(summary, fmt.Sprintf("D%d", row), cs.StdDev)
		f.SetCellValue(summary, fmt.Sprintf("E%d", row), cs.Min)
		f.SetCellValue(summary, fmt.Sprintf("F%d", row), cs.Max)
		f.SetCellValue(summary, fmt.Sprintf("G%d", row), cs.P95)
		row++
	}

	trials := "Trials"
	f.NewSheet(trials)
	for j, name := range l.Columns {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		f.SetCellValue(trials, cell, name)
	}
	for i, logRow := range l.Rows {
		for j, v := range logRow {
			if math.IsNaN(v) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(trials, cell, v)
		}
	}

	return f.SaveAs(path)
}
