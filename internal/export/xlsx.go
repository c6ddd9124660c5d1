// Package export writes task records to spreadsheet formats. Export
// carries the six fixed columns only; custom fields are not included.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sadopc/worklog/internal/task"
)

const sheetName = "Tasks"

var headers = []string{"Date", "Project", "Task Name", "Task Type", "Time Spent (hours)", "Notes"}

// columnWidths mirrors the reading width of each column's content.
var columnWidths = []float64{12, 20, 30, 15, 10, 40}

// ToXLSX writes records to an xlsx workbook with a single Tasks sheet.
func ToXLSX(records []task.Record, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{rec.Date, rec.Project, rec.TaskName, rec.TaskType, rec.TimeSpent, rec.Notes}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx file: %w", err)
	}
	return nil
}
