package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"timetrack/internal/apperror"
)

// RenderXLSX writes the admin report as a single-sheet workbook.
func RenderXLSX(r AdminReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	f.SetSheetName("Sheet1", sheet)

	header := []any{"Employee", "Department", "Position", "Worked seconds", "Planned minutes", "Delta minutes", "Late days", "Missing days"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, apperror.Internal("render report xlsx", err)
	}

	for i, row := range r.Rows {
		values := []any{
			row.FullName,
			row.Department,
			row.Position,
			row.WorkedSeconds,
			row.PlannedMinutes,
			row.DeltaMinutes,
			row.LateDays,
			row.MissingDays,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, apperror.Internal("render report xlsx", err)
		}
	}

	totals := []any{"Total", "", "", r.TotalWorkedSeconds}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", len(r.Rows)+2), &totals); err != nil {
		return nil, apperror.Internal("render report xlsx", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.Internal("render report xlsx", err)
	}
	return buf.Bytes(), nil
}
