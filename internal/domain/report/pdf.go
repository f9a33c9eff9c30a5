package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"timetrack/internal/apperror"
)

// RenderPDF lays out the admin report as a landscape A4 table.
func RenderPDF(r AdminReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(80, 10, "Time Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", r.From, r.To))
	pdf.Ln(10)

	headers := []string{"Employee", "Department", "Position", "Worked (h)", "Planned (h)", "Delta (min)", "Late", "Missing"}
	widths := []float64{60, 40, 40, 28, 28, 28, 18, 20}

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range r.Rows {
		cells := []string{
			row.FullName,
			row.Department,
			row.Position,
			fmt.Sprintf("%.2f", float64(row.WorkedSeconds)/3600),
			fmt.Sprintf("%.2f", float64(row.PlannedMinutes)/60),
			fmt.Sprintf("%d", row.DeltaMinutes),
			fmt.Sprintf("%d", row.LateDays),
			fmt.Sprintf("%d", row.MissingDays),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Total worked: %.2f h", float64(r.TotalWorkedSeconds)/3600))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperror.Internal("render report pdf", err)
	}
	return buf.Bytes(), nil
}
