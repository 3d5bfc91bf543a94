// Package payslip renders a normalized salary statement as a PDF document.
// It is pure formatting over already-parsed records; it never fetches.
package payslip

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"portal/internal/domain/employee"
)

// Render writes an A4 payslip for one statement to w.
func Render(w io.Writer, profile employee.Profile, statement employee.SalaryStatement) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Salary Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", profile.Name, profile.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Job: %s", profile.Job))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %s", statement.Month, statement.Year))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(100, 8, "Item")
	pdf.Cell(0, 8, "Value")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 12)
	for _, item := range statement.Details {
		pdf.Cell(100, 8, item.Label)
		pdf.Cell(0, 8, item.Value)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(100, 8, "Net Salary")
	pdf.Cell(0, 8, statement.NetSalary)

	return pdf.Output(w)
}
