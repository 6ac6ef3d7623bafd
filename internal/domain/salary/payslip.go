package salary

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// RenderPayslip writes an A4 payslip PDF for one record. ownerName and
// currency come from the profile and may be empty.
func RenderPayslip(w io.Writer, rec Record, ownerName, currency string) error {
	if currency == "" {
		currency = "INR"
	}
	period := fmt.Sprintf("%s %d", time.Month(rec.Month).String(), rec.Year)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	if ownerName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Name: %s", ownerName))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Organization: %s", rec.Organization))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s (%s)", period, FinancialYearLabel(rec.Month, rec.Year)))
	pdf.Ln(10)

	writeItemTable(pdf, "Earnings", rec.Earnings, currency)
	writeItemTable(pdf, "Deductions", rec.Deductions, currency)

	pdf.SetFont("Helvetica", "B", 12)
	writeAmountRow(pdf, "Total Earnings", rec.TotalEarnings, currency)
	writeAmountRow(pdf, "Total Deductions", rec.TotalDeductions, currency)
	writeAmountRow(pdf, "Net Pay", rec.NetSalary, currency)

	return pdf.Output(w)
}

func writeItemTable(pdf *gofpdf.Fpdf, title string, items []LineItem, currency string) {
	if len(items) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range items {
		pdf.CellFormat(120, 7, item.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%s %s", item.Amount.StringFixed(2), currency), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
}

func writeAmountRow(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal, currency string) {
	pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, fmt.Sprintf("%s %s", amount.StringFixed(2), currency), "", 1, "R", false, 0, "")
}
