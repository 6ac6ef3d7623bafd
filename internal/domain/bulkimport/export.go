package bulkimport

import (
	"fmt"

	"paytrack/internal/domain/orgs"
	"paytrack/internal/domain/salary"
	"paytrack/internal/platform/workbook"
)

var monthLabels = [12]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

func monthLabel(month, year int) string {
	return fmt.Sprintf("%s %d", monthLabels[month-1], year)
}

// BuildWorkbook lays out records for export: one sheet per organization,
// categories as columns. Template order drives the column order, any extra
// categories found on records follow by first appearance. Records must
// already be in chronological order. A file written from this layout parses
// back into the same records.
func BuildWorkbook(records []salary.Record, templates map[string]orgs.Template) []workbook.WriteSheet {
	var organizations []string
	grouped := make(map[string][]salary.Record)
	for _, rec := range records {
		if _, ok := grouped[rec.Organization]; !ok {
			organizations = append(organizations, rec.Organization)
		}
		grouped[rec.Organization] = append(grouped[rec.Organization], rec)
	}

	var sheets []workbook.WriteSheet
	for _, organization := range organizations {
		orgRecords := grouped[organization]
		earningCols, deductionCols := exportColumns(orgRecords, templates[organization])

		headers := make([]string, 0, len(earningCols)+len(deductionCols)+4)
		headers = append(headers, "Month Year")
		headers = append(headers, earningCols...)
		headers = append(headers, deductionCols...)
		headers = append(headers, "Total Earnings", "Total Deductions", "Net Pay")

		rows := make([]map[string]any, 0, len(orgRecords))
		for _, rec := range orgRecords {
			row := map[string]any{
				"Month Year":       monthLabel(rec.Month, rec.Year),
				"Total Earnings":   rec.TotalEarnings.InexactFloat64(),
				"Total Deductions": rec.TotalDeductions.InexactFloat64(),
				"Net Pay":          rec.NetSalary.InexactFloat64(),
			}
			for _, item := range rec.Earnings {
				row[item.Category] = item.Amount.InexactFloat64()
			}
			for _, item := range rec.Deductions {
				row[item.Category] = item.Amount.InexactFloat64()
			}
			rows = append(rows, row)
		}

		sheets = append(sheets, workbook.WriteSheet{Name: organization, Headers: headers, Rows: rows})
	}
	return sheets
}

// exportColumns resolves the category column order for one organization:
// the saved template's lists first, then whatever else the records mention.
func exportColumns(records []salary.Record, tpl orgs.Template) (earnings, deductions []string) {
	earnings = append(earnings, tpl.EarningCategories...)
	deductions = append(deductions, tpl.DeductionCategories...)
	for _, rec := range records {
		for _, item := range rec.Earnings {
			earnings = append(earnings, item.Category)
		}
		for _, item := range rec.Deductions {
			deductions = append(deductions, item.Category)
		}
	}
	return orgs.NormalizeCategories(earnings), orgs.NormalizeCategories(deductions)
}
