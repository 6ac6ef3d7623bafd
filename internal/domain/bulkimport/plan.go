package bulkimport

import (
	"fmt"

	"paytrack/internal/domain/orgs"
	"paytrack/internal/platform/workbook"
)

// BuildPlan turns a decoded workbook into an ImportPlan without touching
// storage. templates carries the user's saved organization templates, keyed
// by name, so their category lists join the shipped registry lists during
// classification.
func BuildPlan(sheets []workbook.Sheet, templates map[string]orgs.Template) ImportPlan {
	var plan ImportPlan
	for _, sheet := range sheets {
		earnings, deductions, keywords := categoriesFor(sheet.Name, templates)
		monthYearHeader := monthYearColumn(sheet.Headers)
		reserved := reservedSet(monthYearHeader)

		sheetPlan := SheetPlan{SheetName: sheet.Name}
		for i, row := range sheet.Rows {
			rowNumber := i + 2
			rec, invalid := parseRow(sheet.Name, sheet.Headers, row, rowNumber,
				monthYearHeader, reserved, earnings, deductions, keywords)
			if invalid != nil {
				sheetPlan.SkippedRows++
				plan.InvalidRows = append(plan.InvalidRows, *invalid)
				continue
			}
			plan.Warnings = append(plan.Warnings, boundWarnings(*rec, rowNumber)...)
			sheetPlan.Records = append(sheetPlan.Records, *rec)
		}

		// A sheet with nothing parsed and nothing invalid is unrelated
		// content, e.g. a cover page.
		if len(sheetPlan.Records) == 0 && sheetPlan.SkippedRows == 0 {
			continue
		}
		plan.Sheets = append(plan.Sheets, sheetPlan)
		plan.TotalRecordsToImport += len(sheetPlan.Records)
		plan.TotalSkippedRows += sheetPlan.SkippedRows
	}
	return plan
}

// categoriesFor merges the shipped registry lists with the user's saved
// template for the organization. Unknown names get the template lists alone.
func categoriesFor(organization string, templates map[string]orgs.Template) (earnings, deductions, keywords []string) {
	if profile, ok := LookupOrganization(organization); ok {
		earnings = append(earnings, profile.EarningCategories...)
		deductions = append(deductions, profile.DeductionCategories...)
		keywords = append(keywords, profile.DeductionKeywords...)
	}
	if tpl, ok := templates[organization]; ok {
		earnings = append(earnings, tpl.EarningCategories...)
		deductions = append(deductions, tpl.DeductionCategories...)
	}
	return orgs.NormalizeCategories(earnings), orgs.NormalizeCategories(deductions), keywords
}

func boundWarnings(rec ParsedRecord, rowNumber int) []Warning {
	var warnings []Warning
	for _, problem := range boundProblems(rec) {
		warnings = append(warnings, Warning{
			SheetName: rec.Organization,
			RowNumber: rowNumber,
			Message:   fmt.Sprintf("record will be skipped at import: %s", problem),
		})
	}
	return warnings
}
