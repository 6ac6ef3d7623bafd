package bulkimport

import (
	"github.com/shopspring/decimal"

	"paytrack/internal/domain/salary"
)

// ParsedRecord is a plan-time record. It exists only between planning and
// execution and is never stored as-is.
type ParsedRecord struct {
	Organization    string            `json:"organization"`
	Month           int               `json:"month"`
	Year            int               `json:"year"`
	Earnings        []salary.LineItem `json:"earnings"`
	Deductions      []salary.LineItem `json:"deductions"`
	TotalEarnings   decimal.Decimal   `json:"totalEarnings"`
	TotalDeductions decimal.Decimal   `json:"totalDeductions"`
	NetSalary       decimal.Decimal   `json:"netSalary"`
}

// InvalidRow marks a data row whose Month-Year cell is missing or unparsable.
// RowNumber is the spreadsheet's human-visible row: header = 1, data from 2.
type InvalidRow struct {
	SheetName string `json:"sheetName"`
	RowNumber int    `json:"rowNumber"`
	Reason    string `json:"reason"`
}

// Warning flags a structurally parsed record that the executor will skip,
// such as an out-of-range amount. Advisory only.
type Warning struct {
	SheetName string `json:"sheetName"`
	RowNumber int    `json:"rowNumber"`
	Message   string `json:"message"`
}

type SheetPlan struct {
	SheetName   string         `json:"sheetName"`
	Records     []ParsedRecord `json:"records"`
	SkippedRows int            `json:"skippedRows"`
}

// ImportPlan is the immutable dry-run artifact shown to the user before the
// destructive step. Building one performs no writes.
type ImportPlan struct {
	Sheets               []SheetPlan  `json:"sheets"`
	TotalRecordsToImport int          `json:"totalRecordsToImport"`
	TotalSkippedRows     int          `json:"totalSkippedRows"`
	InvalidRows          []InvalidRow `json:"invalidRows"`
	Warnings             []Warning    `json:"warnings,omitempty"`
}

type ImportSummary struct {
	SheetsProcessed   int `json:"sheetsProcessed"`
	TemplatesReplaced int `json:"templatesReplaced"`
	RecordsProcessed  int `json:"recordsProcessed"`
	RecordsSkipped    int `json:"recordsSkipped"`
}
