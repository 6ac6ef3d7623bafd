package reports

import "github.com/shopspring/decimal"

type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type Overview struct {
	RecordCount       int             `json:"recordCount"`
	OrganizationCount int             `json:"organizationCount"`
	TotalEarnings     decimal.Decimal `json:"totalEarnings"`
	TotalDeductions   decimal.Decimal `json:"totalDeductions"`
	TotalNet          decimal.Decimal `json:"totalNet"`
	AverageNet        decimal.Decimal `json:"averageNet"`
	FirstPeriod       *Period         `json:"firstPeriod,omitempty"`
	LastPeriod        *Period         `json:"lastPeriod,omitempty"`
}

type OrganizationSummary struct {
	Organization    string          `json:"organization"`
	RecordCount     int             `json:"recordCount"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	FirstPeriod     Period          `json:"firstPeriod"`
	LastPeriod      Period          `json:"lastPeriod"`
}

type FiscalYearSummary struct {
	FinancialYear   string          `json:"financialYear"`
	RecordCount     int             `json:"recordCount"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNet        decimal.Decimal `json:"totalNet"`
}

type CategorySummary struct {
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Total       decimal.Decimal `json:"total"`
	RecordCount int             `json:"recordCount"`
}

type MonthlyPoint struct {
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
	PlannedAmount   decimal.Decimal `json:"plannedAmount"`
}
