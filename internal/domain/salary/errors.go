package salary

import "errors"

var (
	ErrRecordNotFound    = errors.New("salary record not found")
	ErrDuplicateRecord   = errors.New("a salary record already exists for that month and year")
	ErrAmountOutOfRange  = errors.New("amount outside the allowed range")
	ErrPeriodOutOfRange  = errors.New("month or year outside the allowed range")
	ErrInvalidFiscalYear = errors.New("financial year must look like 2024-2025")
)
