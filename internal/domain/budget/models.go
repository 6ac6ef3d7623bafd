package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the planned take-home for one month, keyed by (user, month, year).
type Budget struct {
	ID            string          `json:"id"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type BudgetInput struct {
	Month         int
	Year          int
	PlannedAmount decimal.Decimal
	Notes         string
}
