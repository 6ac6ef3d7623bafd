package orgs

import "time"

// Template captures the per-organization category lists used to classify
// imported columns and to order exported ones.
type Template struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	EarningCategories   []string  `json:"earningCategories"`
	DeductionCategories []string  `json:"deductionCategories"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type TemplateInput struct {
	Name                string
	EarningCategories   []string
	DeductionCategories []string
}
