package profile

import "time"

type Profile struct {
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProfileInput struct {
	FullName string
	Email    string
	Currency string
}

// Employment is one stint at an organization. EndMonth/EndYear are zero while
// the stint is current.
type Employment struct {
	ID           string    `json:"id"`
	Organization string    `json:"organization"`
	Designation  string    `json:"designation,omitempty"`
	StartMonth   int       `json:"startMonth"`
	StartYear    int       `json:"startYear"`
	EndMonth     int       `json:"endMonth,omitempty"`
	EndYear      int       `json:"endYear,omitempty"`
	IsCurrent    bool      `json:"isCurrent"`
	CreatedAt    time.Time `json:"createdAt"`
}

type EmploymentInput struct {
	Organization string
	Designation  string
	StartMonth   int
	StartYear    int
	EndMonth     int
	EndYear      int
	IsCurrent    bool
}
