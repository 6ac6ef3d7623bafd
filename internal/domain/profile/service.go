package profile

import (
	"context"
	"errors"
	"strings"

	"paytrack/internal/domain/salary"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Get returns the stored profile, or a default one when nothing has been
// saved yet.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return Profile{UserID: userID, Currency: "INR"}, nil
	}
	return p, err
}

func (s *Service) Upsert(ctx context.Context, userID string, in ProfileInput) (Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = "INR"
	}
	return s.store.UpsertProfile(ctx, userID, in)
}

func (s *Service) ListEmployment(ctx context.Context, userID string) ([]Employment, error) {
	return s.store.ListEmployment(ctx, userID)
}

func (s *Service) CreateEmployment(ctx context.Context, userID string, in EmploymentInput) (Employment, error) {
	if err := normalizeEmployment(&in); err != nil {
		return Employment{}, err
	}
	return s.store.CreateEmployment(ctx, userID, in)
}

func (s *Service) UpdateEmployment(ctx context.Context, userID, entryID string, in EmploymentInput) (Employment, error) {
	if err := normalizeEmployment(&in); err != nil {
		return Employment{}, err
	}
	return s.store.UpdateEmployment(ctx, userID, entryID, in)
}

func (s *Service) DeleteEmployment(ctx context.Context, userID, entryID string) error {
	return s.store.DeleteEmployment(ctx, userID, entryID)
}

func normalizeEmployment(in *EmploymentInput) error {
	in.Organization = strings.TrimSpace(in.Organization)
	in.Designation = strings.TrimSpace(in.Designation)
	if !salary.MonthInBounds(in.StartMonth) || !salary.YearInBounds(in.StartYear) {
		return salary.ErrPeriodOutOfRange
	}
	if in.IsCurrent {
		in.EndMonth, in.EndYear = 0, 0
		return nil
	}
	if in.EndMonth != 0 || in.EndYear != 0 {
		if !salary.MonthInBounds(in.EndMonth) || !salary.YearInBounds(in.EndYear) {
			return salary.ErrPeriodOutOfRange
		}
		if in.EndYear < in.StartYear || (in.EndYear == in.StartYear && in.EndMonth < in.StartMonth) {
			return salary.ErrPeriodOutOfRange
		}
	}
	return nil
}
