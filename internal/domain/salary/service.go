package salary

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]Record, int, error) {
	records, err := s.store.List(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *Service) Get(ctx context.Context, userID, recordID string) (Record, error) {
	return s.store.Get(ctx, userID, recordID)
}

func (s *Service) Create(ctx context.Context, userID string, in RecordInput) (Record, error) {
	if err := normalizeInput(&in); err != nil {
		return Record{}, err
	}
	return s.store.Create(ctx, userID, in)
}

func (s *Service) Update(ctx context.Context, userID, recordID string, in RecordInput) (Record, error) {
	if err := normalizeInput(&in); err != nil {
		return Record{}, err
	}
	return s.store.Update(ctx, userID, recordID, in)
}

func (s *Service) Delete(ctx context.Context, userID, recordID string) error {
	return s.store.Delete(ctx, userID, recordID)
}

// normalizeInput enforces the period and amount bounds, drops line items with
// a blank category and fills in the gross-salary default.
func normalizeInput(in *RecordInput) error {
	in.Organization = strings.TrimSpace(in.Organization)
	if !MonthInBounds(in.Month) || !YearInBounds(in.Year) {
		return ErrPeriodOutOfRange
	}
	if !AmountInBounds(in.TotalEarnings) || !AmountInBounds(in.TotalDeductions) ||
		!AmountInBounds(in.NetSalary) || !AmountInBounds(in.GrossSalary) {
		return ErrAmountOutOfRange
	}
	if in.GrossSalary.IsZero() {
		in.GrossSalary = in.TotalEarnings
	}

	var err error
	in.Earnings, err = normalizeItems(in.Earnings)
	if err != nil {
		return err
	}
	in.Deductions, err = normalizeItems(in.Deductions)
	return err
}

func normalizeItems(items []LineItem) ([]LineItem, error) {
	kept := items[:0]
	for _, item := range items {
		item.Category = strings.TrimSpace(item.Category)
		if item.Category == "" {
			continue
		}
		if !AmountInBounds(item.Amount) {
			return nil, ErrAmountOutOfRange
		}
		kept = append(kept, item)
	}
	return kept, nil
}
