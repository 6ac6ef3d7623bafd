package reports

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Overview(ctx context.Context, userID string) (Overview, error) {
	return s.Store.Overview(ctx, userID)
}

func (s *Service) ByOrganization(ctx context.Context, userID string) ([]OrganizationSummary, error) {
	return s.Store.ByOrganization(ctx, userID)
}

func (s *Service) ByFinancialYear(ctx context.Context, userID string) ([]FiscalYearSummary, error) {
	return s.Store.ByFinancialYear(ctx, userID)
}

func (s *Service) ByCategory(ctx context.Context, userID string, fiscalStart int, organization string) ([]CategorySummary, error) {
	return s.Store.ByCategory(ctx, userID, fiscalStart, organization)
}

func (s *Service) Monthly(ctx context.Context, userID string, fiscalStart int) ([]MonthlyPoint, error) {
	return s.Store.Monthly(ctx, userID, fiscalStart)
}
