package orgs

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

func (s *Service) List(ctx context.Context, userID string) ([]Template, error) {
	return s.store.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, templateID string) (Template, error) {
	return s.store.Get(ctx, userID, templateID)
}

func (s *Service) GetByName(ctx context.Context, userID, name string) (Template, error) {
	return s.store.GetByName(ctx, userID, strings.TrimSpace(name))
}

func (s *Service) Create(ctx context.Context, userID string, in TemplateInput) (Template, error) {
	normalizeTemplate(&in)
	return s.store.Create(ctx, userID, in)
}

func (s *Service) Update(ctx context.Context, userID, templateID string, in TemplateInput) (Template, error) {
	normalizeTemplate(&in)
	return s.store.Update(ctx, userID, templateID, in)
}

func (s *Service) Delete(ctx context.Context, userID, templateID string) error {
	return s.store.Delete(ctx, userID, templateID)
}

func normalizeTemplate(in *TemplateInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.EarningCategories = NormalizeCategories(in.EarningCategories)
	in.DeductionCategories = NormalizeCategories(in.DeductionCategories)
}

// NormalizeCategories trims entries, drops blanks and removes duplicates while
// keeping first-appearance order.
func NormalizeCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	kept := categories[:0]
	for _, category := range categories {
		category = strings.TrimSpace(category)
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		kept = append(kept, category)
	}
	return kept
}
