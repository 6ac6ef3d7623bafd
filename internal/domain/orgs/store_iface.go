package orgs

import "context"

type StoreAPI interface {
	List(ctx context.Context, userID string) ([]Template, error)
	Get(ctx context.Context, userID, templateID string) (Template, error)
	GetByName(ctx context.Context, userID, name string) (Template, error)
	Create(ctx context.Context, userID string, in TemplateInput) (Template, error)
	Update(ctx context.Context, userID, templateID string, in TemplateInput) (Template, error)
	Delete(ctx context.Context, userID, templateID string) error
	ReplaceByName(ctx context.Context, userID, name string, earnings, deductions []string) (string, error)
	Count(ctx context.Context, userID string) (int, error)
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
}

var _ StoreAPI = (*Store)(nil)
