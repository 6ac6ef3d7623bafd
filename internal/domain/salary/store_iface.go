package salary

import "context"

type StoreAPI interface {
	List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]Record, error)
	Count(ctx context.Context, userID string, filter Filter) (int, error)
	Get(ctx context.Context, userID, recordID string) (Record, error)
	Create(ctx context.Context, userID string, in RecordInput) (Record, error)
	Update(ctx context.Context, userID, recordID string, in RecordInput) (Record, error)
	Delete(ctx context.Context, userID, recordID string) error
	Upsert(ctx context.Context, userID string, in RecordInput) (string, error)
	ReplaceLineItems(ctx context.Context, recordID string, earnings, deductions []LineItem) error
	ListAllWithItems(ctx context.Context, userID, organization string) ([]Record, error)
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
}

var _ StoreAPI = (*Store)(nil)
