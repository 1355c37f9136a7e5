package port

import (
	"context"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// DocumentRepository is an interface to define document persistence
type DocumentRepository interface {
	Create(ctx context.Context, collection string, id string, data map[string]any) error
	FindAll(ctx context.Context, collection string) ([]domain.Document, error)
	FindByID(ctx context.Context, collection string, id string) (*domain.Document, error)
	FindByField(ctx context.Context, collection string, field string, value string) ([]domain.Document, error)
	Update(ctx context.Context, collection string, id string, set map[string]any, remove []string) error
	Delete(ctx context.Context, collection string, id string) error
}

// DocumentStore is the capability set of the catalog document database.
// Update translates nil values into field removals.
type DocumentStore interface {
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	GetAll(ctx context.Context, collection string) ([]domain.Document, error)
	Get(ctx context.Context, collection string, id string) (*domain.Document, error)
	Update(ctx context.Context, collection string, id string, patch map[string]any) error
	Delete(ctx context.Context, collection string, id string) error
}
