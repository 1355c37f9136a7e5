package document

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

type documentService struct {
	repo   port.DocumentRepository
	logger *slog.Logger
}

// NewDocumentService creates the server side document store
func NewDocumentService(repo port.DocumentRepository, logger *slog.Logger) port.DocumentStore {
	return &documentService{
		repo:   repo,
		logger: logger,
	}
}

func checkCollection(collection string) error {
	if !domain.KnownCollections[collection] {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}
	return nil
}

// Add stores data under a freshly generated id
func (s *documentService) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := s.repo.Create(ctx, collection, id, withoutNulls(data)); err != nil {
		return "", err
	}

	s.logger.Debug("document added", "collection", collection, "id", id)
	return id, nil
}

func (s *documentService) GetAll(ctx context.Context, collection string) ([]domain.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, collection)
}

func (s *documentService) Get(ctx context.Context, collection string, id string) (*domain.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, collection, id)
}

// Update merges patch into the document. A nil value removes the field.
func (s *documentService) Update(ctx context.Context, collection string, id string, patch map[string]any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	set := make(map[string]any, len(patch))
	var remove []string
	for key, value := range patch {
		if value == nil {
			remove = append(remove, key)
			continue
		}
		set[key] = value
	}
	sort.Strings(remove)

	return s.repo.Update(ctx, collection, id, set, remove)
}

func (s *documentService) Delete(ctx context.Context, collection string, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	return s.repo.Delete(ctx, collection, id)
}

func withoutNulls(data map[string]any) map[string]any {
	clean := make(map[string]any, len(data))
	for key, value := range data {
		if value != nil {
			clean[key] = value
		}
	}
	return clean
}
