package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// provisionalPrefix marks local entries whose remote id is not known yet
const provisionalPrefix = "pending-"

// Entity is a catalog record persisted as a document
type Entity[E any] interface {
	*E
	GetID() string
	SetID(id string)
}

// Store mirrors one document collection locally.
// Every write is applied locally first, then sent to the document store;
// a failed write replaces the local state with a full reload.
type Store[E any, P Entity[E]] struct {
	collection string
	docs       port.DocumentStore
	logger     *slog.Logger

	mu    sync.RWMutex
	items []E
}

// NewStore creates an empty store for collection, call Load to fill it
func NewStore[E any, P Entity[E]](docs port.DocumentStore, collection string, logger *slog.Logger) *Store[E, P] {
	return &Store[E, P]{
		collection: collection,
		docs:       docs,
		logger:     logger.With("collection", collection),
	}
}

// Collection is the document collection backing the store
func (s *Store[E, P]) Collection() string {
	return s.collection
}

// Load replaces the local state with the remote collection
func (s *Store[E, P]) Load(ctx context.Context) error {
	documents, err := s.docs.GetAll(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("could not load %s: %w", s.collection, err)
	}

	items := make([]E, 0, len(documents))
	for _, doc := range documents {
		item, err := decode[E, P](doc)
		if err != nil {
			s.logger.Warn("skipping undecodable document", "id", doc.ID, "error", err)
			continue
		}
		items = append(items, item)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// All returns a copy of the local entries
func (s *Store[E, P]) All() []E {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get returns the local entry with id
func (s *Store[E, P]) Get(id string) (E, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index := s.indexOf(id); index != -1 {
		return s.items[index], true
	}
	var zero E
	return zero, false
}

// Filter returns the local entries matching keep
func (s *Store[E, P]) Filter(keep func(E) bool) []E {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []E
	for _, item := range s.items {
		if keep(item) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Add creates item remotely and returns it with its assigned id
func (s *Store[E, P]) Add(ctx context.Context, item E) (E, error) {
	data, err := encode[E, P](item)
	if err != nil {
		return item, err
	}

	provisional := provisionalPrefix + uuid.NewString()
	P(&item).SetID(provisional)
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()

	id, err := s.docs.Add(ctx, s.collection, data)
	if err != nil {
		s.mu.Lock()
		if index := s.indexOf(provisional); index != -1 {
			s.items = slices.Delete(s.items, index, index+1)
		}
		s.mu.Unlock()
		s.revert(ctx, "add", err)
		var zero E
		return zero, err
	}

	P(&item).SetID(id)
	s.mu.Lock()
	if index := s.indexOf(provisional); index != -1 {
		s.items[index] = item
	}
	s.mu.Unlock()

	return item, nil
}

// Update applies mutate to the entry with id and sends the changed fields.
// Fields that disappear from the encoded entry are removed remotely.
func (s *Store[E, P]) Update(ctx context.Context, id string, mutate func(P)) (E, error) {
	s.mu.Lock()
	index := s.indexOf(id)
	if index == -1 {
		s.mu.Unlock()
		var zero E
		return zero, fmt.Errorf("%w: %s/%s", domain.ErrDocumentNotFound, s.collection, id)
	}
	before := s.items[index]
	after := before
	mutate(P(&after))
	P(&after).SetID(id)
	s.items[index] = after
	s.mu.Unlock()

	patch, err := diff[E, P](before, after)
	if err != nil {
		s.revert(ctx, "update", err)
		return before, err
	}
	if len(patch) == 0 {
		return after, nil
	}

	if err := s.docs.Update(ctx, s.collection, id, patch); err != nil {
		s.revert(ctx, "update", err)
		return before, err
	}
	return after, nil
}

// Remove deletes the entry with id
func (s *Store[E, P]) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	index := s.indexOf(id)
	if index == -1 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s/%s", domain.ErrDocumentNotFound, s.collection, id)
	}
	s.items = slices.Delete(s.items, index, index+1)
	s.mu.Unlock()

	if err := s.docs.Delete(ctx, s.collection, id); err != nil {
		s.revert(ctx, "delete", err)
		return err
	}
	return nil
}

// revert reloads the collection after a failed write. A failed reload is only logged.
func (s *Store[E, P]) revert(ctx context.Context, op string, cause error) {
	s.logger.Warn("write failed, reloading collection", "op", op, "error", cause)
	if err := s.Load(ctx); err != nil {
		s.logger.Error("reload after failed write failed, local state may be stale", "op", op, "error", err)
	}
}

// indexOf must be called with mu held
func (s *Store[E, P]) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item E) bool {
		return P(&item).GetID() == id
	})
}

func decode[E any, P Entity[E]](doc domain.Document) (E, error) {
	var item E
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return item, err
	}
	if err := json.Unmarshal(raw, P(&item)); err != nil {
		return item, err
	}
	P(&item).SetID(doc.ID)
	return item, nil
}

func encode[E any, P Entity[E]](item E) (map[string]any, error) {
	raw, err := json.Marshal(P(&item))
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// diff lists changed fields, a nil value marks a removed field
func diff[E any, P Entity[E]](before, after E) (map[string]any, error) {
	old, err := encode[E, P](before)
	if err != nil {
		return nil, err
	}
	updated, err := encode[E, P](after)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	for key, value := range updated {
		previous, ok := old[key]
		if !ok || !jsonEqual(previous, value) {
			patch[key] = value
		}
	}
	for key := range old {
		if _, ok := updated[key]; !ok {
			patch[key] = nil
		}
	}
	return patch, nil
}

func jsonEqual(a, b any) bool {
	rawA, errA := json.Marshal(a)
	rawB, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(rawA) == string(rawB)
}
