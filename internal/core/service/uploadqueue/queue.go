package uploadqueue

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// Listener receives a snapshot of every entry that changed
type Listener func(item domain.UploadItem)

// Queue holds the upload entries of one operator session.
// Entries are only mutated through its methods and read through copies.
type Queue struct {
	mu        sync.RWMutex
	items     []*domain.UploadItem
	index     map[uuid.UUID]int
	listeners map[int]Listener
	nextID    int
	onClear   []func()
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{
		index:     make(map[uuid.UUID]int),
		listeners: make(map[int]Listener),
	}
}

// Enqueue records a new entry. Only pending and invalid are valid initial states.
func (q *Queue) Enqueue(file domain.FilePayload, status domain.UploadStatus, errMsg string) (domain.UploadItem, error) {
	if status != domain.UploadStatusPending && status != domain.UploadStatusInvalid {
		return domain.UploadItem{}, fmt.Errorf("%w: cannot enqueue as %s", domain.ErrInvalidTransition, status)
	}

	item := &domain.UploadItem{
		ID:     uuid.New(),
		File:   file,
		Status: status,
		Error:  errMsg,
	}

	q.mu.Lock()
	q.index[item.ID] = len(q.items)
	q.items = append(q.items, item)
	snapshot := copyItem(item)
	q.mu.Unlock()

	q.notify(snapshot)
	return snapshot, nil
}

// Transition moves an entry along pending -> uploading -> success|error.
// result is kept on success, errMsg on error.
func (q *Queue) Transition(id uuid.UUID, next domain.UploadStatus, result *domain.StoredFile, errMsg string) (domain.UploadItem, error) {
	q.mu.Lock()
	item, err := q.lookup(id)
	if err != nil {
		q.mu.Unlock()
		return domain.UploadItem{}, err
	}
	if !item.Status.CanTransitionTo(next) {
		q.mu.Unlock()
		return domain.UploadItem{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, item.Status, next)
	}

	item.Status = next
	switch next {
	case domain.UploadStatusUploading:
		item.Progress = 0
	case domain.UploadStatusSuccess:
		item.Result = result
		item.Error = ""
		item.Progress = 100
	case domain.UploadStatusError:
		item.Result = nil
		item.Error = errMsg
	}
	snapshot := copyItem(item)
	q.mu.Unlock()

	q.notify(snapshot)
	return snapshot, nil
}

// SetProgress updates the progress of an uploading entry, clamped to 0..100
func (q *Queue) SetProgress(id uuid.UUID, percent int) error {
	percent = max(0, min(100, percent))

	q.mu.Lock()
	item, err := q.lookup(id)
	if err != nil {
		q.mu.Unlock()
		return err
	}
	if item.Status != domain.UploadStatusUploading {
		q.mu.Unlock()
		return fmt.Errorf("%w: progress on %s entry", domain.ErrInvalidTransition, item.Status)
	}
	if item.Progress == percent {
		q.mu.Unlock()
		return nil
	}
	item.Progress = percent
	snapshot := copyItem(item)
	q.mu.Unlock()

	q.notify(snapshot)
	return nil
}

// Supersede replaces a failed entry by a fresh pending entry for the same
// file, at the same position. The old id is no longer known to the queue.
func (q *Queue) Supersede(id uuid.UUID) (domain.UploadItem, error) {
	q.mu.Lock()
	item, err := q.lookup(id)
	if err != nil {
		q.mu.Unlock()
		return domain.UploadItem{}, err
	}
	if item.Status != domain.UploadStatusError {
		q.mu.Unlock()
		return domain.UploadItem{}, fmt.Errorf("%w: only failed entries can be retried, entry is %s", domain.ErrInvalidTransition, item.Status)
	}

	position := q.index[id]
	fresh := &domain.UploadItem{
		ID:     uuid.New(),
		File:   item.File,
		Status: domain.UploadStatusPending,
	}
	q.items[position] = fresh
	delete(q.index, id)
	q.index[fresh.ID] = position
	snapshot := copyItem(fresh)
	q.mu.Unlock()

	q.notify(snapshot)
	return snapshot, nil
}

// Clear drops every entry. In flight uploads are not aborted.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.index = make(map[uuid.UUID]int)
	hooks := q.onClear
	q.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}

// whenCleared registers a hook run after every Clear
func (q *Queue) whenCleared(hook func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onClear = append(q.onClear, hook)
}

// Items returns a copy of the entries in insertion order
func (q *Queue) Items() []domain.UploadItem {
	q.mu.RLock()
	defer q.mu.RUnlock()

	items := make([]domain.UploadItem, len(q.items))
	for i, item := range q.items {
		items[i] = copyItem(item)
	}
	return items
}

// Get returns a copy of one entry
func (q *Queue) Get(id uuid.UUID) (domain.UploadItem, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	item, err := q.lookup(id)
	if err != nil {
		return domain.UploadItem{}, false
	}
	return copyItem(item), true
}

// Summary counts entries per status
func (q *Queue) Summary() domain.UploadSummary {
	q.mu.RLock()
	defer q.mu.RUnlock()

	summary := domain.UploadSummary{Total: len(q.items)}
	for _, item := range q.items {
		switch item.Status {
		case domain.UploadStatusPending:
			summary.Pending++
		case domain.UploadStatusUploading:
			summary.Uploading++
		case domain.UploadStatusSuccess:
			summary.Success++
		case domain.UploadStatusError:
			summary.Error++
		case domain.UploadStatusInvalid:
			summary.Invalid++
		}
	}
	return summary
}

// Subscribe registers fn for every change and returns its unsubscribe func.
// fn runs on the goroutine that made the change, outside the queue lock.
func (q *Queue) Subscribe(fn Listener) func() {
	q.mu.Lock()
	key := q.nextID
	q.nextID++
	q.listeners[key] = fn
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.listeners, key)
		q.mu.Unlock()
	}
}

func (q *Queue) lookup(id uuid.UUID) (*domain.UploadItem, error) {
	position, ok := q.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return q.items[position], nil
}

func (q *Queue) notify(item domain.UploadItem) {
	q.mu.RLock()
	listeners := make([]Listener, 0, len(q.listeners))
	for _, fn := range q.listeners {
		listeners = append(listeners, fn)
	}
	q.mu.RUnlock()

	for _, fn := range listeners {
		fn(item)
	}
}

func copyItem(item *domain.UploadItem) domain.UploadItem {
	snapshot := *item
	if item.Result != nil {
		result := *item.Result
		snapshot.Result = &result
	}
	return snapshot
}
