package uploadqueue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// CompensatedMessage is recorded when the file was stored but its catalog record was not
const CompensatedMessage = "upload succeeded but database write failed; file was removed from server"

// compensationTimeout bounds the best effort delete issued after a failed persistence
const compensationTimeout = 10 * time.Second

// Options are attached to the image records of one submission
type Options struct {
	FolderID        string
	SubcollectionID string
	Alt             string
}

// Orchestrator runs queued files through upload then persistence, one file at a time
type Orchestrator struct {
	queue  *Queue
	api    port.UploadAPI
	store  port.DocumentStore
	logger *slog.Logger
	now    func() time.Time

	// run serializes processing across Submit and Retry
	run     sync.Mutex
	optsMu  sync.Mutex
	options map[uuid.UUID]Options
}

// NewOrchestrator creates an orchestrator. A nil store skips the persistence phase.
func NewOrchestrator(queue *Queue, api port.UploadAPI, store port.DocumentStore, logger *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		queue:   queue,
		api:     api,
		store:   store,
		logger:  logger,
		now:     time.Now,
		options: make(map[uuid.UUID]Options),
	}
	queue.whenCleared(o.dropOptions)
	return o
}

// Queue exposes the state container for renderers
func (o *Orchestrator) Queue() *Queue {
	return o.queue
}

// Submit records every file then processes the valid ones sequentially.
// It returns the final snapshot of the entries it created, in input order.
func (o *Orchestrator) Submit(ctx context.Context, files []domain.FilePayload, opts Options) ([]domain.UploadItem, error) {
	ids := make([]uuid.UUID, 0, len(files))
	var valid []uuid.UUID

	for _, file := range files {
		if !domain.IsAllowedImageType(file.ContentType()) {
			item, err := o.queue.Enqueue(file, domain.UploadStatusInvalid, invalidTypeMessage(file))
			if err != nil {
				return nil, err
			}
			o.logger.Warn("file rejected before upload", "file", file.Name(), "type", file.ContentType())
			ids = append(ids, item.ID)
			continue
		}

		item, err := o.queue.Enqueue(file, domain.UploadStatusPending, "")
		if err != nil {
			return nil, err
		}
		o.setOptions(item.ID, opts)
		ids = append(ids, item.ID)
		valid = append(valid, item.ID)
	}

	o.run.Lock()
	defer o.run.Unlock()

	for _, id := range valid {
		if err := ctx.Err(); err != nil {
			return o.snapshot(ids), err
		}
		o.process(ctx, id)
	}

	return o.snapshot(ids), nil
}

// Retry supersedes a failed entry with a fresh pending one and runs it again.
// Persistence runs only if the new upload succeeds.
func (o *Orchestrator) Retry(ctx context.Context, id uuid.UUID) (domain.UploadItem, error) {
	fresh, err := o.queue.Supersede(id)
	if err != nil {
		return domain.UploadItem{}, err
	}
	o.setOptions(fresh.ID, o.takeOptions(id))

	o.run.Lock()
	defer o.run.Unlock()

	o.process(ctx, fresh.ID)

	item, _ := o.queue.Get(fresh.ID)
	return item, nil
}

func (o *Orchestrator) process(ctx context.Context, id uuid.UUID) {
	item, err := o.queue.Transition(id, domain.UploadStatusUploading, nil, "")
	if err != nil {
		// cleared or superseded meanwhile
		o.logger.Debug("skipping entry", "id", id, "error", err)
		return
	}
	logger := o.logger.With("id", id, "file", item.File.Name())

	result, err := o.api.Upload(ctx, item.File, func(percent int) {
		_ = o.queue.SetProgress(id, percent)
	})
	if err != nil {
		logger.Warn("upload failed", "error", err)
		o.fail(id, err.Error())
		return
	}

	if o.store != nil {
		if _, err := o.store.Add(ctx, domain.CollectionImages, o.imageRecord(result, o.optionsOf(id))); err != nil {
			logger.Warn("image record write failed, removing uploaded file", "filename", result.Filename, "error", err)
			o.compensate(ctx, logger, result.Filename)
			o.fail(id, CompensatedMessage)
			return
		}
	}

	o.takeOptions(id)
	if _, err := o.queue.Transition(id, domain.UploadStatusSuccess, result, ""); err != nil {
		logger.Debug("entry vanished before success", "error", err)
		return
	}
	logger.Info("file uploaded", "filename", result.Filename)
}

// compensate deletes the uploaded file. Its failure is only logged.
func (o *Orchestrator) compensate(ctx context.Context, logger *slog.Logger, filename string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := o.api.Delete(ctx, filename); err != nil {
		logger.Error("compensating delete failed, file left on server", "filename", filename, "error", err)
	}
}

func (o *Orchestrator) fail(id uuid.UUID, message string) {
	if _, err := o.queue.Transition(id, domain.UploadStatusError, nil, message); err != nil {
		o.logger.Debug("entry vanished before error", "id", id, "error", err)
	}
}

func (o *Orchestrator) imageRecord(result *domain.StoredFile, opts Options) map[string]any {
	record := map[string]any{
		"filename":     result.Filename,
		"originalName": result.OriginalName,
		"size":         result.Size,
		"mimetype":     result.MimeType,
		"path":         result.Path,
		"createdAt":    o.now().UTC().Format(time.RFC3339),
	}
	if opts.FolderID != "" {
		record["folderId"] = opts.FolderID
	}
	if opts.SubcollectionID != "" {
		record["subcollectionId"] = opts.SubcollectionID
	}
	if opts.Alt != "" {
		record["alt"] = opts.Alt
	}
	return record
}

func (o *Orchestrator) snapshot(ids []uuid.UUID) []domain.UploadItem {
	items := make([]domain.UploadItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := o.queue.Get(id); ok {
			items = append(items, item)
		}
	}
	return items
}

func (o *Orchestrator) setOptions(id uuid.UUID, opts Options) {
	o.optsMu.Lock()
	defer o.optsMu.Unlock()
	o.options[id] = opts
}

func (o *Orchestrator) optionsOf(id uuid.UUID) Options {
	o.optsMu.Lock()
	defer o.optsMu.Unlock()
	return o.options[id]
}

// PendingOptions is the number of entries whose options are still kept
func (o *Orchestrator) PendingOptions() int {
	o.optsMu.Lock()
	defer o.optsMu.Unlock()
	return len(o.options)
}

func (o *Orchestrator) dropOptions() {
	o.optsMu.Lock()
	defer o.optsMu.Unlock()
	o.options = make(map[uuid.UUID]Options)
}

func (o *Orchestrator) takeOptions(id uuid.UUID) Options {
	o.optsMu.Lock()
	defer o.optsMu.Unlock()
	opts := o.options[id]
	delete(o.options, id)
	return opts
}

func invalidTypeMessage(file domain.FilePayload) string {
	return fmt.Sprintf("%s: %s has type %q", domain.ErrInvalidFileType.Error(), file.Name(), file.ContentType())
}
