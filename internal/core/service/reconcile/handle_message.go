package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// HandleMessage removes every image document pointing at a deleted file.
// Other event types are acknowledged and ignored.
func (r *reconcileService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.FileEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal file event: %v", err)
	}

	if event.Type != domain.EventTypeFileDeleted {
		r.logger.Debug("ignoring file event", "type", event.Type, "filename", event.Filename)
		return nil
	}
	if err := domain.ValidateBareFilename(event.Filename); err != nil {
		r.logger.Warn("dropping file event with invalid filename", "filename", event.Filename)
		return nil
	}

	removed := 0
	err := r.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		images, err := uow.DocumentRepo().FindByField(ctx, domain.CollectionImages, "filename", event.Filename)
		if err != nil {
			return err
		}
		for _, image := range images {
			err := uow.DocumentRepo().Delete(ctx, domain.CollectionImages, image.ID)
			if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not reconcile %s: %w", event.Filename, err)
	}

	r.logger.Info("reconciled deleted file", "filename", event.Filename, "removed", removed)
	return nil
}
