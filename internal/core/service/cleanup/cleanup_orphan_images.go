package cleanup

import (
	"context"
	"errors"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// CleanupOrphanImages removes image records whose file is gone from storage.
// It returns the number of removed records.
func (c *cleanupService) CleanupOrphanImages(ctx context.Context) (int, error) {
	if !c.sweeping.CompareAndSwap(false, true) {
		c.logger.Warn("previous sweep still running, skipping")
		return 0, nil
	}
	defer c.sweeping.Store(false)

	images, err := c.uow.DocumentRepo().FindAll(ctx, domain.CollectionImages)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, image := range images {
		filename, _ := image.Data["filename"].(string)
		if domain.ValidateBareFilename(filename) != nil {
			c.logger.Warn("image record without a usable filename", "id", image.ID)
			continue
		}

		exists, existsErr := c.fileStorage.Exists(ctx, filename)
		if existsErr != nil {
			return removed, existsErr
		}
		if exists {
			continue
		}

		txErr := c.uow.Execute(ctx, func(uow port.UnitOfWork) error {
			return uow.DocumentRepo().Delete(ctx, domain.CollectionImages, image.ID)
		})
		if txErr != nil {
			if errors.Is(txErr, domain.ErrDocumentNotFound) {
				continue
			}
			return removed, txErr
		}

		c.logger.Info("removed orphan image record", "id", image.ID, "filename", filename)
		removed++
	}

	return removed, nil
}
