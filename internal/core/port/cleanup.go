package port

import "context"

// CleanupService is service that handles cleanup
type CleanupService interface {
	CleanupOrphanImages(ctx context.Context) (int, error)
}
