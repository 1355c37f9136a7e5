package uploadqueue_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client/localfile"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client/uploadapi"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi"
	uploadhandler "github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/upload"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/storage/filesystem"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	documentservice "github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/document"
	uploadservice "github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/upload"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/uploadqueue"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func stored(name string) *domain.StoredFile {
	return &domain.StoredFile{
		Filename:     name,
		OriginalName: name,
		Size:         3,
		MimeType:     "image/png",
		Path:         "/uploads/images/" + name,
	}
}

func TestOrchestrator_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("nominal - sequential upload then persistence", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		store := documentservice.NewMockDocumentStore()
		a, b := pngFile("a.png"), pngFile("b.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(stored("a.png"), nil).Once()
		api.On("Upload", mock.Anything, b, mock.Anything).Return(stored("b.png"), nil).Once()
		store.On("Add", mock.Anything, domain.CollectionImages, mock.MatchedBy(func(record map[string]any) bool {
			return record["folderId"] == "f1" && record["alt"] == "robot" && record["createdAt"] != ""
		})).Return("img", nil).Twice()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, store, discardLogger)

		var progress []int
		o.Queue().Subscribe(func(item domain.UploadItem) {
			if item.File == a && item.Status == domain.UploadStatusUploading {
				progress = append(progress, item.Progress)
			}
		})

		// Act
		items, err := o.Submit(ctx, []domain.FilePayload{a, b}, uploadqueue.Options{FolderID: "f1", Alt: "robot"})

		// Assert
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, item := range items {
			assert.Equal(t, domain.UploadStatusSuccess, item.Status)
			assert.Equal(t, 100, item.Progress)
		}
		assert.Equal(t, "a.png", items[0].Result.Filename)
		assert.Equal(t, []int{0, 50, 100}, progress)
		api.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("invalid type never reaches the api", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, nil, discardLogger)
		text := localfile.FromBytes("notes.txt", "text/plain", []byte("hi"))

		// Act
		items, err := o.Submit(ctx, []domain.FilePayload{text}, uploadqueue.Options{})

		// Assert
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.UploadStatusInvalid, items[0].Status)
		assert.Contains(t, items[0].Error, "notes.txt")
		api.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload error is recorded and the next file still runs", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		a, b := pngFile("a.png"), pngFile("b.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(nil, errors.New("Maximum file size is 5MB")).Once()
		api.On("Upload", mock.Anything, b, mock.Anything).Return(stored("b.png"), nil).Once()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, nil, discardLogger)

		// Act
		items, err := o.Submit(ctx, []domain.FilePayload{a, b}, uploadqueue.Options{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, domain.UploadStatusError, items[0].Status)
		assert.Equal(t, "Maximum file size is 5MB", items[0].Error)
		assert.Nil(t, items[0].Result)
		assert.Equal(t, domain.UploadStatusSuccess, items[1].Status)
		assert.Equal(t, domain.UploadSummary{Total: 2, Success: 1, Error: 1}, o.Queue().Summary())
	})

	t.Run("persistence failure removes the uploaded file", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		store := documentservice.NewMockDocumentStore()
		a := pngFile("a.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(stored("a-1700000000000.png"), nil).Once()
		api.On("Delete", mock.Anything, "a-1700000000000.png").Return(nil).Once()
		store.On("Add", mock.Anything, domain.CollectionImages, mock.Anything).Return("", assert.AnError).Once()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, store, discardLogger)

		// Act
		items, err := o.Submit(ctx, []domain.FilePayload{a}, uploadqueue.Options{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, domain.UploadStatusError, items[0].Status)
		assert.Equal(t, uploadqueue.CompensatedMessage, items[0].Error)
		api.AssertExpectations(t)
	})

	t.Run("failed compensation is only logged", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		store := documentservice.NewMockDocumentStore()
		a := pngFile("a.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(stored("a.png"), nil).Once()
		api.On("Delete", mock.Anything, "a.png").Return(errors.New("connection refused")).Once()
		store.On("Add", mock.Anything, domain.CollectionImages, mock.Anything).Return("", assert.AnError).Once()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, store, discardLogger)

		// Act
		items, err := o.Submit(ctx, []domain.FilePayload{a}, uploadqueue.Options{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, uploadqueue.CompensatedMessage, items[0].Error)
	})

	t.Run("cancelled context leaves remaining entries pending", func(t *testing.T) {
		api := client.NewMockUploadAPI()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, nil, discardLogger)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		items, err := o.Submit(cancelled, []domain.FilePayload{pngFile("a.png")}, uploadqueue.Options{})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, domain.UploadStatusPending, items[0].Status)
		api.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrchestrator_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("nominal - failed entry is uploaded again", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		store := documentservice.NewMockDocumentStore()
		a := pngFile("a.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(nil, errors.New("network down")).Once()
		api.On("Upload", mock.Anything, a, mock.Anything).Return(stored("a.png"), nil).Once()
		store.On("Add", mock.Anything, domain.CollectionImages, mock.MatchedBy(func(record map[string]any) bool {
			return record["subcollectionId"] == "s1"
		})).Return("img", nil).Once()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, store, discardLogger)
		items, err := o.Submit(ctx, []domain.FilePayload{a}, uploadqueue.Options{SubcollectionID: "s1"})
		require.NoError(t, err)

		// Act
		retried, err := o.Retry(ctx, items[0].ID)

		// Assert
		require.NoError(t, err)
		assert.NotEqual(t, items[0].ID, retried.ID)
		assert.Equal(t, domain.UploadStatusSuccess, retried.Status)
		assert.Len(t, o.Queue().Items(), 1)
		store.AssertExpectations(t)
	})

	// Retrying a compensated entry uploads the file again before persisting,
	// the earlier server copy is already gone. Kept explicit because the
	// retry path of a persistence failure is ambiguous.
	t.Run("compensated entry re-uploads before persisting", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		store := documentservice.NewMockDocumentStore()
		a := pngFile("a.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(stored("a.png"), nil).Twice()
		api.On("Delete", mock.Anything, "a.png").Return(nil).Once()
		store.On("Add", mock.Anything, domain.CollectionImages, mock.Anything).Return("", assert.AnError).Once()
		store.On("Add", mock.Anything, domain.CollectionImages, mock.Anything).Return("img", nil).Once()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, store, discardLogger)
		items, err := o.Submit(ctx, []domain.FilePayload{a}, uploadqueue.Options{})
		require.NoError(t, err)
		require.Equal(t, uploadqueue.CompensatedMessage, items[0].Error)

		// Act
		retried, err := o.Retry(ctx, items[0].ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, domain.UploadStatusSuccess, retried.Status)
		api.AssertNumberOfCalls(t, "Upload", 2)
	})

	t.Run("error - successful entries cannot be retried", func(t *testing.T) {
		api := client.NewMockUploadAPI()
		a := pngFile("a.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(stored("a.png"), nil).Once()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, nil, discardLogger)
		items, err := o.Submit(ctx, []domain.FilePayload{a}, uploadqueue.Options{})
		require.NoError(t, err)

		_, err = o.Retry(ctx, items[0].ID)

		require.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestOrchestrator_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("successful entries release their options", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		a, b := pngFile("a.png"), pngFile("b.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(stored("a.png"), nil).Once()
		api.On("Upload", mock.Anything, b, mock.Anything).Return(nil, errors.New("network down")).Once()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, nil, discardLogger)

		// Act
		_, err := o.Submit(ctx, []domain.FilePayload{a, b}, uploadqueue.Options{FolderID: "f1"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, o.PendingOptions(), "only the failed entry keeps options for a retry")
	})

	t.Run("retried entries release their options once stored", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		a := pngFile("a.png")
		api.On("Upload", mock.Anything, a, mock.Anything).Return(nil, errors.New("network down")).Once()
		api.On("Upload", mock.Anything, a, mock.Anything).Return(stored("a.png"), nil).Once()
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, nil, discardLogger)
		items, err := o.Submit(ctx, []domain.FilePayload{a}, uploadqueue.Options{Alt: "box"})
		require.NoError(t, err)
		require.Equal(t, 1, o.PendingOptions())

		// Act
		_, err = o.Retry(ctx, items[0].ID)

		// Assert
		require.NoError(t, err)
		assert.Zero(t, o.PendingOptions())
	})

	t.Run("clearing the queue drops the options", func(t *testing.T) {
		// Arrange
		api := client.NewMockUploadAPI()
		files := []domain.FilePayload{pngFile("a.png"), pngFile("b.png"), pngFile("c.png")}
		api.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("network down"))
		o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, nil, discardLogger)
		_, err := o.Submit(ctx, files, uploadqueue.Options{})
		require.NoError(t, err)
		require.Equal(t, 3, o.PendingOptions())

		// Act
		o.Queue().Clear()

		// Assert
		assert.Zero(t, o.PendingOptions())
		assert.Empty(t, o.Queue().Items())
	})
}

// failingStore accepts nothing
type failingStore struct {
	documentservice.MockDocumentStore
}

func (f *failingStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	return "", errors.New("database unavailable")
}

func TestOrchestrator_CompensationAgainstServer(t *testing.T) {
	// Arrange
	cfg := config.FileUploadConfig{
		Dir:         t.TempDir(),
		PublicPath:  "/uploads/images",
		MaxFileSize: domain.MaxFileSizeDefault,
		MaxFiles:    domain.MaxFilesDefault,
	}
	adapter, err := filesystem.NewAdapter(cfg.Dir, discardLogger)
	require.NoError(t, err)
	service := uploadservice.NewUploadService(adapter, nil, cfg, discardLogger)
	router := chi.NewRouter(discardLogger, uploadhandler.NewHandler(service, cfg, discardLogger), nil, "test", "")
	server := httptest.NewServer(router)
	defer server.Close()

	api := uploadapi.NewClient(server.URL, "", server.Client(), discardLogger)
	o := uploadqueue.NewOrchestrator(uploadqueue.NewQueue(), api, &failingStore{}, discardLogger)

	// Act
	items, err := o.Submit(context.Background(), []domain.FilePayload{pngFile("Robot.PNG")}, uploadqueue.Options{})

	// Assert
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.UploadStatusError, items[0].Status)
	assert.Equal(t, uploadqueue.CompensatedMessage, items[0].Error)
	entries, err := os.ReadDir(cfg.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
