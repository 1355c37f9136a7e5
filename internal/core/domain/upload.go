package domain

import (
	"io"

	"github.com/google/uuid"
)

// UploadStatus represents the status of a queued upload
type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusSuccess   UploadStatus = "success"
	UploadStatusError     UploadStatus = "error"
	UploadStatusInvalid   UploadStatus = "invalid"
)

// IsTerminal reports whether no further transition is allowed from s
func (s UploadStatus) IsTerminal() bool {
	return s == UploadStatusSuccess || s == UploadStatusError || s == UploadStatusInvalid
}

// CanTransitionTo reports whether the status machine allows s -> next
func (s UploadStatus) CanTransitionTo(next UploadStatus) bool {
	switch s {
	case UploadStatusPending:
		return next == UploadStatusUploading
	case UploadStatusUploading:
		return next == UploadStatusSuccess || next == UploadStatusError
	default:
		return false
	}
}

// FilePayload is the raw file a user selected on the client side
type FilePayload interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// UploadItem is a client side queue entry
type UploadItem struct {
	ID       uuid.UUID
	File     FilePayload
	Status   UploadStatus
	Result   *StoredFile
	Error    string
	Progress int
}

// UploadSummary counts queue entries per status
type UploadSummary struct {
	Total     int
	Pending   int
	Uploading int
	Success   int
	Error     int
	Invalid   int
}
