package domain

import (
	"io"
	"time"
)

// MaxFileSizeDefault is the default per-file ceiling (5 MiB)
const MaxFileSizeDefault int64 = 5 << 20

// MaxFilesDefault is the default number of files accepted by one upload request
const MaxFilesDefault = 50

// UploadFieldName is the multipart field carrying images
const UploadFieldName = "images"

// AllowedImageMimeTypes is the whitelist shared by the intake endpoint and the client queue.
var AllowedImageMimeTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// ImageExtensions maps lowercase extensions to MIME types.
// Deterministic, it does not rely on the OS mime database.
var ImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// IsAllowedImageType reports whether mimeType is part of the allow-list
func IsAllowedImageType(mimeType string) bool {
	return AllowedImageMimeTypes[mimeType]
}

// IncomingFile is a file part received by the intake endpoint
type IncomingFile struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.ReadSeeker
}

// StoredFile is the metadata of a file persisted in the upload directory
type StoredFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	Path         string `json:"path"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// ObjectInfo describes a stored object when it is read back
type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}
