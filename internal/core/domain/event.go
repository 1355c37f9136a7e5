package domain

import "time"

// EventType is a type that represents the type of an event
type EventType string

const (
	EventTypeFileUploaded EventType = "files.uploaded"
	EventTypeFileDeleted  EventType = "files.deleted"
)

// FileEvent is published on the broker every time the upload directory changes
type FileEvent struct {
	Type       EventType `json:"type"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size,omitempty"`
	MimeType   string    `json:"mimetype,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
