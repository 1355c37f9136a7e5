package domain

import "errors"

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrNoFiles is an error thrown when an upload request carries no file
var ErrNoFiles = errors.New("no files uploaded")

// ErrInvalidFileType is an error thrown when file type is invalid
var ErrInvalidFileType = errors.New("invalid file type. Only JPEG, PNG, GIF, WebP and SVG images are allowed")

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = errors.New("file too large")

// ErrTooManyFiles is an error thrown when an upload request carries too many files
var ErrTooManyFiles = errors.New("too many files")

// ErrInvalidFilename is an error thrown when a filename is not a bare name
var ErrInvalidFilename = errors.New("invalid filename")

// ErrFileNotFound is an error thrown when a stored file does not exist
var ErrFileNotFound = errors.New("file not found")

// ErrDocumentNotFound is an error thrown when document is not found
var ErrDocumentNotFound = errors.New("document not found")

// ErrUnknownCollection is an error thrown when a collection is not part of the catalog
var ErrUnknownCollection = errors.New("unknown collection")

// ErrItemNotFound is an error thrown when an upload queue entry does not exist
var ErrItemNotFound = errors.New("upload item not found")

// ErrInvalidTransition is an error thrown when an upload item status would move backwards
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrParentNotFound is an error thrown when a taxonomy parent does not exist
var ErrParentNotFound = errors.New("parent not found")

// ErrHasChildren is an error thrown when deleting a taxonomy node that still has children
var ErrHasChildren = errors.New("entity still has children")

// ErrUnauthorized is an error thrown when a bearer token is missing or invalid
var ErrUnauthorized = errors.New("unauthorized")
