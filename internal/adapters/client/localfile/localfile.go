package localfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// File is a domain.FilePayload read from disk or memory
type File struct {
	name        string
	contentType string
	size        int64
	open        func() (io.ReadCloser, error)
}

// FromPath builds a payload for the file at path.
// The content type comes from the extension, unknown extensions give "application/octet-stream".
func FromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &File{
		name:        filepath.Base(path),
		contentType: ContentTypeOf(path),
		size:        info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes builds an in-memory payload
func FromBytes(name, contentType string, data []byte) *File {
	return &File{
		name:        name,
		contentType: contentType,
		size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// ContentTypeOf maps the extension of name to an image MIME type
func ContentTypeOf(name string) string {
	if contentType, ok := domain.ImageExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// Expand resolves files and directories into payloads, directories are read one level deep
func Expand(paths []string) ([]domain.FilePayload, error) {
	var files []domain.FilePayload
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			file, err := FromPath(path)
			if err != nil {
				return nil, err
			}
			files = append(files, file)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			file, err := FromPath(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, err
			}
			files = append(files, file)
		}
	}
	return files, nil
}

func (f *File) Name() string        { return f.name }
func (f *File) ContentType() string { return f.contentType }
func (f *File) Size() int64         { return f.size }

func (f *File) Open() (io.ReadCloser, error) {
	return f.open()
}
