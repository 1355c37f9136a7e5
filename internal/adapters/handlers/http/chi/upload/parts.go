package upload

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// partSpool collects the image parts of one request.
// Every part header is kept so validation sees the whole request, but only
// parts that may be stored keep their content: up to maxFiles parts of at
// most maxFileSize bytes. Other contents are drained and only measured.
type partSpool struct {
	maxFileSize int64
	maxFiles    int
	memLeft     int64
	temps       []*os.File
}

func newPartSpool(maxFileSize int64, maxFiles int, memory int64) *partSpool {
	return &partSpool{maxFileSize: maxFileSize, maxFiles: maxFiles, memLeft: memory}
}

// collect reads every part of reader. truncated reports that the body limit
// stopped the read, the returned files are then the ones seen so far.
func (s *partSpool) collect(reader *multipart.Reader) (files []domain.IncomingFile, truncated bool, err error) {
	for {
		part, nextErr := reader.NextPart()
		if errors.Is(nextErr, io.EOF) {
			return files, false, nil
		}
		if nextErr != nil {
			if isBodyLimit(nextErr) {
				return files, true, nil
			}
			return files, false, nextErr
		}

		if part.FormName() != domain.UploadFieldName || part.FileName() == "" {
			_, drainErr := io.Copy(io.Discard, part)
			part.Close()
			if drainErr != nil {
				return files, isBodyLimit(drainErr), keepUnlessLimit(drainErr)
			}
			continue
		}

		file := domain.IncomingFile{
			OriginalName: part.FileName(),
			MimeType:     part.Header.Get("Content-Type"),
			Content:      bytes.NewReader(nil),
		}
		keep := len(files) < s.maxFiles

		var readErr error
		if keep {
			file.Content, file.Size, readErr = s.spool(part)
		} else {
			file.Size, readErr = io.Copy(io.Discard, part)
		}
		part.Close()

		if readErr != nil {
			if !isBodyLimit(readErr) {
				return files, false, readErr
			}
			// within the count cap the limit can only be reached by an oversized part
			if keep {
				file.Size = max(file.Size, s.maxFileSize+1)
			}
			return append(files, file), true, nil
		}
		files = append(files, file)
	}
}

// spool buffers at most maxFileSize bytes of part, in memory while the budget
// lasts then in a temp file. Larger parts are drained and return no content.
func (s *partSpool) spool(part io.Reader) (io.ReadSeeker, int64, error) {
	limited := io.LimitReader(part, s.maxFileSize+1)

	var content io.ReadSeeker
	var n int64
	var err error
	if s.memLeft > s.maxFileSize {
		var buf bytes.Buffer
		n, err = buf.ReadFrom(limited)
		s.memLeft -= n
		content = bytes.NewReader(buf.Bytes())
	} else {
		var tmp *os.File
		tmp, err = os.CreateTemp("", "upload-*")
		if err != nil {
			return nil, 0, err
		}
		s.temps = append(s.temps, tmp)
		n, err = io.Copy(tmp, limited)
		if err == nil {
			_, err = tmp.Seek(0, io.SeekStart)
		}
		content = tmp
	}
	if err != nil {
		return bytes.NewReader(nil), n, err
	}

	if n > s.maxFileSize {
		rest, drainErr := io.Copy(io.Discard, part)
		return bytes.NewReader(nil), n + rest, drainErr
	}
	return content, n, nil
}

// cleanup removes the temp files written by spool
func (s *partSpool) cleanup() error {
	var errs []error
	for _, tmp := range s.temps {
		errs = append(errs, tmp.Close(), os.Remove(tmp.Name()))
	}
	s.temps = nil
	return errors.Join(errs...)
}

func isBodyLimit(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func keepUnlessLimit(err error) error {
	if isBodyLimit(err) {
		return nil
	}
	return err
}
