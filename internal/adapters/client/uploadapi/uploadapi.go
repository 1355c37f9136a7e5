package uploadapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Client talks to /api/upload and /api/delete/{filename}
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an upload API client. token may be empty when the server runs without auth.
func NewClient(baseURL, token string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		logger:     logger,
	}
}

var _ port.UploadAPI = (*Client)(nil)

type uploadResponse struct {
	Message string              `json:"message"`
	Files   []domain.StoredFile `json:"files"`
}

// Upload sends file as a single part of the images field
func (c *Client) Upload(ctx context.Context, file domain.FilePayload, progress port.ProgressFunc) (*domain.StoredFile, error) {
	body, contentType, err := encode(file)
	if err != nil {
		return nil, err
	}

	reader := &progressReader{reader: bytes.NewReader(body), total: int64(len(body)), report: progress}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", reader)
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	client.SetBearer(req, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload of %s failed: %w", file.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, client.DecodeError(resp)
	}

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid upload response: %w", err)
	}
	if len(payload.Files) != 1 {
		return nil, fmt.Errorf("expected one stored file, server returned %d", len(payload.Files))
	}

	c.logger.Debug("file stored", "original", file.Name(), "filename", payload.Files[0].Filename)
	return &payload.Files[0], nil
}

// Delete removes a stored file. A 404 is reported as domain.ErrFileNotFound.
func (c *Client) Delete(ctx context.Context, filename string) error {
	endpoint := c.baseURL + "/api/delete/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	client.SetBearer(req, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete of %s failed: %w", filename, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrFileNotFound, client.DecodeError(resp).Error())
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrInvalidFilename, client.DecodeError(resp).Error())
	default:
		return client.DecodeError(resp)
	}
}

// encode buffers the multipart body so its length is known for progress reporting
func encode(file domain.FilePayload) ([]byte, string, error) {
	content, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("could not open %s: %w", file.Name(), err)
	}
	defer content.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, domain.UploadFieldName, quoteEscaper.Replace(file.Name())))
	header.Set("Content-Type", file.ContentType())

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("could not read %s: %w", file.Name(), err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

type progressReader struct {
	reader *bytes.Reader
	total  int64
	read   int64
	last   int
	report port.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.reader.Read(b)
	p.read += int64(n)
	if p.report != nil && p.total > 0 {
		percent := int(p.read * 100 / p.total)
		if percent != p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}
