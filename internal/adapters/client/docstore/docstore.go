package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// Client implements port.DocumentStore over /api/v1/documents.
// nil patch values are sent as JSON null, which the server treats as a field removal.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a document store client
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

var _ port.DocumentStore = (*Client)(nil)

func (c *Client) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint(collection), data, http.StatusCreated, &created); err != nil {
		return "", err
	}
	c.logger.Debug("document added", "collection", collection, "id", created.ID)
	return created.ID, nil
}

func (c *Client) GetAll(ctx context.Context, collection string) ([]domain.Document, error) {
	var list struct {
		Documents []domain.Document `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint(collection), nil, http.StatusOK, &list); err != nil {
		return nil, err
	}
	return list.Documents, nil
}

func (c *Client) Get(ctx context.Context, collection string, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := c.do(ctx, http.MethodGet, c.endpoint(collection, id), nil, http.StatusOK, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) Update(ctx context.Context, collection string, id string, patch map[string]any) error {
	return c.do(ctx, http.MethodPatch, c.endpoint(collection, id), patch, http.StatusNoContent, nil)
}

func (c *Client) Delete(ctx context.Context, collection string, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint(collection, id), nil, http.StatusNoContent, nil)
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.PathEscape(part)
	}
	return c.baseURL + "/api/v1/documents/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, endpoint string, in any, expected int, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	client.SetBearer(req, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		return mapError(client.DecodeError(resp))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from %s: %w", endpoint, err)
	}
	return nil
}

func mapError(apiErr *client.APIError) error {
	switch apiErr.StatusCode {
	case http.StatusNotFound:
		if strings.Contains(apiErr.Message, domain.ErrUnknownCollection.Error()) {
			return fmt.Errorf("%w: %w", domain.ErrUnknownCollection, apiErr)
		}
		return fmt.Errorf("%w: %w", domain.ErrDocumentNotFound, apiErr)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, apiErr)
	default:
		return apiErr
	}
}
