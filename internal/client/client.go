package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docfront/internal/model"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8001/api"

// Client talks to the document API. It never retries and sets no
// timeout of its own; cancellation comes from the caller's context.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// New creates a client for baseURL whose transport propagates trace context.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// createResponse covers both shapes the API answers a create with: the
// bare document, or a {success, message, data} envelope.
type createResponse struct {
	model.Document
	Success *bool           `json:"success"`
	Data    *model.Document `json:"data"`
}

// List returns every document, in server order.
func (c *Client) List(ctx context.Context) ([]model.Document, error) {
	var out []model.Document
	if err := c.do(ctx, http.MethodGet, "documento", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Document{}
	}
	return out, nil
}

// Get returns a single document by id.
func (c *Client) Get(ctx context.Context, id int64) (*model.Document, error) {
	var out model.Document
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("documento/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits a new document. The returned document is nil when the
// server only acknowledges the request.
func (c *Client) Create(ctx context.Context, in model.DocumentInput) (*model.Document, error) {
	in.ID = 0
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "documento/create", in, &resp); err != nil {
		return nil, err
	}
	switch {
	case resp.Data != nil:
		return resp.Data, nil
	case resp.Success == nil && resp.ID != 0:
		doc := resp.Document
		return &doc, nil
	default:
		return nil, nil
	}
}

// Update replaces the mutable fields of document id.
func (c *Client) Update(ctx context.Context, id int64, in model.DocumentInput) error {
	in.ID = id
	return c.do(ctx, http.MethodPut, fmt.Sprintf("documento/update/%d", id), in, nil)
}

// Delete removes document id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("documento/delete/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &NetworkError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return newServerError(resp.StatusCode, b)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
