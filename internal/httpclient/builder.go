package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// RequestBuilder builds HTTP requests with a fluent API.
type RequestBuilder struct {
	method  string
	baseURL string
	path    string
	headers map[string]string
	ctx     context.Context
}

// NewRequest creates a new request builder. Path is appended to baseURL
// verbatim, so a base URL ending in "/" takes a path without a leading one.
func NewRequest(method, baseURL string) *RequestBuilder {
	return &RequestBuilder{
		method:  method,
		baseURL: baseURL,
		headers: make(map[string]string),
		ctx:     context.Background(),
	}
}

// Path sets the URL path
func (b *RequestBuilder) Path(path string) *RequestBuilder {
	b.path = path
	return b
}

// Header adds a header
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.headers[key] = value
	return b
}

// Context sets the context
func (b *RequestBuilder) Context(ctx context.Context) *RequestBuilder {
	b.ctx = ctx
	return b
}

// Build creates the HTTP request
func (b *RequestBuilder) Build() (*http.Request, error) {
	u, err := url.Parse(b.baseURL + b.path)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(b.ctx, b.method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// ExecuteRaw sends the request and returns the 2xx body as raw JSON.
// The body must be valid JSON.
func (b *RequestBuilder) ExecuteRaw(client *Client) (json.RawMessage, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(b.ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode response: body is not valid JSON")
	}
	return json.RawMessage(body), nil
}
