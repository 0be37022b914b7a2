package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/yamlviz/pkg/observability"
)

// DefaultTimeout bounds a single request made by a Client.
const DefaultTimeout = 60 * time.Second

// maxErrorBody is how much of an error response body is kept.
const maxErrorBody = 512

// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
var ErrNetwork = errors.New("network error")

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Client sends JSON requests with a fixed set of default headers.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client. Pass nil for hc to use a client with
// DefaultTimeout, and nil for headers if no default headers are needed.
func NewClient(hc *http.Client, headers map[string]string) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{http: hc, headers: headers}
}

// PostJSON encodes body as JSON, posts it to url and decodes a successful
// response into v. Request-specific headers override client defaults for the
// same key. Transient failures are returned as *RetryableError.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err := &StatusError{StatusCode: code, Body: strings.TrimSpace(string(data))}
	if code >= 500 || code == http.StatusTooManyRequests {
		return &RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, err), After: retryAfter(resp.Header)}
	}
	return err
}
