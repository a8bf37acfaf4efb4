// Package api wraps all outbound calls to the remote merchandising service.
// It normalizes every failure mode (non-2xx status, network error, decode
// error) into a single *RemoteError so callers have one type to handle, and
// logs each failure for diagnostics without blocking the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is where the service listens when nothing is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// RemoteError is the one failure type for remote calls. Status and Body are
// zero for transport-level failures (network unreachable, malformed JSON),
// where Cause carries the underlying error instead.
type RemoteError struct {
	Status     int
	StatusText string
	Body       string
	Cause      error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%d %s: %s", e.Status, e.StatusText, e.Body)
	}
	return fmt.Sprintf("remote call failed: %v", e.Cause)
}

func (e *RemoteError) Unwrap() error { return e.Cause }

// Address is the swappable base-address handle. Each request reads the
// address once at issue time, so an update takes effect for subsequent calls
// while in-flight calls keep the address they were issued with.
type Address struct {
	mu  sync.RWMutex
	url string
}

// NewAddress returns a handle pointing at raw, or DefaultBaseURL when empty.
func NewAddress(raw string) *Address {
	if raw == "" {
		raw = DefaultBaseURL
	}
	return &Address{url: strings.TrimSuffix(raw, "/")}
}

// Get returns the current base URL.
func (a *Address) Get() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.url
}

// Set replaces the base URL for all subsequent requests.
func (a *Address) Set(raw string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.url = strings.TrimSuffix(raw, "/")
}

// Client talks JSON over HTTP to the remote service. The zero value is not
// usable; construct with NewClient.
type Client struct {
	addr   *Address
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a client around the given address handle. Passing a nil
// logger is allowed and silences diagnostics. No timeout is imposed beyond
// whatever the supplied http.Client carries; the service contract has no
// client-side deadline.
func NewClient(addr *Address, logger *zap.Logger) *Client {
	if addr == nil {
		addr = NewAddress("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		addr:   addr,
		http:   &http.Client{},
		logger: logger,
	}
}

// Addr exposes the address handle so the owner can rewire the base URL at
// runtime.
func (c *Client) Addr() *Address { return c.addr }

// SetBaseURL rewires the base address for subsequent requests. In-flight
// requests keep the address they captured at issue time.
func (c *Client) SetBaseURL(raw string) { c.addr.Set(raw) }

// SetTimeout imposes a per-request deadline on top of any context deadline.
// Zero means no client-side timeout.
func (c *Client) SetTimeout(d time.Duration) { c.http.Timeout = d }

// do issues one request. body is JSON-encoded when non-nil. On success the
// response is decoded into result: JSON bodies unmarshal into it, plain-text
// bodies require result to be a *string. A nil result discards the body.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	base := c.addr.Get() // captured once; later Set calls do not affect this request
	fullURL := base + path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return c.fail(method, path, &RemoteError{Cause: fmt.Errorf("encode request: %w", err)})
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return c.fail(method, path, &RemoteError{Cause: err})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(method, path, &RemoteError{Cause: err})
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(method, path, &RemoteError{Cause: fmt.Errorf("read response: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Body text travels verbatim into the error message.
		return c.fail(method, path, &RemoteError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(text),
		})
	}

	if result == nil {
		return nil
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(text, result); err != nil {
			return c.fail(method, path, &RemoteError{Cause: fmt.Errorf("decode response: %w", err)})
		}
		return nil
	}

	// Plain-text response; only a *string destination can hold it.
	s, ok := result.(*string)
	if !ok {
		return c.fail(method, path, &RemoteError{Cause: fmt.Errorf("unexpected non-JSON response: %q", truncate(string(text), 120))})
	}
	*s = string(text)
	return nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// fail logs a failure and returns it unchanged.
func (c *Client) fail(method, path string, err *RemoteError) error {
	c.logger.Warn("remote call failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", err.Status),
		zap.Error(err))
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
