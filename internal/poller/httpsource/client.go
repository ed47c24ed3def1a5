// internal/poller/httpsource/client.go
package httpsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tamzrod/counter-reconciler/internal/reconcile"
)

// DefaultPath is the backend route serving the counter snapshot.
const DefaultPath = "/update_data"

// maxBody bounds the snapshot read; the payload is a handful of integers.
const maxBody = 1 << 20

// CodeTransport is the status block error code for a request that never got a response.
const CodeTransport uint16 = 1

// FetchError is a transport failure or any response other than 200 OK.
type FetchError struct {
	StatusCode int // 0 for transport failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("httpsource: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("httpsource: request failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Code returns the HTTP status, or CodeTransport if there was none.
func (e *FetchError) Code() uint16 {
	if e.StatusCode > 0 && e.StatusCode <= 0xFFFF {
		return uint16(e.StatusCode)
	}
	return CodeTransport
}

// Config is minimal transport config.
type Config struct {
	BaseURL string
	Path    string
	Timeout time.Duration
}

// Client implements poller.Source over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// New creates a client for cfg.BaseURL + cfg.Path.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("httpsource: base url required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("httpsource: invalid base url: %w", err)
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	u = u.JoinPath(cfg.Path)

	return &Client{url: u.String(), httpClient: httpClient}, nil
}

// URL is the full snapshot endpoint.
func (c *Client) URL() string { return c.url }

// Fetch performs one GET and decodes the counter snapshot.
// Transport and status failures return *FetchError; a body that is not a
// flat object of integers returns *reconcile.ValidationError.
func (c *Client) Fetch(ctx context.Context) (reconcile.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("read body: %w", err)}
	}

	return reconcile.DecodeSnapshot(body)
}
