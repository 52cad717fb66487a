// Package remote talks to the archive service over HTTP.
//
// The service exposes four endpoints: the dataset catalogue, a per-dataset
// text-tree listing, an API manual, and the archive download. Listing-style
// requests are bounded by a timeout; the download is a single streamed GET
// whose lifetime is governed by the caller's context.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// APIKeyHeader carries the caller's key on download requests.
	APIKeyHeader = "apikey"

	// DefaultTimeout bounds listing, catalogue and manual requests.
	DefaultTimeout = 60 * time.Second

	// maxErrorBody caps how much of a failed response is kept.
	maxErrorBody = 64 << 10

	userAgent = "aihub-cli"
)

// ArchiveRequest identifies the files of one dataset to download.
type ArchiveRequest struct {
	DatasetKey string
	APIKey     string

	// FileKeys is the comma-separated fileSn list
	FileKeys string
}

func (r ArchiveRequest) validate() error {
	if strings.TrimSpace(r.DatasetKey) == "" {
		return ErrEmptyDatasetKey
	}
	if r.APIKey == "" {
		return ErrMissingAPIKey
	}
	if r.FileKeys == "" {
		return ErrNoFileKeys
	}
	return nil
}

// Transfer is an open download stream. The caller must close Body.
type Transfer struct {
	Body   io.ReadCloser
	Status int

	// ContentLength is -1 when the service did not announce a length
	ContentLength int64
}

// Client is the HTTP client for the archive service.
type Client struct {
	endpoints Endpoints
	http      *http.Client
	stream    *http.Client
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds listing, catalogue and manual requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the transport used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = &http.Client{Transport: hc.Transport, Timeout: hc.Timeout}
		c.stream = &http.Client{Transport: hc.Transport}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the given endpoints.
func NewClient(endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		endpoints: endpoints,
		http:      &http.Client{Timeout: DefaultTimeout},
		stream:    &http.Client{},
		log:       log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the endpoints the client was built with.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Listing fetches the text-tree listing of a dataset.
func (c *Client) Listing(ctx context.Context, datasetKey string) (string, error) {
	if strings.TrimSpace(datasetKey) == "" {
		return "", ErrEmptyDatasetKey
	}

	body, contentType, err := c.get(ctx, "listing", c.endpoints.Listing(datasetKey))
	if err != nil {
		return "", err
	}
	return DecodeText(body, contentType), nil
}

// Head asks the service for the size of the archive it would send.
// It returns 0 when no length is announced or the service does not support
// HEAD (405). A transport failure or any other status of 400 and above is an
// error.
func (c *Client) Head(ctx context.Context, req ArchiveRequest) (int64, error) {
	if err := req.validate(); err != nil {
		return 0, err
	}

	u := c.endpoints.Download(req.DatasetKey, req.FileKeys)
	httpReq, err := c.newRequest(ctx, http.MethodHead, u)
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set(APIKeyHeader, req.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to query archive size: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().Str("url", u).Int("status", resp.StatusCode).Int64("content_length", resp.ContentLength).Msg("head")

	if resp.StatusCode == http.StatusMethodNotAllowed {
		return 0, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return 0, &StatusError{Op: "head", URL: u, Code: resp.StatusCode}
	}
	if resp.ContentLength < 0 {
		return 0, nil
	}
	return resp.ContentLength, nil
}

// Open starts the archive download. A 200 or 206 response is returned as a
// Transfer; any other status is reported as a *StatusError carrying the
// response body.
func (c *Client) Open(ctx context.Context, req ArchiveRequest) (*Transfer, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	u := c.endpoints.Download(req.DatasetKey, req.FileKeys)
	httpReq, err := c.newRequest(ctx, http.MethodGet, u)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set(APIKeyHeader, req.APIKey)

	resp, err := c.stream.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to start download: %w", err)
	}

	c.log.Debug().Str("url", u).Int("status", resp.StatusCode).Int64("content_length", resp.ContentLength).Msg("download")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Op: "download", URL: u, Code: resp.StatusCode, Body: string(body)}
	}

	return &Transfer{
		Body:          resp.Body,
		Status:        resp.StatusCode,
		ContentLength: resp.ContentLength,
	}, nil
}

// get performs a bounded GET and returns the body and its content type.
func (c *Client) get(ctx context.Context, op, u string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, u)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().Str("url", u).Int("status", resp.StatusCode).Msg(op)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", &StatusError{Op: op, URL: u, Code: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", op, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) newRequest(ctx context.Context, method, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}
