// Package provider talks to the public content APIs: Quran text and
// translations, hadith, tafsir, prayer times and geocoding. Every adapter maps
// provider JSON into canonical types and never retries or caches.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"nur/internal/metrics"
)

const (
	// userAgent identifies the service; nominatim rejects anonymous clients.
	userAgent = "nur/1.0 (+https://github.com/nur-app/nur)"
	// maxBodySize bounds a single response body.
	maxBodySize = 16 << 20
	// maxRedirects is the maximum number of redirects followed per call.
	maxRedirects = 3
)

// ErrTooManyRedirects is returned when a provider keeps redirecting.
var ErrTooManyRedirects = errors.New("too many redirects")

// FetchErrorKind classifies a failed provider call.
type FetchErrorKind string

const (
	KindNetwork    FetchErrorKind = "NETWORK"
	KindHTTPStatus FetchErrorKind = "HTTP_STATUS"
	KindParse      FetchErrorKind = "PARSE"
)

// FetchError is the only error type returned by Client.Request.
type FetchError struct {
	Provider   string
	URL        string
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("%s: %s returned status %d", e.Provider, e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %s error for %s: %v", e.Provider, e.Kind, e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// Client performs single JSON GET requests against one provider.
type Client struct {
	name    string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewClient creates a client. A nil httpClient gets a default one that
// limits redirects; the timeout is applied per call through the context.
func NewClient(name string, httpClient *http.Client, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		name:    name,
		http:    httpClient,
		timeout: timeout,
		logger:  logger.Named(name),
		metrics: m,
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// Name returns the provider name used in logs and errors.
func (c *Client) Name() string {
	return c.name
}

// Request fetches rawURL and returns the body as raw JSON.
func (c *Client) Request(ctx context.Context, rawURL string) (json.RawMessage, error) {
	body, err := c.do(ctx, rawURL)
	if err != nil {
		c.record(err)
		return nil, err
	}
	c.metrics.RecordFetch(c.name, "ok")
	return body, nil
}

// Get fetches rawURL and decodes the JSON body into dest.
func (c *Client) Get(ctx context.Context, rawURL string, dest any) error {
	body, err := c.Request(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		perr := &FetchError{Provider: c.name, URL: rawURL, Kind: KindParse, Err: err}
		c.record(perr)
		return perr
	}
	return nil
}

func (c *Client) do(ctx context.Context, rawURL string) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, &FetchError{Provider: c.name, URL: rawURL, Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: c.name, URL: rawURL, Kind: KindNetwork, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("Provider responded",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{Provider: c.name, URL: rawURL, Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{Provider: c.name, URL: rawURL, Kind: KindNetwork, Err: err}
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, &FetchError{Provider: c.name, URL: rawURL, Kind: KindParse, Err: errors.New("empty body")}
	}
	if !json.Valid(body) {
		return nil, &FetchError{Provider: c.name, URL: rawURL, Kind: KindParse, Err: errors.New("invalid JSON")}
	}

	return body, nil
}

func (c *Client) record(err error) {
	var fe *FetchError
	if errors.As(err, &fe) {
		c.metrics.RecordFetch(c.name, string(fe.Kind))
		c.logger.Warn("Provider request failed",
			zap.String("url", fe.URL),
			zap.String("kind", string(fe.Kind)),
			zap.Int("status", fe.StatusCode),
			zap.Error(fe.Err))
	}
}
