package httputil

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/lmfdb/latticeview/pkg/buildinfo"
	"github.com/lmfdb/latticeview/pkg/cache"
	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/observability"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 8 << 20

// Client performs GET requests with caching, retry and observability.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	ttl      time.Duration
	attempts int
	delay    time.Duration
	headers  map[string]string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient creates a Client. A nil store disables caching.
func NewClient(store cache.Cache, ttl time.Duration, opts ...ClientOption) *Client {
	if store == nil {
		store = cache.NewNullCache()
	}
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		cache:    store,
		ttl:      ttl,
		attempts: 3,
		delay:    time.Second,
		headers:  map[string]string{"User-Agent": buildinfo.UserAgent()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cached returns the cached body for key, or calls fetch with retry and
// stores its result. If refresh is true the cache is not consulted.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return data, nil
		}
	}
	var data []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		data, err = fetch()
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, data, c.ttl)
	return data, nil
}

// Get fetches url and returns the body. The service name labels the request
// in HTTP hooks. Transient failures come back wrapped in RetryableError.
func (c *Client) Get(ctx context.Context, service, url string) ([]byte, error) {
	hooks := observability.HTTP()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad url %q", url)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks.OnRequest(ctx, service, http.MethodGet, url)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, service, http.MethodGet, url, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		code := errors.ErrCodeNetwork
		var te interface{ Timeout() bool }
		if stderrors.As(err, &te) && te.Timeout() {
			code = errors.ErrCodeTimeout
		}
		return nil, Retryable(errors.Wrap(code, err, "fetch %s", url))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, service, http.MethodGet, url, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url))
	}
	return body, nil
}

func checkStatus(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: status %d", url, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)
	}
}
