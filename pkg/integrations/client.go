package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/toolshelf/toolshelf/pkg/cache"
	"github.com/toolshelf/toolshelf/pkg/config"
	apperrors "github.com/toolshelf/toolshelf/pkg/errors"
	"github.com/toolshelf/toolshelf/pkg/httputil"
	"github.com/toolshelf/toolshelf/pkg/observe"
)

// RateLimitFunc reports whether a response is a rate-limit rejection.
// GitHub signals exhaustion with 403 + X-RateLimit-Remaining: 0, GitLab
// with a plain 429, so classification belongs to the platform client.
type RateLimitFunc func(resp *http.Response) bool

// Client provides shared HTTP functionality for the platform API clients:
// default headers, bounded retry with exponential backoff, terminal
// status classification, and response caching.
//
// Status handling follows the enrichment taxonomy: 200 succeeds, 404
// maps to [ErrNotFound], 403/429 map to either a rate-limit error or
// [ErrUpstream], and every other status (plus transport errors) is
// retried with backoff up to the configured ceiling.
type Client struct {
	http        *http.Client
	cache       cache.Cache
	cacheTTL    time.Duration
	prefix      string
	headers     map[string]string
	maxRetries  int
	retryDelay  time.Duration
	rateLimited RateLimitFunc
}

// NewClient creates a shared client. The prefix namespaces cache keys
// (e.g. "github:"). Pass nil headers if no defaults are needed, and a
// [cache.NullCache] to disable caching.
func NewClient(cfg config.HTTP, store cache.Cache, cacheTTL time.Duration, prefix string, headers map[string]string, rateLimited RateLimitFunc) *Client {
	if store == nil {
		store = cache.NewNullCache()
	}
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		cache:       store,
		cacheTTL:    cacheTTL,
		prefix:      prefix,
		headers:     headers,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		rateLimited: rateLimited,
	}
}

// Cached retrieves a value from the cache or executes fetch and caches
// the result. The fetch function should populate v; on success, v is
// stored under the client's key prefix.
func (c *Client) Cached(ctx context.Context, key string, v any, fetch func() error) error {
	if data, hit, _ := c.cache.Get(ctx, c.prefix+key); hit {
		if err := json.Unmarshal(data, v); err == nil {
			observe.Cache().OnHit(ctx, c.prefix+key)
			return nil
		}
		// Corrupt entry, fall through to a fresh fetch.
		_ = c.cache.Delete(ctx, c.prefix+key)
	}
	observe.Cache().OnMiss(ctx, c.prefix+key)
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, c.prefix+key, data, c.cacheTTL)
		observe.Cache().OnSet(ctx, c.prefix+key, len(data))
	}
	return nil
}

// Get performs an HTTP GET with retry and JSON-decodes the response into v.
// Decode failures return [ErrInvalidJSON] so callers can degrade to empty
// metadata rather than aborting.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := httputil.Retry(ctx, c.maxRetries, c.retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		observe.HTTP().OnRequest(ctx, url)
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			observe.HTTP().OnError(ctx, url, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return httputil.Retryable(fmt.Errorf("%s: %v", url, err))
		}
		defer resp.Body.Close()
		observe.HTTP().OnResponse(ctx, url, resp.StatusCode, time.Since(start))

		if err := c.checkStatus(resp); err != nil {
			return err
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return httputil.Retryable(fmt.Errorf("read %s: %v", url, err))
		}
		return nil
	})
	return body, err
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		if c.rateLimited != nil && c.rateLimited(resp) {
			return &apperrors.RateLimitedError{RetryAfter: retryAfterSeconds(resp.Header)}
		}
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	default:
		return httputil.Retryable(fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode))
	}
}

func retryAfterSeconds(h http.Header) int {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return secs
		}
	}
	return 0
}
