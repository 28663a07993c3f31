package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/toolshelf/toolshelf/pkg/cache"
	"github.com/toolshelf/toolshelf/pkg/config"
	apperrors "github.com/toolshelf/toolshelf/pkg/errors"
	"github.com/toolshelf/toolshelf/pkg/httputil"
	"github.com/toolshelf/toolshelf/pkg/integrations"
)

// Client fetches repository metadata from the GitHub REST API.
//
// Fetch degrades gracefully: not-found repositories, upstream errors, and
// malformed bodies all yield a well-formed empty RepoMeta. The only error
// a caller sees is context cancellation. Rate-limit rejections trigger a
// blocking cooldown sleep followed by a bounded number of retries.
type Client struct {
	api              *integrations.Client
	baseURL          string
	cooldown         time.Duration
	rateLimitRetries int
	logger           *log.Logger
}

// NewClient creates a GitHub client from the given configuration.
// An empty token means unauthenticated requests (lower rate limits).
// Pass nil for store to disable response caching.
func NewClient(cfg config.Config, store cache.Cache, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if cfg.GitHub.Token != "" {
		headers["Authorization"] = "Bearer " + cfg.GitHub.Token
	}

	return &Client{
		api:              integrations.NewClient(cfg.HTTP, store, cfg.Cache.TTL, "github:", headers, isRateLimited),
		baseURL:          cfg.GitHub.BaseURL,
		cooldown:         cfg.HTTP.RateLimitCooldown,
		rateLimitRetries: cfg.HTTP.RateLimitRetries,
		logger:           logger,
	}
}

// isRateLimited reports whether a 403 carries the exhausted-quota header.
// A plain 403 (e.g. a blocked repository) is a terminal upstream error.
func isRateLimited(resp *http.Response) bool {
	return resp.StatusCode == http.StatusForbidden &&
		resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// Platform returns the platform tag this client serves.
func (c *Client) Platform() integrations.Platform { return integrations.PlatformGitHub }

// Fetch retrieves the metadata snapshot for a repository path ("owner/repo").
func (c *Client) Fetch(ctx context.Context, path string) (*integrations.RepoMeta, error) {
	meta := &integrations.RepoMeta{}
	err := c.api.Cached(ctx, path, meta, func() error {
		return c.fetchMeta(ctx, path, meta)
	})
	if err != nil {
		return &integrations.RepoMeta{}, err
	}
	return meta, nil
}

func (c *Client) fetchMeta(ctx context.Context, path string, meta *integrations.RepoMeta) error {
	var data repoResponse
	for attempt := 0; ; attempt++ {
		err := c.api.Get(ctx, fmt.Sprintf("%s/repos/%s", c.baseURL, path), &data)
		if err == nil {
			break
		}
		if errors.Is(err, integrations.ErrNotFound) {
			c.logger.Warnf("GitHub repository not found: %s", path)
			return nil
		}
		if rl, ok := apperrors.AsRateLimited(err); ok && attempt < c.rateLimitRetries {
			wait := c.cooldown
			if rl.RetryAfter > 0 {
				wait = time.Duration(rl.RetryAfter) * time.Second
			}
			c.logger.Warnf("GitHub rate limit reached, waiting %s before retrying %s", wait, path)
			if err := httputil.Sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warnf("GitHub metadata unavailable for %s: %v", path, err)
		return nil
	}

	meta.Stars = data.Stars
	meta.Forks = data.Forks
	if data.License != nil && data.License.SPDXID != "" {
		meta.License = &data.License.SPDXID
	}
	meta.Archived = data.Archived

	if tag, err := c.LatestRelease(ctx, path); err != nil {
		return err
	} else if tag != "" {
		meta.LatestVersion = &tag
	}
	return nil
}

// LatestRelease returns the tag name of the latest release, or "" when
// the repository has no releases or the fetch degrades. Only context
// cancellation is reported as an error.
func (c *Client) LatestRelease(ctx context.Context, path string) (string, error) {
	var data releaseResponse
	err := c.api.Get(ctx, fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, path), &data)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// Repositories without releases answer 404 here; not worth a warning.
		if !errors.Is(err, integrations.ErrNotFound) {
			c.logger.Debugf("GitHub latest release unavailable for %s: %v", path, err)
		}
		return "", nil
	}
	return data.TagName, nil
}

type repoResponse struct {
	Stars    *int         `json:"stargazers_count"`
	Forks    *int         `json:"forks_count"`
	License  *repoLicense `json:"license"`
	Archived bool         `json:"archived"`
}

type repoLicense struct {
	SPDXID string `json:"spdx_id"`
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
}
