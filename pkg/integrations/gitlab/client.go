package gitlab

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

// Client fetches project metadata from the GitLab REST API.
//
// It has the same degradation contract as the GitHub client: failures
// yield a well-formed empty RepoMeta, and only context cancellation is
// reported as an error. GitLab does not expose a latest-release shortcut
// the way GitHub does, so LatestVersion is never populated.
type Client struct {
	api              *integrations.Client
	baseURL          string
	cooldown         time.Duration
	rateLimitRetries int
	logger           *log.Logger
}

// NewClient creates a GitLab client from the given configuration.
// An empty token means unauthenticated requests.
func NewClient(cfg config.Config, store cache.Cache, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	var headers map[string]string
	if cfg.GitLab.Token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": cfg.GitLab.Token}
	}

	return &Client{
		api:              integrations.NewClient(cfg.HTTP, store, cfg.Cache.TTL, "gitlab:", headers, isRateLimited),
		baseURL:          cfg.GitLab.BaseURL,
		cooldown:         cfg.HTTP.RateLimitCooldown,
		rateLimitRetries: cfg.HTTP.RateLimitRetries,
		logger:           logger,
	}
}

// isRateLimited: GitLab answers 429 when the rate limit is exhausted.
func isRateLimited(resp *http.Response) bool {
	return resp.StatusCode == http.StatusTooManyRequests
}

// Platform returns the platform tag this client serves.
func (c *Client) Platform() integrations.Platform { return integrations.PlatformGitLab }

// Fetch retrieves the metadata snapshot for an encoded project path
// (e.g. "group%2Fproject").
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
	var data projectResponse
	for attempt := 0; ; attempt++ {
		err := c.api.Get(ctx, fmt.Sprintf("%s/projects/%s", c.baseURL, path), &data)
		if err == nil {
			break
		}
		if errors.Is(err, integrations.ErrNotFound) {
			c.logger.Warnf("GitLab project not found: %s", path)
			return nil
		}
		if rl, ok := apperrors.AsRateLimited(err); ok && attempt < c.rateLimitRetries {
			wait := c.cooldown
			if rl.RetryAfter > 0 {
				wait = time.Duration(rl.RetryAfter) * time.Second
			}
			c.logger.Warnf("GitLab rate limit reached, waiting %s before retrying %s", wait, path)
			if err := httputil.Sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warnf("GitLab metadata unavailable for %s: %v", path, err)
		return nil
	}

	meta.Stars = data.Stars
	meta.Forks = data.Forks
	if data.License != nil && data.License.Name != "" {
		meta.License = &data.License.Name
	}
	meta.Archived = data.Archived
	return nil
}

type projectResponse struct {
	Stars    *int            `json:"star_count"`
	Forks    *int            `json:"forks_count"`
	License  *projectLicense `json:"license"`
	Archived bool            `json:"archived"`
}

type projectLicense struct {
	Name string `json:"name"`
}
