package github

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/toolshelf/toolshelf/pkg/config"
)

func testConfig(baseURL string) config.Config {
	cfg := config.Default()
	cfg.GitHub.BaseURL = baseURL
	cfg.HTTP.Timeout = time.Second
	cfg.HTTP.MaxRetries = 2
	cfg.HTTP.RetryDelay = time.Millisecond
	cfg.HTTP.RateLimitCooldown = 0 // no sleeping in tests
	cfg.HTTP.RateLimitRetries = 2
	return cfg
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestFetchFullMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/releases/latest"):
			io.WriteString(w, `{"tag_name":"v2.0.0"}`)
		case r.URL.Path == "/repos/user/repo":
			io.WriteString(w, `{
				"stargazers_count": 42,
				"forks_count": 10,
				"license": {"spdx_id": "MIT"},
				"archived": false
			}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, quietLogger())
	meta, err := client.Fetch(context.Background(), "user/repo")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if meta.Stars == nil || *meta.Stars != 42 {
		t.Errorf("Stars = %v, want 42", meta.Stars)
	}
	if meta.Forks == nil || *meta.Forks != 10 {
		t.Errorf("Forks = %v, want 10", meta.Forks)
	}
	if meta.License == nil || *meta.License != "MIT" {
		t.Errorf("License = %v, want MIT", meta.License)
	}
	if meta.LatestVersion == nil || *meta.LatestVersion != "v2.0.0" {
		t.Errorf("LatestVersion = %v, want v2.0.0", meta.LatestVersion)
	}
	if meta.Archived {
		t.Error("Archived = true, want false")
	}
}

func TestFetchNotFoundDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, quietLogger())
	meta, err := client.Fetch(context.Background(), "ghost/spectre")
	if err != nil {
		t.Fatalf("Fetch() must not error on 404, got: %v", err)
	}
	if meta.Stars != nil || meta.Forks != nil || meta.License != nil || meta.LatestVersion != nil {
		t.Errorf("meta = %+v, want empty", meta)
	}
	if meta.Archived {
		t.Error("Archived must default to false")
	}
}

func TestFetchNoRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/releases/latest") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"stargazers_count": 5, "archived": true}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, quietLogger())
	meta, err := client.Fetch(context.Background(), "user/unreleased")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if meta.LatestVersion != nil {
		t.Errorf("LatestVersion = %v, want nil when no releases exist", meta.LatestVersion)
	}
	if meta.Stars == nil || *meta.Stars != 5 {
		t.Errorf("Stars = %v, want 5", meta.Stars)
	}
	if !meta.Archived {
		t.Error("Archived = false, want true")
	}
}

func TestFetchRateLimitCooldownAndRetry(t *testing.T) {
	var repoCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/releases/latest") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if repoCalls.Add(1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		io.WriteString(w, `{"stargazers_count": 9}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, quietLogger())
	meta, err := client.Fetch(context.Background(), "user/limited")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if meta.Stars == nil || *meta.Stars != 9 {
		t.Errorf("Stars = %v, want 9 after rate-limit retry", meta.Stars)
	}
	if got := repoCalls.Load(); got != 2 {
		t.Errorf("repo endpoint called %d times, want 2", got)
	}
}

func TestFetchRateLimitRetryCeiling(t *testing.T) {
	var repoCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		repoCalls.Add(1)
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	client := NewClient(cfg, nil, quietLogger())
	meta, err := client.Fetch(context.Background(), "user/always-limited")
	if err != nil {
		t.Fatalf("Fetch() must degrade, got error: %v", err)
	}
	if meta.Stars != nil {
		t.Errorf("meta = %+v, want empty after exhausting rate-limit retries", meta)
	}
	// Initial attempt plus RateLimitRetries cooldown cycles, never unbounded.
	want := int32(cfg.HTTP.RateLimitRetries + 1)
	if got := repoCalls.Load(); got != want {
		t.Errorf("repo endpoint called %d times, want %d", got, want)
	}
}

func TestFetchUpstreamErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden) // plain 403, not a rate limit
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, quietLogger())
	meta, err := client.Fetch(context.Background(), "user/blocked")
	if err != nil {
		t.Fatalf("Fetch() must degrade, got error: %v", err)
	}
	if meta.Stars != nil || meta.License != nil {
		t.Errorf("meta = %+v, want empty", meta)
	}
}

func TestFetchMalformedJSONDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>maintenance</html>")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, quietLogger())
	meta, err := client.Fetch(context.Background(), "user/broken")
	if err != nil {
		t.Fatalf("Fetch() must degrade on malformed JSON, got error: %v", err)
	}
	if meta.Stars != nil {
		t.Errorf("meta = %+v, want empty", meta)
	}
}

func TestFetchContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"stargazers_count": 1}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testConfig(server.URL), nil, quietLogger())
	if _, err := client.Fetch(ctx, "user/repo"); err == nil {
		t.Error("Fetch() should propagate context cancellation")
	}
}

func TestLatestRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/user/repo/releases/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"tag_name":"v1.1"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, quietLogger())
	tag, err := client.LatestRelease(context.Background(), "user/repo")
	if err != nil {
		t.Fatalf("LatestRelease() error: %v", err)
	}
	if tag != "v1.1" {
		t.Errorf("tag = %q, want v1.1", tag)
	}
}
