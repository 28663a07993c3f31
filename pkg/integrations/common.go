package integrations

import (
	"errors"
	"net/url"
	"strings"
)

var (
	// ErrNotFound is returned when a repository doesn't exist on the platform.
	ErrNotFound = errors.New("resource not found")

	// ErrUpstream is returned for definitive upstream API failures that
	// carry no retry value (e.g. a plain 403 that is not a rate limit).
	ErrUpstream = errors.New("upstream API error")

	// ErrInvalidJSON is returned when a response body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON body")
)

// Platform identifies a repository hosting platform.
type Platform string

// Supported platforms. PlatformNone marks URLs that belong to neither.
const (
	PlatformGitHub Platform = "github"
	PlatformGitLab Platform = "gitlab"
	PlatformNone   Platform = ""
)

// RepoMeta holds the best-effort metadata snapshot fetched for one
// repository. Every field except Archived is optional: nil means the
// platform did not report it or the fetch degraded.
type RepoMeta struct {
	Stars         *int    `json:"stars"`
	Forks         *int    `json:"forks"`
	License       *string `json:"license"`
	LatestVersion *string `json:"latest_version"`
	Archived      bool    `json:"archived"`
}

// Empty reports whether the snapshot carries nothing: every optional
// field nil and Archived false. This is what a degraded fetch returns.
func (m *RepoMeta) Empty() bool {
	return m.Stars == nil && m.Forks == nil && m.License == nil &&
		m.LatestVersion == nil && !m.Archived
}

// ParseRepoURL classifies a repository URL and extracts the path the
// platform's API expects. GitHub paths keep their owner/name form with
// surrounding slashes and any ".git" suffix stripped; GitLab paths are
// additionally %2F-encoded because the projects API addresses nested
// namespaces with a single path segment. Unrecognized hosts (and empty
// or unparsable input) yield (PlatformNone, "", false).
//
// Pure string transformation, no network access.
func ParseRepoURL(raw string) (Platform, string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PlatformNone, "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return PlatformNone, "", false
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	if path == "" {
		return PlatformNone, "", false
	}

	switch strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") {
	case "github.com":
		return PlatformGitHub, path, true
	case "gitlab.com":
		return PlatformGitLab, strings.ReplaceAll(path, "/", "%2F"), true
	}
	return PlatformNone, "", false
}
