// Package integrations provides shared plumbing for the hosting-platform
// API clients (GitHub, GitLab).
//
// The shared [Client] handles GET requests with default headers, a fixed
// per-request timeout, retry with exponential backoff for transient
// failures, rate-limit classification, and optional response caching.
// Platform specifics (base URLs, auth headers, which status signals a
// rate limit, response field names) live in the subpackages.
//
// [ParseRepoURL] is the pure URL classifier that decides which platform
// client a catalog entry is dispatched to.
package integrations
