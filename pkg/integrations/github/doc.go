// Package github implements the GitHub REST client used for catalog
// enrichment. It fetches repository metadata from /repos/{path} and the
// latest release tag from /repos/{path}/releases/latest, treating a 403
// with an exhausted X-RateLimit-Remaining header as the rate-limit
// signal.
package github
