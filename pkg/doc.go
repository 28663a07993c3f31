// Package pkg provides the core libraries for toolshelf catalog enrichment.
//
// # Overview
//
// Toolshelf maintains JSON catalogs of external tools and enriches each
// entry with live repository metadata. The pkg directory is organized
// into these areas:
//
//  1. [catalog] - Domain types (catalog records, category normalization)
//  2. [enrich] - Orchestration (enrichment pipeline, version bumping)
//  3. [integrations] - External API clients (GitHub, GitLab)
//  4. [cache] / [config] / [errors] / [httputil] / [observe] - Infrastructure
//
// # Architecture
//
// The typical data flow through toolshelf:
//
//	JSON catalog file (or MongoDB collection)
//	         ↓
//	    [catalog] package (decode + normalize records)
//	         ↓
//	    [enrich] package (classify URLs, fetch, merge)
//	         ↓
//	    [integrations] package (GitHub/GitLab REST clients)
//	         ↓
//	    enriched catalog output
//
// # Quick Start
//
// Enrich a catalog file:
//
//	import (
//	    "context"
//	    "github.com/toolshelf/toolshelf/pkg/catalog/store"
//	    "github.com/toolshelf/toolshelf/pkg/config"
//	    "github.com/toolshelf/toolshelf/pkg/enrich"
//	    "github.com/toolshelf/toolshelf/pkg/integrations/github"
//	    "github.com/toolshelf/toolshelf/pkg/integrations/gitlab"
//	)
//
//	cfg, _ := config.Load("")
//	s := store.NewFileStore("tools.json", "")
//	cat, _ := s.Load(context.Background())
//
//	e := enrich.New(nil, cfg.Categories.Synonyms,
//	    github.NewClient(cfg, nil, nil),
//	    gitlab.NewClient(cfg, nil, nil),
//	)
//	report, _ := e.Enrich(context.Background(), cat)
//	_ = s.Save(context.Background(), cat)
//
// # Main Packages
//
// [catalog] - Catalog records with passthrough of unrecognized JSON
// fields, category synonym folding, and version placeholder rewriting.
//
// [catalog/store] - Catalog persistence: JSON files (with derived
// "_enhanced" output paths) and a MongoDB collection backend.
//
// [enrich] - The enrichment pipeline and the release-driven version
// bump routine. Fetch failures degrade per tool instead of aborting
// the run.
//
// [integrations] - Shared HTTP client (retry, status taxonomy, response
// caching) plus the GitHub and GitLab platform clients with bounded
// rate-limit cooldown handling.
//
// [cache] - Byte-level cache with file, Redis, and null backends.
//
// [config] - Explicit configuration value resolved from defaults, an
// optional TOML file, and credential environment variables.
//
// [errors] - Coded errors for stable classification across packages.
//
// [httputil] - Retry with exponential backoff and retryable error
// marking.
//
// [observe] - No-op instrumentation hooks for enrichment, cache, and
// HTTP events; real backends register at startup.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/enrich/...       # Specific package
//
// [catalog]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/catalog
// [catalog/store]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/catalog/store
// [enrich]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/enrich
// [integrations]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/cache
// [config]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/config
// [errors]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/httputil
// [observe]: https://pkg.go.dev/github.com/toolshelf/toolshelf/pkg/observe
package pkg
