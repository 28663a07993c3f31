// Package observe provides instrumentation hooks for enrichment runs,
// cache operations, and outgoing API calls.
//
// Hooks keep the libraries free of hard dependencies on any metrics
// backend: the defaults are no-ops, and main registers real
// implementations at startup when instrumentation is wanted.
//
//	func main() {
//	    observe.SetEnrichHooks(&myEnrichHooks{})
//	    // ... run application
//	}
package observe

import (
	"context"
	"sync"
	"time"
)

// EnrichHooks receives events from the enrichment pipeline.
type EnrichHooks interface {
	// OnToolStart records that a catalog entry is about to be processed.
	OnToolStart(ctx context.Context, name, platform string)

	// OnToolComplete records the outcome for one catalog entry.
	// enriched is false when the entry was skipped.
	OnToolComplete(ctx context.Context, name, platform string, enriched bool, duration time.Duration)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnHit(ctx context.Context, key string)
	OnMiss(ctx context.Context, key string)
	OnSet(ctx context.Context, key string, size int)
}

// HTTPHooks receives events from outgoing API calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, url string)
	OnResponse(ctx context.Context, url string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, url string, err error)
}

// NoopEnrichHooks is a no-op implementation of EnrichHooks.
type NoopEnrichHooks struct{}

func (NoopEnrichHooks) OnToolStart(context.Context, string, string) {}
func (NoopEnrichHooks) OnToolComplete(context.Context, string, string, bool, time.Duration) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)      {}
func (NoopCacheHooks) OnMiss(context.Context, string)     {}
func (NoopCacheHooks) OnSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, error)                 {}

var (
	enrichHooks EnrichHooks = NoopEnrichHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetEnrichHooks registers custom enrichment hooks. Call once at startup
// before any runs.
func SetEnrichHooks(h EnrichHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		enrichHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Enrich returns the registered enrichment hooks.
func Enrich() EnrichHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return enrichHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	enrichHooks = NoopEnrichHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
