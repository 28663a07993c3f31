package observe

import (
	"context"
	"testing"
	"time"
)

type testEnrichHooks struct{ starts, completes int }

func (h *testEnrichHooks) OnToolStart(context.Context, string, string) { h.starts++ }
func (h *testEnrichHooks) OnToolComplete(context.Context, string, string, bool, time.Duration) {
	h.completes++
}

type testCacheHooks struct{ hits, misses, sets int }

func (h *testCacheHooks) OnHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnMiss(context.Context, string)     { h.misses++ }
func (h *testCacheHooks) OnSet(context.Context, string, int) { h.sets++ }

type testHTTPHooks struct{ requests int }

func (h *testHTTPHooks) OnRequest(context.Context, string)                      { h.requests++ }
func (h *testHTTPHooks) OnResponse(context.Context, string, int, time.Duration) {}
func (h *testHTTPHooks) OnError(context.Context, string, error)                 {}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEnrichHooks{}
	e.OnToolStart(ctx, "ripgrep", "github")
	e.OnToolComplete(ctx, "ripgrep", "github", true, time.Second)

	c := NoopCacheHooks{}
	c.OnHit(ctx, "github:user/repo")
	c.OnMiss(ctx, "gitlab:group%2Fproject")
	c.OnSet(ctx, "github:user/repo", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "https://api.github.com/repos/user/repo")
	h.OnResponse(ctx, "https://api.github.com/repos/user/repo", 200, time.Second)
	h.OnError(ctx, "https://api.github.com/repos/user/repo", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Enrich().(NoopEnrichHooks); !ok {
		t.Error("Enrich() should return NoopEnrichHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	enrich := &testEnrichHooks{}
	SetEnrichHooks(enrich)
	if Enrich() != EnrichHooks(enrich) {
		t.Error("SetEnrichHooks should install the custom hooks")
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	Cache().OnHit(context.Background(), "k")
	if cache.hits != 1 {
		t.Error("registered cache hooks should receive events")
	}

	http := &testHTTPHooks{}
	SetHTTPHooks(http)
	HTTP().OnRequest(context.Background(), "https://example.com")
	if http.requests != 1 {
		t.Error("registered HTTP hooks should receive events")
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	SetEnrichHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if _, ok := Enrich().(NoopEnrichHooks); !ok {
		t.Error("nil registration must not replace the current hooks")
	}
}
