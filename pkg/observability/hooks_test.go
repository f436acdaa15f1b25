package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, "planar", 12)
	l.OnLayoutComplete(ctx, "planar", 30, time.Second, nil)
	l.OnRenderStart(ctx, "svg")
	l.OnRenderComplete(ctx, "svg", time.Second, errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/layout")
	s.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testLayoutHooks{}
	SetLayoutHooks(h)

	ctx := context.Background()
	Layout().OnLayoutStart(ctx, "column", 5)
	Layout().OnLayoutComplete(ctx, "column", 30, time.Millisecond, nil)

	if h.started != 1 || h.completed != 1 {
		t.Errorf("got started=%d completed=%d, want 1/1", h.started, h.completed)
	}
	if h.lastKind != "column" {
		t.Errorf("lastKind = %q", h.lastKind)
	}
}

type testLayoutHooks struct {
	NoopLayoutHooks
	started, completed int
	lastKind           string
}

func (h *testLayoutHooks) OnLayoutStart(_ context.Context, kind string, _ int) {
	h.started++
	h.lastKind = kind
}

func (h *testLayoutHooks) OnLayoutComplete(_ context.Context, kind string, _ int, _ time.Duration, _ error) {
	h.completed++
	h.lastKind = kind
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

type testServerHooks struct {
	NoopServerHooks
	requests int
}
