package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	d := NoopDiagramHooks{}
	d.OnLayout("linear", 2, 1, time.Millisecond)
	d.OnDraw(2, 1, time.Millisecond)
	d.OnSelect("8.3", "2")
	d.OnHover("8.3", "")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "info")
	c.OnCacheMiss(ctx, "info")
	c.OnCacheSet(ctx, "info", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "beta.lmfdb.org", "/Groups/Abstract/subinfo/8.3/2")
	h.OnResponse(ctx, "GET", "beta.lmfdb.org", "/Groups/Abstract/subinfo/8.3/2", 200, time.Second)
	h.OnError(ctx, "GET", "beta.lmfdb.org", "/Groups/Abstract/subinfo/8.3/2", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Diagram().(NoopDiagramHooks); !ok {
		t.Error("Diagram() should return NoopDiagramHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	custom := &testDiagramHooks{}
	SetDiagramHooks(custom)
	Diagram().OnSelect("8.3", "4")
	if custom.selected != "4" {
		t.Errorf("custom hook not called, selected = %q", custom.selected)
	}

	SetDiagramHooks(nil)
	if Diagram() != DiagramHooks(custom) {
		t.Error("SetDiagramHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Diagram().(NoopDiagramHooks); !ok {
		t.Error("Reset() should restore NoopDiagramHooks")
	}
}

type testDiagramHooks struct {
	NoopDiagramHooks
	selected string
}

func (h *testDiagramHooks) OnSelect(_, key string) { h.selected = key }
