package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSearchHooks{}
	s.OnSearchStart(ctx, "bfs")
	s.OnSearchProgress(ctx, "bfs", SearchStats{Expanded: 256})
	s.OnSearchComplete(ctx, "bfs", SearchStats{Found: true, Expanded: 4}, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "solution")
	c.OnCacheMiss(ctx, "solution")
	c.OnCacheSet(ctx, "solution", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/solve")
	h.OnResponse(ctx, "POST", "/v1/solve", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Search() should return NoopSearchHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customSearch := &testSearchHooks{}
	SetSearchHooks(customSearch)
	if Search() != customSearch {
		t.Error("SetSearchHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Reset() should restore NoopSearchHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSearchHooks{}
	SetSearchHooks(custom)

	SetSearchHooks(nil)

	if Search() != custom {
		t.Error("SetSearchHooks(nil) should be ignored")
	}

	Reset()
}

type testSearchHooks struct{ NoopSearchHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
