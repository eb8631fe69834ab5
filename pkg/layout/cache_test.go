package layout

import (
	"context"
	"testing"

	"github.com/citescope/citescope/pkg/cache"
)

func TestCachedRunHitRestoresPositions(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	opts := DefaultOptions(1280, 800)
	ctx := context.Background()

	g1 := citationGraph(t)
	res1 := CachedRun(ctx, g1, opts, c)
	want := positionsOf(g1)

	// Second run on a fresh copy must hit and restore the same layout.
	g2 := citationGraph(t)
	res2 := CachedRun(ctx, g2, opts, c)

	if res1.Residual != res2.Residual || res1.Clean != res2.Clean {
		t.Errorf("cached result %+v differs from original %+v", res2, res1)
	}
	for id, p := range positionsOf(g2) {
		if p != want[id] {
			t.Errorf("node %s restored at %v, want %v", id, p, want[id])
		}
	}
}

func TestCachedRunKeyIncludesOptions(t *testing.T) {
	g := citationGraph(t)
	a, okA := layoutKey(g, DefaultOptions(1280, 800))
	b, okB := layoutKey(g, DefaultOptions(800, 600))
	if !okA || !okB {
		t.Fatal("layoutKey failed")
	}
	if a == b {
		t.Error("different canvas sizes must produce different cache keys")
	}
}

func TestCachedRunNilCache(t *testing.T) {
	g := citationGraph(t)
	res := CachedRun(context.Background(), g, DefaultOptions(1280, 800), nil)
	if res.Iterations == 0 {
		t.Error("nil cache should fall back to a plain run")
	}
}

func TestCachedRunNullCacheAlwaysMisses(t *testing.T) {
	c := cache.NewNullCache()
	opts := DefaultOptions(1280, 800)
	ctx := context.Background()

	g1 := citationGraph(t)
	CachedRun(ctx, g1, opts, c)
	g2 := citationGraph(t)
	res := CachedRun(ctx, g2, opts, c)

	// A miss runs the engine, which reports its iteration budget.
	if res.Iterations != opts.Iterations {
		t.Errorf("null cache should force a fresh run, got %+v", res)
	}
}

func TestApplyCachedRejectsPartialCoverage(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, nil)
	data := []byte(`{"positions":{"a":{"x":1,"y":2}},"residual":0,"clean":true}`)
	if _, ok := applyCached(g, data); ok {
		t.Error("entry missing node b must be rejected")
	}

	full := []byte(`{"positions":{"a":{"x":1,"y":2},"b":{"x":3,"y":4}},"residual":0,"clean":true}`)
	res, ok := applyCached(g, full)
	if !ok || !res.Clean {
		t.Fatalf("full entry rejected: ok=%v res=%+v", ok, res)
	}
	if g.Node("a").X != 1 || g.Node("b").Y != 4 {
		t.Error("positions not applied")
	}
}
