package htmlflow

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	e := NewEngine(opts...)
	links, err := New(linksTemplate, WithName("links"), WithIndented(false), WithThreadSafe())
	require.NoError(t, err)
	require.NoError(t, e.Register(links))

	greeting, err := NewAsync(func(p *Page[string]) {
		p.H1().Await(func(ctx context.Context, el *Element[string], name string) <-chan error {
			el.Text("Hello " + name)
			return nil
		})
	}, WithName("greeting"), WithIndented(false))
	require.NoError(t, err)
	require.NoError(t, e.Register(greeting))
	return e
}

func TestEngine_Registry(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, 2, e.Count())
	assert.Equal(t, []string{"greeting", "links"}, e.List())
	assert.True(t, e.Has("links"))
	assert.False(t, e.Has("missing"))

	r, err := e.Get("links")
	require.NoError(t, err)
	assert.Equal(t, "links", r.Name())
	assert.True(t, r.IsThreadSafe())

	t.Run("unknown view", func(t *testing.T) {
		_, err := e.Get("missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgViewNotFound)
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := e.Register(MustNew(linksTemplate, WithName("links")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgViewExists)
		assert.Panics(t, func() {
			e.MustRegister(MustNew(linksTemplate, WithName("links")))
		})
	})

	t.Run("nil view", func(t *testing.T) {
		err := e.Register(nil)
		require.Error(t, err)
		assert.True(t, IsInvalidUsage(err))
	})

	t.Run("unregister", func(t *testing.T) {
		e := newTestEngine(t)
		assert.True(t, e.Unregister("links"))
		assert.False(t, e.Unregister("links"))
		assert.Equal(t, []string{"greeting"}, e.List())
	})
}

func TestEngine_Render(t *testing.T) {
	e := newTestEngine(t)

	html, err := e.Render(t.Context(), "links", scenarioLinks)
	require.NoError(t, err)
	assert.Equal(t, scenarioCompact, html)

	html, err = e.Render(t.Context(), "greeting", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello Ada</h1>", html)

	var buf bytes.Buffer
	require.NoError(t, e.RenderTo(t.Context(), &buf, "links", scenarioLinks))
	assert.Equal(t, scenarioCompact, buf.String())

	t.Run("wrong model type", func(t *testing.T) {
		_, err := e.Render(t.Context(), "links", 42)
		require.Error(t, err)
		assert.True(t, IsInvalidUsage(err))
	})

	t.Run("unknown view", func(t *testing.T) {
		_, err := e.Render(t.Context(), "missing", nil)
		require.Error(t, err)
		err = e.RenderTo(t.Context(), &buf, "missing", nil)
		require.Error(t, err)
	})
}

func TestEngine_RenderCache(t *testing.T) {
	cache := NewRenderCache(RenderCacheConfig{})
	e := newTestEngine(t, WithRenderCache(cache))
	assert.Same(t, cache, e.Cache())

	for i := 0; i < 3; i++ {
		html, err := e.Render(t.Context(), "links", scenarioLinks)
		require.NoError(t, err)
		assert.Equal(t, scenarioCompact, html)
	}
	stats := cache.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.EntryCount)

	var buf bytes.Buffer
	require.NoError(t, e.RenderTo(t.Context(), &buf, "links", scenarioLinks))
	assert.Equal(t, scenarioCompact, buf.String())
	assert.Equal(t, int64(3), cache.Stats().Hits)

	// Failed renders are not cached
	_, err := e.Render(t.Context(), "links", 42)
	require.Error(t, err)
	assert.Equal(t, 1, cache.Stats().EntryCount)

	e.Unregister("links")
	assert.Equal(t, 0, cache.Stats().EntryCount)
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, err := e.Render(context.Background(), "links", scenarioLinks)
			assert.NoError(t, err)
			assert.Equal(t, scenarioCompact, html)
			_ = e.List()
		}()
	}
	wg.Wait()
}
