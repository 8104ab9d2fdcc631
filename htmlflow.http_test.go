package htmlflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linksFromQuery(r *http.Request) (any, error) {
	hrefs := r.URL.Query()["href"]
	if len(hrefs) == 0 {
		return nil, errors.New("missing href")
	}
	m := testLinks{}
	for _, h := range hrefs {
		m.Links = append(m.Links, testLink{Href: h, Text: strings.ToUpper(h)})
	}
	return m, nil
}

func TestNewHandler(t *testing.T) {
	t.Run("nil view", func(t *testing.T) {
		_, err := NewHandler(nil, nil)
		require.Error(t, err)
		assert.True(t, IsInvalidUsage(err))
	})

	t.Run("shared view", func(t *testing.T) {
		_, err := NewHandler(MustNew(linksTemplate), linksFromQuery)
		require.Error(t, err)
		assert.True(t, IsInvalidConfig(err))
		assert.Contains(t, err.Error(), ErrMsgHandlerShared)
	})
}

func TestHandler_ServeHTTP(t *testing.T) {
	v := MustNew(linksTemplate, WithIndented(false), WithThreadSafe(), WithName("links"))
	h, err := NewHandler(v, linksFromQuery)
	require.NoError(t, err)

	t.Run("renders the page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?href=a&href=b", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ContentTypeHTML, rec.Header().Get("Content-Type"))
		assert.Equal(t, `<div><span><a href="a">A</a><a href="b">B</a></span></div>`, rec.Body.String())
	})

	t.Run("model error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing href")
	})

	t.Run("render error", func(t *testing.T) {
		bad, err := NewHandler(v, func(*http.Request) (any, error) { return 42, nil })
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		bad.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("static view without model func", func(t *testing.T) {
		static := MustNew(func(p *Page[NoModel]) {
			p.Html().Body().Text("ok")
		}, WithIndented(false), WithThreadSafe())
		sh, err := NewHandler(static, nil)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		sh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<!DOCTYPE html><html><body>ok</body></html>", rec.Body.String())
	})
}

func TestHandler_Async(t *testing.T) {
	base := MustNewAsync(func(p *Page[string]) {
		p.P().Await(func(ctx context.Context, e *Element[string], s string) <-chan error {
			if s == "block" {
				return make(chan error)
			}
			e.Text(s)
			return nil
		})
	}, WithIndented(false))
	v, err := base.ThreadSafe()
	require.NoError(t, err)

	h, err := NewHandler(v, func(r *http.Request) (any, error) {
		return r.URL.Query().Get("s"), nil
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?s=hi", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>hi</p>", rec.Body.String())

	t.Run("request canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		req := httptest.NewRequest(http.MethodGet, "/?s=block", nil).WithContext(ctx)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandler_Cache(t *testing.T) {
	calls := 0
	v := MustNew(func(p *Page[string]) {
		p.P().Dynamic(func(e *Element[string], s string) {
			calls++
			e.Text(s)
		})
	}, WithIndented(false), WithThreadSafe(), WithName("cached"))

	cache := NewRenderCache(DefaultRenderCacheConfig())
	h, err := NewHandler(v, func(r *http.Request) (any, error) {
		return r.URL.Query().Get("s"), nil
	}, WithHandlerCache(cache))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?s=x", nil))
		assert.Equal(t, "<p>x</p>", rec.Body.String())
		assert.Equal(t, ContentTypeHTML, rec.Header().Get("Content-Type"))
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(2), cache.Stats().Hits)
}
