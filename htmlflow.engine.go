package htmlflow

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Renderer is a view rendered with a model of unknown type. Both View and
// ViewAsync implement it.
type Renderer interface {
	Name() string
	IsThreadSafe() bool
	RenderAny(ctx context.Context, w io.Writer, model any) error
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger for the engine.
// Default: nil (no logging)
func WithEngineLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRenderCache caches rendered output by view name and model.
// Default: nil (no caching)
func WithRenderCache(cache *RenderCache) EngineOption {
	return func(e *Engine) {
		e.cache = cache
	}
}

// Engine is a registry of named views. Views are discovered once, when they
// are created, and the engine shares them between callers.
type Engine struct {
	views  map[string]Renderer
	mu     sync.RWMutex
	cache  *RenderCache
	logger *zap.Logger
}

// NewEngine creates an empty engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{views: make(map[string]Renderer)}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Register adds a view under its name.
// Returns an error if a view with the same name is already registered.
func (e *Engine) Register(r Renderer) error {
	if r == nil {
		return NewInvalidUsageError(ErrMsgNilView, OpRegister)
	}
	name := r.Name()
	if name == "" {
		return NewInvalidUsageError(ErrMsgEmptyViewName, OpRegister)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.views[name]; exists {
		return NewViewExistsError(name)
	}
	e.views[name] = r
	e.logger.Debug(LogMsgViewRegistered,
		zap.String(LogFieldView, name),
		zap.Bool(LogFieldThreadSafe, r.IsThreadSafe()))
	return nil
}

// MustRegister adds a view and panics if registration fails.
func (e *Engine) MustRegister(r Renderer) {
	if err := e.Register(r); err != nil {
		panic(err)
	}
}

// Get returns the view registered under name.
func (e *Engine) Get(name string) (Renderer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r, ok := e.views[name]
	if !ok {
		return nil, NewViewNotFoundError(name)
	}
	return r, nil
}

// Has reports whether a view is registered under name.
func (e *Engine) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.views[name]
	return ok
}

// List returns the registered view names in sorted order.
func (e *Engine) List() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.views))
	for name := range e.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered views.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.views)
}

// Unregister removes the view registered under name and its cached output.
// Returns true if a view was removed.
func (e *Engine) Unregister(name string) bool {
	e.mu.Lock()
	_, ok := e.views[name]
	delete(e.views, name)
	e.mu.Unlock()

	if ok {
		if e.cache != nil {
			e.cache.InvalidateView(name)
		}
		e.logger.Debug(LogMsgViewUnregistered, zap.String(LogFieldView, name))
	}
	return ok
}

// Render renders the named view with model and returns the markup.
func (e *Engine) Render(ctx context.Context, name string, model any) (string, error) {
	r, err := e.Get(name)
	if err != nil {
		return "", err
	}
	if e.cache != nil {
		if html, ok := e.cache.Get(name, model); ok {
			e.logger.Debug(LogMsgCacheHit, zap.String(LogFieldView, name))
			return html, nil
		}
	}

	var buf bytes.Buffer
	if err := r.RenderAny(ctx, &buf, model); err != nil {
		return "", err
	}
	html := buf.String()
	if e.cache != nil {
		e.cache.Set(name, model, html)
	}
	return html, nil
}

// RenderTo renders the named view with model to w.
func (e *Engine) RenderTo(ctx context.Context, w io.Writer, name string, model any) error {
	if e.cache != nil {
		html, err := e.Render(ctx, name, model)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	}
	r, err := e.Get(name)
	if err != nil {
		return err
	}
	return r.RenderAny(ctx, w, model)
}

// Cache returns the render cache, or nil if the engine has none.
func (e *Engine) Cache() *RenderCache {
	return e.cache
}
