package htmlflow

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"
)

// HTTP constants
const (
	ContentTypeHTML   = "text/html; charset=utf-8"
	headerContentType = "Content-Type"
)

// ModelFunc derives the model of a page from the request.
type ModelFunc func(r *http.Request) (any, error)

// HandlerOption is a functional option for configuring a page handler.
type HandlerOption func(*pageHandler)

// WithHandlerLogger sets the logger for the handler.
// Default: nil (no logging)
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *pageHandler) {
		h.logger = logger
	}
}

// WithHandlerCache caches rendered pages by model.
// Default: nil (no caching)
func WithHandlerCache(cache *RenderCache) HandlerOption {
	return func(h *pageHandler) {
		h.cache = cache
	}
}

type pageHandler struct {
	view   Renderer
	model  ModelFunc
	cache  *RenderCache
	logger *zap.Logger
}

// NewHandler returns an http.Handler that renders view for each request.
// Requests are served concurrently, so view must be thread safe. A nil
// model func renders views without dynamic nodes.
func NewHandler(view Renderer, model ModelFunc, opts ...HandlerOption) (http.Handler, error) {
	if view == nil {
		return nil, NewInvalidUsageError(ErrMsgNilView, OpNewHandler)
	}
	if !view.IsThreadSafe() {
		return nil, NewInvalidConfigError(ErrMsgHandlerShared, OpNewHandler)
	}
	h := &pageHandler{view: view, model: model}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	h.logger = h.logger.With(zap.String(LogFieldView, view.Name()))
	return h, nil
}

func (h *pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var model any
	if h.model != nil {
		m, err := h.model(r)
		if err != nil {
			h.logger.Debug(LogMsgHandlerFailed, zap.String(LogFieldPath, r.URL.Path), zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		model = m
	}

	if h.cache != nil {
		if html, ok := h.cache.Get(h.view.Name(), model); ok {
			h.logger.Debug(LogMsgCacheHit, zap.String(LogFieldPath, r.URL.Path))
			h.write(w, html)
			return
		}
	}

	var buf bytes.Buffer
	if err := h.view.RenderAny(r.Context(), &buf, model); err != nil {
		h.logger.Error(LogMsgHandlerFailed, zap.String(LogFieldPath, r.URL.Path), zap.Error(err))
		status := http.StatusInternalServerError
		if IsCanceled(err) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, http.StatusText(status), status)
		return
	}
	html := buf.String()
	if h.cache != nil {
		h.cache.Set(h.view.Name(), model, html)
	}
	h.write(w, html)
}

func (h *pageHandler) write(w http.ResponseWriter, html string) {
	w.Header().Set(headerContentType, ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		h.logger.Debug(LogMsgHandlerFailed, zap.Error(err))
	}
}
