package htmlflow

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// handle is the state shared by View and ViewAsync: the frozen chain, the
// configuration and the render visitors. In shared mode one visitor serves
// every call and overlapping calls are rejected. In thread safe mode every
// concurrent render borrows its own visitor from a pool.
type handle[T any] struct {
	chain  *chain[T]
	info   ChainInfo
	config *viewConfig
	logger *zap.Logger
	async  bool

	shared atomic.Pointer[renderer[T]]
	busy   atomic.Bool
	pool   *sync.Pool
}

func newHandle[T any](c *chain[T], config *viewConfig, async bool) *handle[T] {
	h := &handle[T]{
		chain:  c,
		info:   chainInfo(c),
		config: config,
		logger: config.logger.With(zap.String(LogFieldView, config.name)),
		async:  async,
	}
	if config.threadSafe {
		h.pool = &sync.Pool{New: func() any {
			return h.newRenderer()
		}}
	} else {
		h.shared.Store(h.newRenderer())
	}
	return h
}

// construct discovers tmpl and builds the handle for it.
func construct[T any](tmpl Template[T], async bool, opts []Option) (*handle[T], error) {
	config := newViewConfig(opts)
	if err := config.validate(); err != nil {
		return nil, err
	}
	c, err := discover(tmpl, async, config)
	if err != nil {
		return nil, err
	}
	h := newHandle(c, config, async)
	h.logger.Debug(LogMsgViewCreated,
		zap.Bool(LogFieldIndented, config.indented),
		zap.Bool(LogFieldThreadSafe, config.threadSafe),
		zap.Bool(LogFieldAsync, async))
	return h, nil
}

func (h *handle[T]) newRenderer() *renderer[T] {
	h.config.metrics.observeVisitor(h.config.name)
	h.logger.Debug(LogMsgVisitorCreated, zap.Bool(LogFieldIndented, h.config.indented))
	return newRenderer[T](h.config.indented, h.async)
}

// derive returns a handle over the same chain with a modified configuration.
// The chain is never discovered again.
func (h *handle[T]) derive(configure func(c *viewConfig)) *handle[T] {
	config := h.config.clone()
	configure(config)
	d := newHandle(h.chain, config, h.async)
	d.logger.Debug(LogMsgViewCloned,
		zap.Bool(LogFieldIndented, config.indented),
		zap.Bool(LogFieldThreadSafe, config.threadSafe))
	return d
}

func (h *handle[T]) threadSafe() (*handle[T], error) {
	if h.config.out != nil {
		return nil, NewInvalidConfigError(ErrMsgThreadSafeStream, OpThreadSafe)
	}
	return h.derive(func(c *viewConfig) { c.threadSafe = true }), nil
}

func (h *handle[T]) setIndented(indented bool) *handle[T] {
	return h.derive(func(c *viewConfig) { c.indented = indented })
}

func (h *handle[T]) acquire(op string) (*renderer[T], error) {
	if h.pool != nil {
		return h.pool.Get().(*renderer[T]), nil
	}
	if !h.busy.CompareAndSwap(false, true) {
		return nil, NewInvalidUsageError(ErrMsgConcurrentSharedUse, op)
	}
	return h.shared.Load(), nil
}

// release returns r to the handle. A renderer left behind by a canceled
// render is dropped and, in shared mode, replaced.
func (h *handle[T]) release(r *renderer[T]) {
	if r.tainted() {
		h.logger.Debug(LogMsgVisitorDiscarded)
		if h.pool == nil {
			h.shared.Store(h.newRenderer())
			h.busy.Store(false)
		}
		return
	}
	r.clear()
	if h.pool != nil {
		h.pool.Put(r)
		return
	}
	h.busy.Store(false)
}

func (h *handle[T]) requireStatic(op string) error {
	if !h.chain.IsStatic() {
		return NewInvalidUsageError(ErrMsgModelRequired, op)
	}
	return nil
}

// render replays the chain against model and writes to out, or to the
// renderer's buffer when out is nil, whose content is then returned.
func (h *handle[T]) render(ctx context.Context, op string, out io.Writer, model T) (html string, err error) {
	r, err := h.acquire(op)
	if err != nil {
		return "", err
	}
	defer h.release(r)

	mode := ModeSync
	if h.async {
		mode = ModeAsync
	}
	start := time.Now()
	ctx, span := h.config.tracer.Start(ctx, SpanNameRender, trace.WithAttributes(
		attribute.String(AttrKeyView, h.config.name),
		attribute.String(AttrKeyMode, mode),
		attribute.Int(AttrKeyNodes, h.info.Nodes)))
	defer span.End()

	h.logger.Debug(LogMsgRenderStart, zap.String(LogFieldMode, mode))

	r.reset(ctx, out, model)
	if h.async {
		err = r.resolveRecover(h.chain)
	} else {
		err = r.resolve(h.chain)
	}
	if out == nil && !r.tainted() {
		html = r.html()
	}

	h.config.metrics.observeRender(h.config.name, mode, start, err)
	switch {
	case err == nil:
		h.logger.Debug(LogMsgRenderEnd, zap.String(LogFieldMode, mode), zap.Int(LogFieldBytes, len(html)))
	case IsCanceled(err):
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Debug(LogMsgRenderCanceled, zap.String(LogFieldMode, mode), zap.Error(err))
	case IsAsyncStepFailure(err):
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Debug(LogMsgAsyncStepFailed, zap.Int(LogFieldNode, r.node), zap.Error(err))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Debug(LogMsgRenderFailed, zap.String(LogFieldMode, mode), zap.Error(err))
	}
	return html, err
}

// renderAny renders a model of unknown type, as the engine and the HTTP
// handler do. A nil model is accepted by views without dynamic nodes.
func (h *handle[T]) renderAny(ctx context.Context, w io.Writer, model any) error {
	var typed T
	switch m := model.(type) {
	case T:
		typed = m
	case nil:
		if err := h.requireStatic(OpRender); err != nil {
			return err
		}
	default:
		return NewModelTypeError(h.config.name, model)
	}
	_, err := h.render(ctx, OpRender, w, typed)
	return err
}
