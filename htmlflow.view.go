package htmlflow

import (
	"context"
	"io"
)

// View is a synchronous page handle. Its template is discovered once, when
// the view is created, and every render replays the resulting chain.
//
// By default a view writes into an in-memory buffer and hands out the
// result as a string. With WithOutput it writes to a stream instead. A view
// is not safe for concurrent use unless it was created WithThreadSafe or
// derived with ThreadSafe.
type View[T any] struct {
	h *handle[T]
}

// New discovers tmpl and returns a view for it.
func New[T any](tmpl Template[T], opts ...Option) (*View[T], error) {
	h, err := construct(tmpl, false, opts)
	if err != nil {
		return nil, err
	}
	return &View[T]{h: h}, nil
}

// MustNew is like New but panics if the template cannot be discovered.
func MustNew[T any](tmpl Template[T], opts ...Option) *View[T] {
	v, err := New(tmpl, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the view name.
func (v *View[T]) Name() string {
	return v.h.config.name
}

// Render renders the view with model and returns the markup.
func (v *View[T]) Render(model T) (string, error) {
	if v.h.config.out != nil {
		return "", NewInvalidUsageError(ErrMsgRenderOnStream, OpRender)
	}
	return v.h.render(context.Background(), OpRender, nil, model)
}

// RenderStatic renders a view that does not depend on a model.
func (v *View[T]) RenderStatic() (string, error) {
	if err := v.h.requireStatic(OpRender); err != nil {
		return "", err
	}
	var zero T
	return v.Render(zero)
}

// Write renders the view with model to the stream configured WithOutput.
func (v *View[T]) Write(model T) error {
	if v.h.config.out == nil {
		return NewInvalidUsageError(ErrMsgWriteOnBuffer, OpWrite)
	}
	_, err := v.h.render(context.Background(), OpWrite, v.h.config.out, model)
	return err
}

// WriteStatic writes a view that does not depend on a model to the stream
// configured WithOutput.
func (v *View[T]) WriteStatic() error {
	if err := v.h.requireStatic(OpWrite); err != nil {
		return err
	}
	var zero T
	return v.Write(zero)
}

// RenderTo renders the view with model to w.
func (v *View[T]) RenderTo(w io.Writer, model T) error {
	_, err := v.h.render(context.Background(), OpRender, w, model)
	return err
}

// RenderAny renders to w with a model of unknown type. It fails with an
// Invalid Usage error if model is not a T.
func (v *View[T]) RenderAny(ctx context.Context, w io.Writer, model any) error {
	return v.h.renderAny(ctx, w, model)
}

// ThreadSafe returns a view over the same chain in which every concurrent
// render gets its own visitor. Views writing to a stream cannot be made
// thread safe.
func (v *View[T]) ThreadSafe() (*View[T], error) {
	h, err := v.h.threadSafe()
	if err != nil {
		return nil, err
	}
	return &View[T]{h: h}, nil
}

// SetIndented returns a view over the same chain with pretty printing
// switched on or off. Thread safety is preserved.
func (v *View[T]) SetIndented(indented bool) *View[T] {
	return &View[T]{h: v.h.setIndented(indented)}
}

// IsThreadSafe reports whether the view may be rendered concurrently.
func (v *View[T]) IsThreadSafe() bool {
	return v.h.config.threadSafe
}

// IsIndented reports whether the view pretty prints.
func (v *View[T]) IsIndented() bool {
	return v.h.config.indented
}

// Chain summarizes the continuation chain found during discovery.
func (v *View[T]) Chain() ChainInfo {
	return v.h.info
}
