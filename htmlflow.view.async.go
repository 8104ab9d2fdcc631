package htmlflow

import (
	"context"
	"fmt"
	"io"
)

// Result is the outcome of an asynchronous render. On a step failure HTML
// holds the output written so far; on cancellation it is empty.
type Result struct {
	HTML string
	Err  error
}

// ViewAsync is a page handle whose template may contain Await blocks. A
// render runs on its own goroutine and waits for each pending step in
// template order, so output is always written in the order of the template
// regardless of the order in which steps complete.
type ViewAsync[T any] struct {
	h *handle[T]
}

// NewAsync discovers tmpl and returns an async view for it.
func NewAsync[T any](tmpl Template[T], opts ...Option) (*ViewAsync[T], error) {
	h, err := construct(tmpl, true, opts)
	if err != nil {
		return nil, err
	}
	return &ViewAsync[T]{h: h}, nil
}

// MustNewAsync is like NewAsync but panics if the template cannot be
// discovered.
func MustNewAsync[T any](tmpl Template[T], opts ...Option) *ViewAsync[T] {
	v, err := NewAsync(tmpl, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the view name.
func (v *ViewAsync[T]) Name() string {
	return v.h.config.name
}

// RenderAsync starts rendering the view with model. The returned channel
// receives exactly one Result and is then closed. A canceled render reports
// empty HTML; markup written before the cancellation is only observable on
// views that stream through WithOutput.
func (v *ViewAsync[T]) RenderAsync(ctx context.Context, model T) <-chan Result {
	results := make(chan Result, 1)
	if v.h.config.out != nil {
		results <- Result{Err: NewInvalidUsageError(ErrMsgRenderOnStream, OpRenderAsync)}
		close(results)
		return results
	}
	go func() {
		defer close(results)
		html, err := v.h.render(ctx, OpRenderAsync, nil, model)
		results <- Result{HTML: html, Err: err}
	}()
	return results
}

// Render renders the view with model and blocks until the result is ready
// or ctx ends.
func (v *ViewAsync[T]) Render(ctx context.Context, model T) (string, error) {
	res := <-v.RenderAsync(ctx, model)
	return res.HTML, res.Err
}

// WriteAsync starts rendering the view with model to the stream configured
// WithOutput. The returned channel receives the outcome and is then closed.
func (v *ViewAsync[T]) WriteAsync(ctx context.Context, model T) <-chan error {
	done := make(chan error, 1)
	if v.h.config.out == nil {
		done <- NewInvalidUsageError(ErrMsgWriteOnBuffer, OpWrite)
		close(done)
		return done
	}
	go func() {
		defer close(done)
		_, err := v.h.render(ctx, OpWrite, v.h.config.out, model)
		done <- err
	}()
	return done
}

// RenderTo renders the view with model to w and blocks until it is done.
func (v *ViewAsync[T]) RenderTo(ctx context.Context, w io.Writer, model T) error {
	_, err := v.h.render(ctx, OpRender, w, model)
	return err
}

// RenderAny renders to w with a model of unknown type and blocks until it is
// done.
func (v *ViewAsync[T]) RenderAny(ctx context.Context, w io.Writer, model any) error {
	return v.h.renderAny(ctx, w, model)
}

// ThreadSafe returns an async view over the same chain in which every
// concurrent render gets its own visitor.
func (v *ViewAsync[T]) ThreadSafe() (*ViewAsync[T], error) {
	h, err := v.h.threadSafe()
	if err != nil {
		return nil, err
	}
	return &ViewAsync[T]{h: h}, nil
}

// SetIndented returns an async view over the same chain with pretty
// printing switched on or off.
func (v *ViewAsync[T]) SetIndented(indented bool) *ViewAsync[T] {
	return &ViewAsync[T]{h: v.h.setIndented(indented)}
}

// IsThreadSafe reports whether the view may be rendered concurrently.
func (v *ViewAsync[T]) IsThreadSafe() bool {
	return v.h.config.threadSafe
}

// IsIndented reports whether the view pretty prints.
func (v *ViewAsync[T]) IsIndented() bool {
	return v.h.config.indented
}

// Chain summarizes the continuation chain found during discovery.
func (v *ViewAsync[T]) Chain() ChainInfo {
	return v.h.info
}

// Go runs fn on a new goroutine and returns a channel that yields its error.
// It is the usual way to start the work behind an Await block. A panic in
// fn is reported as an error.
func Go(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("%s: %v", ErrMsgAsyncPanic, rec)
			}
		}()
		done <- fn()
	}()
	return done
}
