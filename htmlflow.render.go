package htmlflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/itsatony/go-htmlflow/internal"
)

// renderer is the render visitor. It replays a chain against a model and
// runs blocks registered inside blocks inline. A renderer is owned by one
// render at a time: handles either serialize access to it or give every
// goroutine its own.
type renderer[T any] struct {
	w     *internal.Writer
	buf   bytes.Buffer
	ctx   context.Context
	model T
	async bool
	node  int

	// canceled is set when the render context ends while a step is pending.
	// The step may still write into the renderer, so from then on it is
	// never touched again. stopped mirrors it for the step's goroutine.
	canceled error
	stopped  atomic.Bool
}

func newRenderer[T any](indented, async bool) *renderer[T] {
	r := &renderer[T]{async: async, ctx: context.Background()}
	r.w = internal.NewWriter(&r.buf, indented)
	return r
}

// reset prepares the renderer for a render to out. A nil out selects the
// renderer's own buffer.
func (r *renderer[T]) reset(ctx context.Context, out io.Writer, model T) {
	r.buf.Reset()
	if out == nil {
		out = &r.buf
	}
	r.w.Reset(out)
	r.ctx = ctx
	r.model = model
	r.node = 0
	r.canceled = nil
	r.stopped.Store(false)
}

// clear drops the references held by the last render.
func (r *renderer[T]) clear() {
	var zero T
	r.model = zero
	r.ctx = context.Background()
	r.w.Reset(&r.buf)
}

// stop ends the render with err and detaches the renderer from its output.
func (r *renderer[T]) stop(err error) {
	r.canceled = err
	r.stopped.Store(true)
}

func (r *renderer[T]) tainted() bool {
	return r.stopped.Load()
}

func (r *renderer[T]) html() string {
	return r.buf.String()
}

func (r *renderer[T]) live() bool {
	return !r.stopped.Load()
}

func (r *renderer[T]) beginTag(tag string) {
	if r.live() {
		r.w.BeginTag(tag)
	}
}

func (r *renderer[T]) attr(name, value string) {
	if r.live() {
		r.w.Attr(name, value)
	}
}

func (r *renderer[T]) text(s string) {
	if r.live() {
		r.w.Text(s)
	}
}

func (r *renderer[T]) raw(s string) {
	if r.live() {
		r.w.Raw(s)
	}
}

func (r *renderer[T]) comment(s string) {
	if r.live() {
		r.w.Comment(s)
	}
}

func (r *renderer[T]) endTag(tag string) {
	if r.live() {
		r.w.EndTag(tag)
	}
}

func (r *renderer[T]) fail(err error) {
	if r.live() {
		r.w.Fail(err)
	}
}

// dynamic runs a block registered while another block was running.
func (r *renderer[T]) dynamic(e *Element[T], fn DynamicFunc[T]) {
	if !r.live() {
		return
	}
	if fn == nil {
		r.w.Fail(NewInvalidUsageError(ErrMsgNilBlock, OpRender))
		return
	}
	if !r.w.CloseBeginTag(e.tag) {
		return
	}
	r.block(e.tag, r.w.Depth(), func(b *Element[T]) {
		fn(b, r.model)
	})
}

// await runs an async block registered while another block was running and
// waits for it in place.
func (r *renderer[T]) await(e *Element[T], fn AwaitFunc[T]) {
	if !r.live() {
		return
	}
	if !r.async {
		r.w.Fail(NewInvalidUsageError(ErrMsgAwaitInSyncView, OpRender))
		return
	}
	if fn == nil {
		r.w.Fail(NewInvalidUsageError(ErrMsgNilBlock, OpRender))
		return
	}
	if !r.w.CloseBeginTag(e.tag) {
		return
	}
	r.block(e.tag, r.w.Depth(), func(b *Element[T]) {
		r.fail(r.wait(fn(r.ctx, b, r.model)))
	})
}

// block runs one step against a borrowed element standing for the element
// it was registered on. The step must leave the nesting as it found it.
func (r *renderer[T]) block(tag string, depth int, run func(e *Element[T])) {
	r.w.Restore(depth)
	e := borrowedElement[T](r, tag)
	run(e)
	if !r.live() || r.w.Err() != nil {
		return
	}
	if e.scope.cursor != e || r.w.Depth() != depth {
		r.w.Fail(NewMarkupError(markupCause(ErrMsgUnbalancedStep, tag)))
		return
	}
	r.w.Touch()
}

// wait blocks until a pending step completes or the render context ends.
func (r *renderer[T]) wait(pending <-chan error) error {
	if pending == nil {
		return nil
	}
	select {
	case err, ok := <-pending:
		if !ok || err == nil {
			return nil
		}
		return NewAsyncStepError(r.node, err)
	case <-r.ctx.Done():
		r.stop(NewRenderCanceledError(r.ctx.Err()))
		return nil
	}
}

// resolve walks the chain in order and writes every node.
func (r *renderer[T]) resolve(c *chain[T]) error {
	indented := r.w.Indented()
	for i, n := range c.All() {
		r.node = i
		switch n.Kind() {
		case internal.NodeKindStatic:
			r.w.WriteStatic(n.Text(indented))
		case internal.NodeKindDynamic:
			s := n.Step()
			r.block(s.tag, n.Depth(), func(e *Element[T]) {
				s.dynamic(e, r.model)
			})
		case internal.NodeKindAsync:
			if err := r.ctx.Err(); err != nil {
				r.stop(NewRenderCanceledError(err))
				break
			}
			s := n.Step()
			r.block(s.tag, n.Depth(), func(e *Element[T]) {
				r.fail(r.wait(s.await(r.ctx, e, r.model)))
			})
		}
		if r.canceled != nil {
			return r.canceled
		}
		if err := r.w.Err(); err != nil {
			return wrapRenderError(err)
		}
	}
	return nil
}

// resolveRecover is resolve for the async pipeline, where a panic must
// reach the caller as a result instead of crashing the process.
func (r *renderer[T]) resolveRecover(c *chain[T]) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.canceled == nil {
				r.stop(NewAsyncStepError(r.node, fmt.Errorf("%s: %v", ErrMsgAsyncPanic, rec)))
			}
			err = r.canceled
		}
	}()
	return r.resolve(c)
}
