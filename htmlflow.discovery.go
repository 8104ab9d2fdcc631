package htmlflow

import (
	"bytes"
	"context"
	"fmt"

	"github.com/itsatony/go-htmlflow/internal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// step is the payload of a dynamic or async continuation node.
type step[T any] struct {
	tag     string
	dynamic DynamicFunc[T]
	await   AwaitFunc[T]
}

// chain is the continuation chain type shared by views of model T.
type chain[T any] = internal.Chain[*step[T]]

// ChainInfo summarizes a continuation chain.
type ChainInfo struct {
	Nodes   int
	Static  int
	Dynamic int
	Async   int
}

func chainInfo[T any](c *chain[T]) ChainInfo {
	return ChainInfo{
		Nodes:   c.Len(),
		Static:  c.Count(internal.NodeKindStatic),
		Dynamic: c.Count(internal.NodeKindDynamic),
		Async:   c.Count(internal.NodeKindAsync),
	}
}

// preprocessor is the discovery visitor. It renders the template's static
// markup in indented and compact form at once and cuts it into static
// nodes wherever a dynamic or async block is registered. Blocks are stored,
// never run.
type preprocessor[T any] struct {
	indentedBuf bytes.Buffer
	compactBuf  bytes.Buffer
	indented    *internal.Writer
	compact     *internal.Writer
	builder     *internal.Builder[*step[T]]
	async       bool
}

func newPreprocessor[T any](async bool) *preprocessor[T] {
	p := &preprocessor[T]{
		builder: internal.NewBuilder[*step[T]](),
		async:   async,
	}
	p.indented = internal.NewWriter(&p.indentedBuf, true)
	p.compact = internal.NewWriter(&p.compactBuf, false)
	return p
}

func (p *preprocessor[T]) beginTag(tag string) {
	p.indented.BeginTag(tag)
	p.compact.BeginTag(tag)
}

func (p *preprocessor[T]) attr(name, value string) {
	p.indented.Attr(name, value)
	p.compact.Attr(name, value)
}

func (p *preprocessor[T]) text(s string) {
	p.indented.Text(s)
	p.compact.Text(s)
}

func (p *preprocessor[T]) raw(s string) {
	p.indented.Raw(s)
	p.compact.Raw(s)
}

func (p *preprocessor[T]) comment(s string) {
	p.indented.Comment(s)
	p.compact.Comment(s)
}

func (p *preprocessor[T]) endTag(tag string) {
	p.indented.EndTag(tag)
	p.compact.EndTag(tag)
}

func (p *preprocessor[T]) fail(err error) {
	p.indented.Fail(err)
	p.compact.Fail(err)
}

func (p *preprocessor[T]) err() error {
	return p.indented.Err()
}

func (p *preprocessor[T]) dynamic(e *Element[T], fn DynamicFunc[T]) {
	if fn == nil {
		p.fail(NewInvalidUsageError(ErrMsgNilBlock, OpConstruct))
		return
	}
	p.record(internal.NodeKindDynamic, &step[T]{tag: e.tag, dynamic: fn})
}

func (p *preprocessor[T]) await(e *Element[T], fn AwaitFunc[T]) {
	if !p.async {
		p.fail(NewInvalidUsageError(ErrMsgAwaitInSyncView, OpConstruct))
		return
	}
	if fn == nil {
		p.fail(NewInvalidUsageError(ErrMsgNilBlock, OpConstruct))
		return
	}
	p.record(internal.NodeKindAsync, &step[T]{tag: e.tag, await: fn})
}

// record closes the pending begin tag so the block starts from a closed
// element, flushes the static markup so far and appends the step. Markup
// after the block is laid out as if the block had written something.
func (p *preprocessor[T]) record(kind internal.NodeKind, s *step[T]) {
	p.indented.CloseBeginTag(s.tag)
	p.compact.CloseBeginTag(s.tag)
	if p.err() != nil {
		return
	}
	p.flush()
	p.indented.Touch()
	p.fail(p.builder.AppendStep(kind, p.indented.Depth(), s))
}

func (p *preprocessor[T]) flush() {
	p.fail(p.builder.AppendStatic(p.indentedBuf.String(), p.compactBuf.String()))
	p.indentedBuf.Reset()
	p.compactBuf.Reset()
}

// finish closes elements left open, flushes the trailing markup and
// freezes the chain.
func (p *preprocessor[T]) finish(page *Page[T]) (*chain[T], error) {
	page.scope.closeAll()
	if err := p.err(); err != nil {
		return nil, err
	}
	p.flush()
	if err := p.err(); err != nil {
		return nil, err
	}
	return p.builder.Finish()
}

// discover runs tmpl exactly once against the discovery visitor. A panic
// in the template is a contract violation: the template touched state it
// may only touch inside a block.
func discover[T any](tmpl Template[T], async bool, config *viewConfig) (c *chain[T], err error) {
	if tmpl == nil {
		return nil, NewInvalidUsageError(ErrMsgNilTemplate, OpConstruct)
	}

	_, span := config.tracer.Start(context.Background(), SpanNameDiscover)
	span.SetAttributes(attribute.String(AttrKeyView, config.name))
	defer span.End()

	logger := config.logger.With(zap.String(LogFieldView, config.name))
	logger.Debug(LogMsgDiscoveryStart, zap.Bool(LogFieldAsync, async))

	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = NewContractViolationError(config.name, ErrMsgDiscoveryPanic, fmt.Errorf("%v", r))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Debug(LogMsgDiscoveryFailed, zap.Error(err))
		}
	}()

	pre := newPreprocessor[T](async)
	page := newPage[T](pre)
	tmpl(page)

	c, err = pre.finish(page)
	page.scope.visitor = retired[T]{}
	if err != nil {
		return nil, wrapRenderError(err)
	}

	info := chainInfo(c)
	config.metrics.observeDiscovery(config.name, info)
	span.SetAttributes(attribute.Int(AttrKeyNodes, info.Nodes))
	logger.Debug(LogMsgDiscoveryEnd,
		zap.Int(LogFieldNodes, info.Nodes),
		zap.Int(LogFieldStatic, info.Static),
		zap.Int(LogFieldDynamic, info.Dynamic),
		zap.Int(LogFieldAsync, info.Async))
	return c, nil
}
