package htmlflow

import (
	"context"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Template describes the markup of a page. It is run once, during
// discovery, and must describe the same skeleton every time. Model
// dependent output belongs in Dynamic or Await blocks.
type Template[T any] func(p *Page[T])

// DynamicFunc writes model dependent markup into e.
type DynamicFunc[T any] func(e *Element[T], model T)

// AwaitFunc writes model dependent markup into e once its data is ready.
// The returned channel yields (or is closed with) nil on success or the
// step's error. A nil channel means the step already completed.
type AwaitFunc[T any] func(ctx context.Context, e *Element[T], model T) <-chan error

// visitor receives every element operation of a pass. The discovery
// visitor records them, the render visitor writes them out.
type visitor[T any] interface {
	beginTag(tag string)
	attr(name, value string)
	text(s string)
	raw(s string)
	comment(s string)
	endTag(tag string)
	dynamic(e *Element[T], fn DynamicFunc[T])
	await(e *Element[T], fn AwaitFunc[T])
	fail(err error)
}

// scope tracks the innermost open element of one pass or one dynamic block.
type scope[T any] struct {
	visitor visitor[T]
	cursor  *Element[T]
}

// Element is a handle on an open element. Methods that add content return
// the receiver, so calls chain; End returns the parent.
type Element[T any] struct {
	tag      string
	parent   *Element[T]
	scope    *scope[T]
	closed   bool
	borrowed bool
}

// Page is the root capability handed to a Template.
type Page[T any] struct {
	*Element[T]
}

func newPage[T any](v visitor[T]) *Page[T] {
	root := &Element[T]{}
	root.scope = &scope[T]{visitor: v, cursor: root}
	return &Page[T]{Element: root}
}

// borrowedElement is the element a dynamic block writes into at render
// time. It stands for the element the block was registered on.
func borrowedElement[T any](v visitor[T], tag string) *Element[T] {
	e := &Element[T]{tag: tag, borrowed: true}
	e.scope = &scope[T]{visitor: v, cursor: e}
	return e
}

// Html writes the DOCTYPE header and opens the html element.
func (p *Page[T]) Html() *Element[T] {
	p.Raw(DocType)
	return p.Elem("html")
}

// Tag returns the element name. The page root has an empty name.
func (e *Element[T]) Tag() string {
	return e.tag
}

// Elem opens a child element.
func (e *Element[T]) Elem(tag string) *Element[T] {
	child := &Element[T]{tag: tag, parent: e, scope: e.scope}
	if !e.usable() {
		child.closed = true
		return child
	}
	e.scope.visitor.beginTag(tag)
	e.scope.cursor = child
	return child
}

// Attr adds an attribute. Attributes must precede any content.
func (e *Element[T]) Attr(name, value string) *Element[T] {
	if e.usable() {
		e.scope.visitor.attr(name, value)
	}
	return e
}

// Text adds escaped text content.
func (e *Element[T]) Text(s string) *Element[T] {
	if e.usable() {
		e.scope.visitor.text(s)
	}
	return e
}

// Raw adds s as trusted markup, without escaping.
func (e *Element[T]) Raw(s string) *Element[T] {
	if e.usable() {
		e.scope.visitor.raw(s)
	}
	return e
}

// Sanitized adds untrusted markup after stripping everything the
// bluemonday user generated content policy does not allow.
func (e *Element[T]) Sanitized(html string) *Element[T] {
	return e.Raw(ugcPolicy().Sanitize(html))
}

// Comment adds an HTML comment.
func (e *Element[T]) Comment(s string) *Element[T] {
	if e.usable() {
		e.scope.visitor.comment(s)
	}
	return e
}

// Dynamic registers a block that depends on the model. During discovery
// only its position is recorded; at render time fn runs with the model.
func (e *Element[T]) Dynamic(fn DynamicFunc[T]) *Element[T] {
	if e.usable() {
		e.scope.visitor.dynamic(e, fn)
	}
	return e
}

// Await registers a block whose output completes asynchronously. Only
// async views accept it. Output still appears in template order.
func (e *Element[T]) Await(fn AwaitFunc[T]) *Element[T] {
	if e.usable() {
		e.scope.visitor.await(e, fn)
	}
	return e
}

// End closes the element and returns its parent.
func (e *Element[T]) End() *Element[T] {
	switch {
	case e.borrowed:
		e.scope.visitor.fail(NewMarkupError(markupCause(ErrMsgEndBorrowed, e.tag)))
		return e
	case e.parent == nil:
		e.scope.visitor.fail(NewMarkupError(markupCause(ErrMsgEndOnRoot, e.tag)))
		return e
	}
	if !e.usable() {
		return e.parent
	}
	e.scope.visitor.endTag(e.tag)
	e.closed = true
	e.scope.cursor = e.parent
	return e.parent
}

// usable reports whether e is the innermost open element, recording a
// markup error otherwise.
func (e *Element[T]) usable() bool {
	if e.closed || e.scope.cursor != e {
		e.scope.visitor.fail(NewMarkupError(markupCause(ErrMsgElementNotOpen, e.tag)))
		return false
	}
	return true
}

// closeAll ends every element still open in the scope.
func (s *scope[T]) closeAll() {
	for c := s.cursor; c != nil && c.parent != nil && !c.borrowed; c = s.cursor {
		c.End()
		if s.cursor == c {
			return
		}
	}
}

var ugcPolicy = sync.OnceValue(func() *bluemonday.Policy {
	return bluemonday.UGCPolicy()
})

// retired takes over from the discovery visitor once discovery ends, so
// top level elements captured by a block write nothing at render time.
type retired[T any] struct{}

func (retired[T]) beginTag(string) {}
func (retired[T]) attr(string, string) {}
func (retired[T]) text(string) {}
func (retired[T]) raw(string) {}
func (retired[T]) comment(string) {}
func (retired[T]) endTag(string) {}
func (retired[T]) dynamic(*Element[T], DynamicFunc[T]) {}
func (retired[T]) await(*Element[T], AwaitFunc[T]) {}
func (retired[T]) fail(error) {}
