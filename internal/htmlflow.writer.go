package internal

import (
	"io"
	"strings"
)

// MarkupError reports a structural misuse of the element capability.
type MarkupError struct {
	Message string
	Tag     string
}

// NewMarkupError creates a new markup error.
func NewMarkupError(message, tag string) *MarkupError {
	return &MarkupError{Message: message, Tag: tag}
}

// Error implements the error interface.
func (e *MarkupError) Error() string {
	if e.Tag != "" {
		return e.Message + " (" + e.Tag + ")"
	}
	return e.Message
}

// Writer emits markup to a sink while tracking the formatting state:
// nesting depth, whether the last begin tag still awaits its '>' and
// whether anything was written yet. The first error is sticky; once set,
// every later call is a no-op.
type Writer struct {
	out      io.Writer
	indented bool
	depth    int
	open     bool
	openVoid bool
	openTag  string
	started  bool
	err      error
}

// NewWriter creates a writer emitting to out.
func NewWriter(out io.Writer, indented bool) *Writer {
	return &Writer{out: out, indented: indented}
}

// Reset clears the formatting state and the sticky error and targets out.
func (w *Writer) Reset(out io.Writer) {
	w.out = out
	w.depth = 0
	w.open = false
	w.openVoid = false
	w.started = false
	w.err = nil
}

// Output returns the current sink.
func (w *Writer) Output() io.Writer {
	return w.out
}

// Indented reports whether the writer pretty prints.
func (w *Writer) Indented() bool {
	return w.indented
}

// Depth returns the current nesting depth.
func (w *Writer) Depth() int {
	return w.depth
}

// Err returns the sticky error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Fail records err unless an error is already recorded.
func (w *Writer) Fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Restore sets the state a dynamic step starts from: the given depth with
// no begin tag pending.
func (w *Writer) Restore(depth int) {
	w.depth = depth
	w.open = false
	w.openVoid = false
}

// Touch marks the output as started, so the next line break is written
// even though nothing was emitted yet.
func (w *Writer) Touch() {
	w.started = true
}

// BeginTag writes the opening of an element. Attributes may follow until
// content is written.
func (w *Writer) BeginTag(tag string) {
	if w.err != nil {
		return
	}
	if tag == "" {
		w.Fail(NewMarkupError(ErrMsgEmptyTagName, tag))
		return
	}
	if !w.closePending(tag) {
		return
	}
	w.lineBreak()
	w.write("<")
	w.write(tag)
	w.depth++
	w.open = true
	w.openVoid = IsVoidElement(tag)
	w.openTag = tag
}

// Attr writes an attribute of the element whose begin tag is pending.
func (w *Writer) Attr(name, value string) {
	if w.err != nil {
		return
	}
	if name == "" {
		w.Fail(NewMarkupError(ErrMsgEmptyAttrName, name))
		return
	}
	if !w.open {
		w.Fail(NewMarkupError(ErrMsgAttrAfterContent, name))
		return
	}
	w.write(" ")
	w.write(name)
	w.write(`="`)
	w.write(EscapeAttr(value))
	w.write(`"`)
}

// Text writes escaped text content on its own line.
func (w *Writer) Text(s string) {
	w.content(EscapeText(s))
}

// Raw writes s verbatim as content on its own line.
func (w *Writer) Raw(s string) {
	w.content(s)
}

// Comment writes an HTML comment.
func (w *Writer) Comment(s string) {
	if strings.Contains(s, "-->") {
		w.Fail(NewMarkupError(ErrMsgCommentTerminator, ""))
		return
	}
	w.content("<!-- " + s + " -->")
}

// EndTag closes the innermost element, whose name is tag.
func (w *Writer) EndTag(tag string) {
	if w.err != nil {
		return
	}
	if w.depth == 0 {
		w.Fail(NewMarkupError(ErrMsgNoOpenElement, tag))
		return
	}
	if w.open {
		w.write(">")
		w.open = false
		if w.openVoid {
			w.openVoid = false
			w.depth--
			return
		}
	}
	w.depth--
	w.lineBreak()
	w.write("</")
	w.write(tag)
	w.write(">")
}

// CloseBeginTag terminates a pending begin tag, so the element is ready to
// receive content. It reports false if the element is void.
func (w *Writer) CloseBeginTag(tag string) bool {
	if w.err != nil {
		return false
	}
	return w.closePending(tag)
}

// WriteStatic writes literal markup recorded during discovery.
func (w *Writer) WriteStatic(s string) {
	if w.err != nil || s == "" {
		return
	}
	w.write(s)
}

func (w *Writer) content(s string) {
	if w.err != nil {
		return
	}
	if !w.closePending("") {
		return
	}
	w.lineBreak()
	w.write(s)
}

// closePending writes the '>' of a pending begin tag before content is
// added. Void elements take no content.
func (w *Writer) closePending(tag string) bool {
	if !w.open {
		return true
	}
	if w.openVoid {
		if tag == "" {
			tag = w.openTag
		}
		w.Fail(NewMarkupError(ErrMsgVoidContent, tag))
		return false
	}
	w.write(">")
	w.open = false
	return w.err == nil
}

func (w *Writer) lineBreak() {
	if !w.indented {
		return
	}
	if w.started {
		w.write(Newline)
	}
	for i := 0; i < w.depth; i++ {
		w.write(IndentUnit)
	}
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	w.started = true
	if _, err := io.WriteString(w.out, s); err != nil {
		w.err = err
	}
}
