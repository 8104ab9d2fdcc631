package htmlflow

import (
	"bytes"
	"context"
	"io"
)

// NoModel is the model type of pages that do not depend on data.
type NoModel struct{}

// WriteDoc writes the page described by tmpl straight to out, without
// discovery. Dynamic blocks run in place with model. It is meant for pages
// rendered once; pages rendered repeatedly belong in a View.
func WriteDoc[T any](out io.Writer, model T, tmpl Template[T], opts ...Option) error {
	if tmpl == nil {
		return NewInvalidUsageError(ErrMsgNilTemplate, OpWrite)
	}
	config := newViewConfig(opts)
	r := newRenderer[T](config.indented, false)
	r.reset(context.Background(), out, model)

	page := newPage[T](r)
	tmpl(page)
	page.scope.closeAll()
	return wrapRenderError(r.w.Err())
}

// RenderDoc is like WriteDoc but returns the markup.
func RenderDoc[T any](model T, tmpl Template[T], opts ...Option) (string, error) {
	var buf bytes.Buffer
	if err := WriteDoc(&buf, model, tmpl, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}
