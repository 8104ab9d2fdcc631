// Package htmlflow renders HTML from Go templates that are preprocessed
// once and then replayed for every model.
//
// A template is a function that describes a page through a fluent element
// API. Parts of the page that depend on the model are wrapped in Dynamic
// blocks:
//
//	type Track struct{ Title, Artist string }
//
//	view := htmlflow.MustNew(func(p *htmlflow.Page[Track]) {
//	    p.Div().AttrClass("track").
//	        H2().Dynamic(func(e *htmlflow.Element[Track], t Track) {
//	            e.Text(t.Title)
//	        }).End().
//	        P().Text("by").Dynamic(func(e *htmlflow.Element[Track], t Track) {
//	            e.Text(t.Artist)
//	        }).End()
//	})
//	html, err := view.Render(Track{Title: "So What", Artist: "Miles Davis"})
//
// # Discovery
//
// When a view is created its template runs exactly once, without a model.
// Everything written outside blocks is recorded as literal markup and each
// block is recorded at its position, so the template becomes an immutable
// chain of static and dynamic nodes. Rendering writes the static nodes as
// they are and runs the blocks against the model. The top level of a
// template never sees a model, so it cannot branch on one.
//
// # Concurrency
//
// A view is bound to one render visitor and rejects overlapping renders.
// ThreadSafe derives a view over the same chain that gives each concurrent
// render its own visitor:
//
//	shared, err := view.ThreadSafe()
//
// # Asynchronous Pages
//
// NewAsync accepts templates with Await blocks, whose output completes on
// another goroutine. The page is still written in template order:
//
//	view := htmlflow.MustNewAsync(func(p *htmlflow.Page[Query]) {
//	    p.Ul().Await(func(ctx context.Context, e *htmlflow.Element[Query], q Query) <-chan error {
//	        return htmlflow.Go(func() error {
//	            rows, err := search(ctx, q)
//	            for _, r := range rows {
//	                e.Li().Text(r).End()
//	            }
//	            return err
//	        })
//	    })
//	})
//	res := <-view.RenderAsync(ctx, query)
//
// # Error Handling
//
// Errors are *cuserr.CustomError values wrapping the sentinels
// ErrInvalidUsage, ErrInvalidConfig, ErrContractViolation, ErrAsyncStep and
// ErrMarkup, which work with errors.Is.
package htmlflow

// Version is the library version.
const Version = "1.0.0"
