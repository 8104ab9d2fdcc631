package htmlflow

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itsatony/go-cuserr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type asyncPair struct {
	a <-chan string
	b <-chan string
}

func awaitText(pick func(m asyncPair) <-chan string) AwaitFunc[asyncPair] {
	return func(ctx context.Context, e *Element[asyncPair], m asyncPair) <-chan error {
		return Go(func() error {
			select {
			case s := <-pick(m):
				e.Text(s)
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
}

func twoDivsTemplate(p *Page[asyncPair]) {
	p.Div().Await(awaitText(func(m asyncPair) <-chan string { return m.a })).End().
		Div().Await(awaitText(func(m asyncPair) <-chan string { return m.b }))
}

func readyPair(a, b string) asyncPair {
	ca, cb := make(chan string, 1), make(chan string, 1)
	ca <- a
	cb <- b
	return asyncPair{a: ca, b: cb}
}

func TestViewAsync_TemplateOrder(t *testing.T) {
	v, err := NewAsync(twoDivsTemplate)
	require.NoError(t, err)
	assert.Equal(t, ChainInfo{Nodes: 5, Static: 3, Async: 2}, v.Chain())

	html, err := v.Render(t.Context(), readyPair("A", "B"))
	require.NoError(t, err)
	assert.Equal(t, "<div>\n\tA\n</div>\n<div>\n\tB\n</div>", html)

	t.Run("compact", func(t *testing.T) {
		html, err := v.SetIndented(false).Render(t.Context(), readyPair("A", "B"))
		require.NoError(t, err)
		assert.Equal(t, "<div>A</div><div>B</div>", html)
	})

	t.Run("second step ready first", func(t *testing.T) {
		ca, cb := make(chan string, 1), make(chan string, 1)
		cb <- "B"
		go func() {
			time.Sleep(20 * time.Millisecond)
			ca <- "A"
		}()
		html, err := v.SetIndented(false).Render(t.Context(), asyncPair{a: ca, b: cb})
		require.NoError(t, err)
		assert.Equal(t, "<div>A</div><div>B</div>", html)
	})
}

func TestViewAsync_MatchesSyncView(t *testing.T) {
	syncView := MustNew(trackTemplate)
	asyncView := MustNewAsync(trackTemplate)

	for i := 0; i < 3; i++ {
		want, err := syncView.Render(testTrackModel(i))
		require.NoError(t, err)
		got, err := asyncView.Render(t.Context(), testTrackModel(i))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestViewAsync_StepsRunInSequence(t *testing.T) {
	var running, maxRunning atomic.Int32
	step := func(id string) AwaitFunc[NoModel] {
		return func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
			return Go(func() error {
				n := running.Add(1)
				if n > maxRunning.Load() {
					maxRunning.Store(n)
				}
				time.Sleep(5 * time.Millisecond)
				e.Text(id)
				running.Add(-1)
				return nil
			})
		}
	}
	v := MustNewAsync(func(p *Page[NoModel]) {
		p.Ul().
			Li().Await(step("1")).End().
			Li().Await(step("2")).End().
			Li().Await(step("3"))
	}, WithIndented(false))

	html, err := v.Render(t.Context(), NoModel{})
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>1</li><li>2</li><li>3</li></ul>", html)
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestViewAsync_StepFailure(t *testing.T) {
	cause := errors.New("backend down")
	var lastRan atomic.Bool

	v := MustNewAsync(func(p *Page[NoModel]) {
		p.Div().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
			e.Text("A")
			return nil
		}).End().
			Div().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
				return Go(func() error { return cause })
			}).End().
			Div().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
				lastRan.Store(true)
				return nil
			})
	}, WithIndented(false))

	res := <-v.RenderAsync(t.Context(), NoModel{})
	require.Error(t, res.Err)
	assert.True(t, IsAsyncStepFailure(res.Err))
	assert.ErrorIs(t, res.Err, cause)
	assert.False(t, IsCanceled(res.Err))
	assert.Equal(t, "<div>A</div><div>", res.HTML)
	assert.False(t, lastRan.Load(), "steps after a failure must not run")

	var ce *cuserr.CustomError
	require.True(t, errors.As(res.Err, &ce))
	node, ok := ce.GetMetadata(MetaKeyNode)
	assert.True(t, ok)
	assert.Equal(t, "3", node)

	// Every render runs the pipeline from the start
	html, err := v.Render(t.Context(), NoModel{})
	assert.True(t, IsAsyncStepFailure(err))
	assert.Equal(t, "<div>A</div><div>", html)
}

func TestViewAsync_Cancellation(t *testing.T) {
	reg := prometheus.NewRegistry()
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	v := MustNewAsync(func(p *Page[NoModel]) {
		p.Div().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
			once.Do(func() { close(started) })
			return Go(func() error {
				<-release
				e.Text("late")
				return nil
			})
		})
	}, WithName("slow"), WithMetrics(NewMetrics(reg)))
	assert.Equal(t, 1.0, counterValue(t, reg, MetricsNamespace+"_"+MetricVisitorsTotal))

	ctx, cancel := context.WithCancel(t.Context())
	results := v.RenderAsync(ctx, NoModel{})
	<-started
	cancel()

	res := <-results
	require.Error(t, res.Err)
	assert.True(t, IsCanceled(res.Err))
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, res.HTML)

	// The pending step finishes after the render gave up on it
	close(release)

	assert.Equal(t, 2.0, counterValue(t, reg, MetricsNamespace+"_"+MetricVisitorsTotal))

	html, err := v.Render(t.Context(), NoModel{})
	require.NoError(t, err)
	assert.Equal(t, "<div>\n\tlate\n</div>", html)
}

func TestViewAsync_DeadlineExceeded(t *testing.T) {
	v := MustNewAsync(func(p *Page[NoModel]) {
		p.Div().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
			return make(chan error)
		})
	})

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := v.Render(ctx, NoModel{})
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestViewAsync_PreCanceledContext(t *testing.T) {
	var invoked atomic.Bool
	v := MustNewAsync(func(p *Page[NoModel]) {
		p.Div().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
			invoked.Store(true)
			return nil
		})
	})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	html, err := v.Render(ctx, NoModel{})
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
	assert.Empty(t, html)
	assert.False(t, invoked.Load())
}

func TestViewAsync_CompletionSignals(t *testing.T) {
	tests := []struct {
		name    string
		pending func() <-chan error
	}{
		{"nil channel", func() <-chan error { return nil }},
		{"closed channel", func() <-chan error {
			c := make(chan error)
			close(c)
			return c
		}},
		{"nil error", func() <-chan error {
			c := make(chan error, 1)
			c <- nil
			return c
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := MustNewAsync(func(p *Page[NoModel]) {
				p.P().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
					e.Text("ok")
					return tt.pending()
				})
			}, WithIndented(false))

			html, err := v.Render(t.Context(), NoModel{})
			require.NoError(t, err)
			assert.Equal(t, "<p>ok</p>", html)
		})
	}
}

func TestViewAsync_AwaitInsideDynamic(t *testing.T) {
	v := MustNewAsync(func(p *Page[[]string]) {
		p.Ul().Dynamic(func(e *Element[[]string], items []string) {
			for _, item := range items {
				e.Li().Await(func(ctx context.Context, li *Element[[]string], _ []string) <-chan error {
					return Go(func() error {
						li.Text(item)
						return nil
					})
				}).End()
			}
		})
	}, WithIndented(false))

	html, err := v.Render(t.Context(), []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>x</li><li>y</li></ul>", html)
}

func TestViewAsync_Panics(t *testing.T) {
	t.Run("in an await function", func(t *testing.T) {
		v := MustNewAsync(func(p *Page[NoModel]) {
			p.Div().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
				panic("boom")
			})
		})
		_, err := v.Render(t.Context(), NoModel{})
		require.Error(t, err)
		assert.True(t, IsAsyncStepFailure(err))
		assert.Contains(t, stepCause(t, err), "boom")

		// The panicking visitor is replaced
		_, err = v.Render(t.Context(), NoModel{})
		assert.True(t, IsAsyncStepFailure(err))
	})

	t.Run("in a goroutine started with Go", func(t *testing.T) {
		v := MustNewAsync(func(p *Page[NoModel]) {
			p.Div().Await(func(ctx context.Context, e *Element[NoModel], _ NoModel) <-chan error {
				return Go(func() error { panic("crash") })
			})
		})
		_, err := v.Render(t.Context(), NoModel{})
		require.Error(t, err)
		assert.True(t, IsAsyncStepFailure(err))
		assert.Contains(t, stepCause(t, err), ErrMsgAsyncPanic)
	})
}

func TestViewAsync_ThreadSafeConcurrentRenders(t *testing.T) {
	base := MustNewAsync(func(p *Page[int]) {
		p.Div().Await(func(ctx context.Context, e *Element[int], n int) <-chan error {
			return Go(func() error {
				e.Text(strconv.Itoa(n))
				return nil
			})
		}).End().
			P().Dynamic(func(e *Element[int], n int) {
				e.Text(strconv.Itoa(n * 2))
			})
	}, WithIndented(false))
	v, err := base.ThreadSafe()
	require.NoError(t, err)
	assert.True(t, v.IsThreadSafe())

	const goroutines = 50
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	results := make([]string, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			results[id], errs[id] = v.Render(t.Context(), id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "<div>"+strconv.Itoa(i)+"</div><p>"+strconv.Itoa(i*2)+"</p>", results[i])
	}
}

func TestViewAsync_ScenarioAcrossGoroutines(t *testing.T) {
	want, err := MustNew(linksTemplate).Render(scenarioLinks)
	require.NoError(t, err)
	require.Equal(t, scenarioIndented, want)

	v, err := MustNewAsync(linksTemplate).ThreadSafe()
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	results := make([]string, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			results[id], errs[id] = v.Render(t.Context(), scenarioLinks)
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i], "goroutine %d", i)
	}
}

func TestViewAsync_Streaming(t *testing.T) {
	var out safeBuffer
	v := MustNewAsync(twoDivsTemplate, WithOutput(&out), WithIndented(false))

	require.NoError(t, <-v.WriteAsync(t.Context(), readyPair("A", "B")))
	assert.Equal(t, "<div>A</div><div>B</div>", out.String())

	res := <-v.RenderAsync(t.Context(), readyPair("A", "B"))
	assert.True(t, IsInvalidUsage(res.Err))

	buffered := MustNewAsync(twoDivsTemplate)
	assert.True(t, IsInvalidUsage(<-buffered.WriteAsync(t.Context(), readyPair("A", "B"))))
}

func TestGo(t *testing.T) {
	assert.NoError(t, <-Go(func() error { return nil }))

	cause := errors.New("failed")
	assert.ErrorIs(t, <-Go(func() error { return cause }), cause)

	err := <-Go(func() error { panic("oops") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")

	c := Go(func() error { return nil })
	<-c
	_, open := <-c
	assert.False(t, open)
}

// safeBuffer is a byte buffer guarded for the render goroutine.
type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
