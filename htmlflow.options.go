package htmlflow

import (
	"io"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Option is a functional option for configuring a view.
type Option func(*viewConfig)

// viewConfig holds the configuration of a view. Clones copy it.
type viewConfig struct {
	name       string
	indented   bool
	threadSafe bool
	out        io.Writer
	logger     *zap.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// defaultViewConfig returns the default view configuration.
func defaultViewConfig() *viewConfig {
	return &viewConfig{
		name:       DefaultViewName,
		indented:   true,
		threadSafe: false,
		out:        nil,
		logger:     nil,
		metrics:    nil,
		tracer:     nil,
	}
}

// newViewConfig applies opts over the defaults and fills in the no-op
// logger and tracer.
func newViewConfig(opts []Option) *viewConfig {
	config := defaultViewConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = zap.NewNop()
	}
	if config.tracer == nil {
		config.tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return config
}

// validate rejects combinations that cannot be honored.
func (c *viewConfig) validate() error {
	if c.threadSafe && c.out != nil {
		return NewInvalidConfigError(ErrMsgThreadSafeStream, OpConstruct)
	}
	return nil
}

func (c *viewConfig) clone() *viewConfig {
	cp := *c
	return &cp
}

// WithName names the view in logs, metrics, traces and the engine registry.
// Default: "view"
func WithName(name string) Option {
	return func(c *viewConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithIndented enables or disables pretty printing with tab indentation.
// Default: true
func WithIndented(indented bool) Option {
	return func(c *viewConfig) {
		c.indented = indented
	}
}

// WithThreadSafe makes the view hand each concurrent render its own visitor.
// Not allowed together with WithOutput.
// Default: false
func WithThreadSafe() Option {
	return func(c *viewConfig) {
		c.threadSafe = true
	}
}

// WithOutput makes the view write to a stream instead of an in-memory
// buffer. Such a view supports Write but not Render.
// Default: nil (in-memory buffer)
func WithOutput(w io.Writer) Option {
	return func(c *viewConfig) {
		c.out = w
	}
}

// WithLogger sets the logger for the view.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *viewConfig) {
		c.logger = logger
	}
}

// WithMetrics records discoveries and renders in m.
// Default: nil (no metrics)
func WithMetrics(m *Metrics) Option {
	return func(c *viewConfig) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for discovery and render spans.
// Default: a no-op tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(c *viewConfig) {
		c.tracer = tracer
	}
}
