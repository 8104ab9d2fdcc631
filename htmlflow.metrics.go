package htmlflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names
const (
	MetricsNamespace         = "htmlflow"
	MetricDiscoveriesTotal   = "discoveries_total"
	MetricRendersTotal       = "renders_total"
	MetricRenderDuration     = "render_duration_seconds"
	MetricVisitorsTotal      = "visitors_created_total"
	MetricChainNodes         = "chain_nodes"
	MetricLabelView          = "view"
	MetricLabelMode          = "mode"
	MetricLabelOutcome       = "outcome"
	MetricLabelKind          = "kind"
	metricHelpDiscoveries    = "Number of template discovery passes"
	metricHelpRenders        = "Number of renders by mode and outcome"
	metricHelpRenderDuration = "Render duration in seconds"
	metricHelpVisitors       = "Number of render visitors created"
	metricHelpChainNodes     = "Continuation chain nodes by kind"
)

// Metrics holds the Prometheus collectors shared by views. A nil *Metrics
// records nothing.
type Metrics struct {
	discoveries *prometheus.CounterVec
	renders     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	visitors    *prometheus.CounterVec
	chainNodes  *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. Passing
// nil uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		discoveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      MetricDiscoveriesTotal,
			Help:      metricHelpDiscoveries,
		}, []string{MetricLabelView}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      MetricRendersTotal,
			Help:      metricHelpRenders,
		}, []string{MetricLabelView, MetricLabelMode, MetricLabelOutcome}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      MetricRenderDuration,
			Help:      metricHelpRenderDuration,
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{MetricLabelView, MetricLabelMode}),

		visitors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      MetricVisitorsTotal,
			Help:      metricHelpVisitors,
		}, []string{MetricLabelView}),

		chainNodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      MetricChainNodes,
			Help:      metricHelpChainNodes,
		}, []string{MetricLabelView, MetricLabelKind}),
	}
}

func (m *Metrics) observeDiscovery(view string, info ChainInfo) {
	if m == nil {
		return
	}
	m.discoveries.WithLabelValues(view).Inc()
	m.chainNodes.WithLabelValues(view, LogFieldStatic).Set(float64(info.Static))
	m.chainNodes.WithLabelValues(view, LogFieldDynamic).Set(float64(info.Dynamic))
	m.chainNodes.WithLabelValues(view, LogFieldAsync).Set(float64(info.Async))
}

func (m *Metrics) observeRender(view, mode string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(view, mode, outcomeOf(err)).Inc()
	m.duration.WithLabelValues(view, mode).Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeVisitor(view string) {
	if m == nil {
		return
	}
	m.visitors.WithLabelValues(view).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case IsCanceled(err):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
