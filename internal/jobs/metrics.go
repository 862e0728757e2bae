package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "agromarket"

// Tick outcomes.
const (
	outcomeApplied   = "applied"
	outcomeFailed    = "failed"
	outcomeSkipped   = "skipped"
	outcomeDiscarded = "discarded"
)

// Metrics holds the polling collectors shared by all controllers.
type Metrics struct {
	ticksTotal      *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	state           *prometheus.GaugeVec
}

// NewMetrics registers the polling collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ticksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "polling",
				Name:      "ticks_total",
				Help:      "Polling refreshes by service and outcome.",
			},
			[]string{"service", "outcome"},
		),
		refreshDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "polling",
				Name:      "refresh_duration_seconds",
				Help:      "Time spent fetching fresh data.",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"service"},
		),
		state: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "polling",
				Name:      "state",
				Help:      "Controller state: 0 stopped, 1 running, 2 paused.",
			},
			[]string{"service"},
		),
	}
}

func (m *Metrics) observeTick(service, outcome string) {
	if m == nil {
		return
	}
	m.ticksTotal.WithLabelValues(service, outcome).Inc()
}

func (m *Metrics) observeDuration(service string, seconds float64) {
	if m == nil {
		return
	}
	m.refreshDuration.WithLabelValues(service).Observe(seconds)
}

func (m *Metrics) setState(service string, state State) {
	if m == nil {
		return
	}
	m.state.WithLabelValues(service).Set(state.gaugeValue())
}
