package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger and outbox Prometheus metrics. It implements
// usecase.Recorder.
type Metrics struct {
	// Entry metrics
	EntryOperations    *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	BalanceQueries     prometheus.Counter

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	EventFailures   *prometheus.CounterVec
}

// New creates and registers all metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates and registers all metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EntryOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_entry_operations_total",
				Help: "Successful entry operations by type",
			},
			[]string{"operation"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_entry_validation_failures_total",
				Help: "Rejected entries by failed rule",
			},
			[]string{"reason"},
		),
		BalanceQueries: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_balance_queries_total",
			Help: "Total balance computations",
		}),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_outbox_events_published_total",
				Help: "Outbox events published by type",
			},
			[]string{"event_type"},
		),
		EventFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_outbox_publish_failures_total",
				Help: "Outbox publish failures by type",
			},
			[]string{"event_type"},
		),
	}
}

func (m *Metrics) EntryOperation(op string) {
	m.EntryOperations.WithLabelValues(op).Inc()
}

func (m *Metrics) ValidationFailed(reason string) {
	m.ValidationFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) BalanceComputed() {
	m.BalanceQueries.Inc()
}

func (m *Metrics) EventPublished(eventType string) {
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

func (m *Metrics) EventFailed(eventType string) {
	m.EventFailures.WithLabelValues(eventType).Inc()
}
