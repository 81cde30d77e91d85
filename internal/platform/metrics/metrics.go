package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	EventsProcessed prometheus.Counter
	Transitions     *prometheus.CounterVec
	BroadcastSends  *prometheus.CounterVec
	ImportRows      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sanad_events_processed_total",
			Help: "Total number of inbound chat events processed",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanad_state_transitions_total",
			Help: "Total number of state transitions by flow",
		}, []string{"flow"}),
		BroadcastSends: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanad_broadcast_sends_total",
			Help: "Total number of broadcast deliveries by outcome",
		}, []string{"outcome"}),
		ImportRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanad_import_rows_total",
			Help: "Total number of bulk import rows by result",
		}, []string{"result"}),
	}
}

// IncrementTransition records one state transition for a flow.
func (m *Metrics) IncrementTransition(flow string) {
	m.Transitions.WithLabelValues(flow).Inc()
}

// IncrementBroadcast records one broadcast send outcome ("sent" or "failed").
func (m *Metrics) IncrementBroadcast(outcome string) {
	m.BroadcastSends.WithLabelValues(outcome).Inc()
}

// AddImportRows records bulk import row results ("accepted" or "rejected").
func (m *Metrics) AddImportRows(result string, n int) {
	m.ImportRows.WithLabelValues(result).Add(float64(n))
}
