package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts booking outcomes. A nil *Metrics records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
}

const (
	outcomeConfirmed     = "confirmed"
	outcomeConflict      = "slot_conflict"
	outcomeCancelled     = "cancelled"
	outcomeCompleted     = "completed"
	outcomePublishFailed = "event_publish_failed"
)

func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bookings",
			Name:      "outcomes_total",
			Help:      "Booking state changes and rejected confirmations, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.outcomes)
	return m
}

func (m *Metrics) record(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}
