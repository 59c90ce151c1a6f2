package kafka_middleware

import (
	"context"
	"time"

	"mentorbook/pkg/kafka"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds the Prometheus collectors for Kafka operations
type Metrics struct {
	Published       *prometheus.CounterVec
	PublishDuration *prometheus.HistogramVec
	Consumed        *prometheus.CounterVec
	ConsumeDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Kafka messages published, by topic, event type and result.",
		}, []string{"topic", "event_type", "result"}),
		PublishDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "publish_duration_seconds",
			Help:      "Time spent publishing a Kafka message.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"topic"}),
		Consumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "messages_consumed_total",
			Help:      "Kafka messages handled, by topic, event type and result.",
		}, []string{"topic", "event_type", "result"}),
		ConsumeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "consume_duration_seconds",
			Help:      "Time spent handling a Kafka message.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"topic"}),
	}
	reg.MustRegister(m.Published, m.PublishDuration, m.Consumed, m.ConsumeDuration)
	return m
}

// MetricsProducerMiddleware tracks producer metrics
func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)

		m.PublishDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
		m.Published.WithLabelValues(msg.Topic, msg.GetEventType(), result(err)).Inc()
		return err
	}
}

// MetricsConsumerMiddleware tracks consumer metrics
func MetricsConsumerMiddleware(m *Metrics) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)

		m.ConsumeDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
		m.Consumed.WithLabelValues(msg.Topic, msg.GetEventType(), result(err)).Inc()
		return err
	}
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}
