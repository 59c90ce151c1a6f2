package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"mentorbook/pkg/kafka"
	"mentorbook/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func testMessage() kafka.Message {
	return kafka.Message{
		Topic:   "booking-events",
		Key:     "b1",
		Value:   []byte(`{}`),
		Headers: map[string]string{kafka.HeaderEventType: "booking.confirmed"},
	}
}

func TestMetricsProducerMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "test")
	mw := MetricsProducerMiddleware(m)

	_ = mw(context.Background(), testMessage(), func(ctx context.Context, msg kafka.Message) error { return nil })
	_ = mw(context.Background(), testMessage(), func(ctx context.Context, msg kafka.Message) error { return errors.New("down") })

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("booking-events", "booking.confirmed", resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("booking-events", "booking.confirmed", resultFailure)))
}

func TestMetricsConsumerMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "test")
	mw := MetricsConsumerMiddleware(m)

	_ = mw(context.Background(), testMessage(), func(ctx context.Context, msg kafka.Message) error { return nil })

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Consumed.WithLabelValues("booking-events", "booking.confirmed", resultSuccess)))
}

func TestLoggingConsumerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.INFO, Output: &buf})
	mw := LoggingConsumerMiddleware(log)

	err := mw(context.Background(), testMessage(), func(ctx context.Context, msg kafka.Message) error {
		return errors.New("smtp down")
	})

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "Failed to process kafka message")
	assert.Contains(t, buf.String(), "smtp down")
}
