// Package events publishes booking lifecycle events to Kafka.
package events

import (
	"context"
	"fmt"

	"mentorbook/pkg/kafka"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/middleware"
	"mentorbook/pkg/model"
)

const SchemaVersion = "1"

// Sender is satisfied by *kafka.Producer.
type Sender interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	sender Sender
	source string
	log    *logger.Logger
}

func NewKafkaPublisher(sender Sender, source string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		sender: sender,
		source: source,
		log:    log,
	}
}

func (p *KafkaPublisher) PublishConfirmed(ctx context.Context, event model.BookingConfirmedEvent) error {
	return p.publish(ctx, event.Booking.ID, model.EventBookingConfirmed, event)
}

func (p *KafkaPublisher) PublishCancelled(ctx context.Context, event model.BookingCancelledEvent) error {
	return p.publish(ctx, event.Booking.ID, model.EventBookingCancelled, event)
}

// publish keys by booking id so every event of one booking lands on the
// same partition in order.
func (p *KafkaPublisher) publish(ctx context.Context, bookingID, eventType string, payload any) error {
	msg, err := kafka.NewMessage().
		WithKey(bookingID).
		WithValue(payload).
		WithEventType(eventType).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", eventType, err)
	}

	if err := p.sender.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.log.Debug("Booking event published",
		"event_type", eventType,
		"booking_id", bookingID,
		"event_id", msg.GetEventID(),
	)
	return nil
}

// NoopPublisher drops events. It is used when Kafka is disabled.
type NoopPublisher struct {
	log *logger.Logger
}

func NewNoopPublisher(log *logger.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) PublishConfirmed(_ context.Context, event model.BookingConfirmedEvent) error {
	p.log.Debug("Kafka disabled, dropping event", "event_type", model.EventBookingConfirmed, "booking_id", event.Booking.ID)
	return nil
}

func (p *NoopPublisher) PublishCancelled(_ context.Context, event model.BookingCancelledEvent) error {
	p.log.Debug("Kafka disabled, dropping event", "event_type", model.EventBookingCancelled, "booking_id", event.Booking.ID)
	return nil
}
