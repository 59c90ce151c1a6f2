package notifier

import (
	"context"
	"fmt"

	"mentorbook/pkg/kafka"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"
)

// NewHandler dispatches booking events by their event-type header. Malformed
// or unknown events are permanent failures and go straight to the DLQ.
func NewHandler(n Notifier, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		switch msg.GetEventType() {
		case model.EventBookingConfirmed:
			var event model.BookingConfirmedEvent
			if err := msg.DecodeValue(&event); err != nil {
				return kafka.NewPermanentError("failed to decode booking.confirmed", err)
			}
			if err := n.BookingConfirmed(ctx, event); err != nil {
				return kafka.NewTransientError("failed to send confirmation notice", err)
			}
		case model.EventBookingCancelled:
			var event model.BookingCancelledEvent
			if err := msg.DecodeValue(&event); err != nil {
				return kafka.NewPermanentError("failed to decode booking.cancelled", err)
			}
			if err := n.BookingCancelled(ctx, event); err != nil {
				return kafka.NewTransientError("failed to send cancellation notice", err)
			}
		default:
			return kafka.NewPermanentError(fmt.Sprintf("unknown event type %q", msg.GetEventType()), kafka.ErrInvalidMessage)
		}

		log.Debug("Booking event handled",
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"correlation_id", msg.GetCorrelationID(),
		)
		return nil
	}
}
