// Package notifier turns booking events consumed from Kafka into user notifications.
package notifier

import (
	"context"

	"mentorbook/pkg/locale"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"
)

// Notifier delivers a booking notification to its recipients.
type Notifier interface {
	BookingConfirmed(ctx context.Context, event model.BookingConfirmedEvent) error
	BookingCancelled(ctx context.Context, event model.BookingCancelledEvent) error
}

// LogNotifier writes notifications to the log instead of sending mail.
type LogNotifier struct {
	log    *logger.Logger
	locale *locale.Locale
}

func NewLogNotifier(log *logger.Logger, loc *locale.Locale) *LogNotifier {
	return &LogNotifier{log: log, locale: loc}
}

func (n *LogNotifier) BookingConfirmed(_ context.Context, event model.BookingConfirmedEvent) error {
	n.log.Info("Booking confirmation notice",
		"booking_id", event.Booking.ID,
		"to", event.User.Email,
		"user_name", event.User.Name,
		"mentor", event.Mentor.Name,
		"date", n.locale.Format(event.Booking.Date),
		"time_slot", event.Booking.TimeSlot,
		"amount", event.Booking.Amount,
		"currency", event.Booking.Currency,
	)
	return nil
}

func (n *LogNotifier) BookingCancelled(_ context.Context, event model.BookingCancelledEvent) error {
	n.log.Info("Booking cancellation notice",
		"booking_id", event.Booking.ID,
		"user_id", event.Booking.UserID,
		"cancelled_by", event.CancelledBy.ID,
		"date", n.locale.Format(event.Booking.Date),
		"time_slot", event.Booking.TimeSlot,
	)
	return nil
}
