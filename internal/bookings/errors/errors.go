package errors

import (
	"errors"
	"fmt"

	"mentorbook/pkg/model"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotConflict means an active booking already occupies the mentor slot.
	ErrSlotConflict = errors.New("slot already has an active booking")

	// ErrPaymentReused means the payment reference already backs a booking.
	ErrPaymentReused = errors.New("payment reference already used")

	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrSlotHeld means another user holds the slot while paying.
	ErrSlotHeld = errors.New("slot is held by another user")
)

// TransitionError carries the statuses of a rejected change.
type TransitionError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
