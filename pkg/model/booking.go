package model

import (
	"slices"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookingTransitions lists, per status, the statuses it may move to.
// Completed and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: nil,
	BookingStatusCancelled: nil,
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// Active reports whether a booking in this status occupies its slot.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Terminal() bool {
	return s.Valid() && len(bookingTransitions[s]) == 0
}

func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	return slices.Contains(bookingTransitions[s], to)
}

// TransitionSources returns every status from which a booking may move to target.
func TransitionSources(target BookingStatus) []BookingStatus {
	var sources []BookingStatus
	for _, from := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled} {
		if from.CanTransitionTo(target) {
			sources = append(sources, from)
		}
	}
	return sources
}

type PaymentRef struct {
	OrderID   string `json:"order_id" bson:"order_id" validate:"required,max=100"`
	PaymentID string `json:"payment_id" bson:"payment_id" validate:"required,max=100"`
}

type Booking struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       string        `json:"user_id" bson:"user_id"`
	MentorID     string        `json:"mentor_id" bson:"mentor_id"`
	Date         time.Time     `json:"date" bson:"date"`
	TimeSlot     string        `json:"time_slot" bson:"time_slot"`
	Status       BookingStatus `json:"status" bson:"status"`
	Active       bool          `json:"-" bson:"active"`
	Amount       int64         `json:"amount" bson:"amount"`
	Currency     string        `json:"currency" bson:"currency"`
	PaymentRef   *PaymentRef   `json:"payment_ref,omitempty" bson:"payment_ref,omitempty"`
	MentorRemark string        `json:"mentor_remark,omitempty" bson:"mentor_remark,omitempty"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}

// BookingRequest is the body of a confirm call made after payment verification.
type BookingRequest struct {
	MentorID   string      `json:"mentor_id" validate:"required,mongodb"`
	Date       string      `json:"date" validate:"required"`
	TimeSlot   string      `json:"time_slot" validate:"required,timeslot"`
	PaymentRef *PaymentRef `json:"payment_ref" validate:"required"`
	// UserID books on behalf of another user. Only admins may set it.
	UserID string `json:"user_id,omitempty" validate:"omitempty,max=128"`
}

type BookingRemark struct {
	Remark string        `json:"remark" validate:"omitempty,max=1000"`
	Status BookingStatus `json:"status,omitempty" validate:"omitempty,oneof=completed cancelled"`
}

type BookingFilter struct {
	Status    BookingStatus
	MentorID  string
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
}

type Availability struct {
	Date           time.Time `json:"date"`
	MentorID       string    `json:"mentor_id"`
	AvailableSlots []string  `json:"available_slots"`
	AllSlots       []string  `json:"all_slots"`
	Message        string    `json:"message,omitempty"`
}
