package model

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

type BookingConfirmedEvent struct {
	Booking Booking `json:"booking"`
	Mentor  Mentor  `json:"mentor"`
	User    Actor   `json:"user"`
}

type BookingCancelledEvent struct {
	Booking     Booking `json:"booking"`
	CancelledBy Actor   `json:"cancelled_by"`
}
