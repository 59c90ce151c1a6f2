package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Payment struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string        `json:"user_id" bson:"user_id"`
	BookingID string        `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	OrderID   string        `json:"order_id" bson:"order_id"`
	PaymentID string        `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	Signature string        `json:"-" bson:"signature,omitempty"`
	Amount    int64         `json:"amount" bson:"amount"`
	Currency  string        `json:"currency" bson:"currency"`
	Status    PaymentStatus `json:"status" bson:"status"`
	MentorID  string        `json:"mentor_id" bson:"mentor_id"`
	Date      time.Time     `json:"date" bson:"date"`
	TimeSlot  string        `json:"time_slot" bson:"time_slot"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

type OrderRequest struct {
	MentorID string `json:"mentor_id" validate:"required,mongodb"`
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required,timeslot"`
}

// Order is what the client needs to open the gateway checkout.
type Order struct {
	OrderID   string    `json:"order_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	KeyID     string    `json:"key_id"`
	HeldUntil time.Time `json:"held_until"`
}

type VerifyRequest struct {
	OrderID   string `json:"order_id" validate:"required,max=100"`
	PaymentID string `json:"payment_id" validate:"required,max=100"`
	Signature string `json:"signature" validate:"required,hexadecimal,len=64"`
}

// VerifyResult is returned once a verified payment has been turned into a booking.
type VerifyResult struct {
	Payment *Payment `json:"payment"`
	Booking *Booking `json:"booking"`
}

const (
	WebhookPaymentFailed   = "payment.failed"
	WebhookPaymentCaptured = "payment.captured"
)

// WebhookEvent is the subset of a gateway webhook the service acts on.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
