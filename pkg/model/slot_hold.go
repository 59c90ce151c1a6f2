package model

import "time"

// SlotHold reserves a mentor slot for one user while their payment is in
// flight. ID is the slot key, so at most one hold exists per slot.
type SlotHold struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	MentorID  string    `bson:"mentor_id" json:"mentor_id"`
	Date      time.Time `bson:"date" json:"date"`
	TimeSlot  string    `bson:"time_slot" json:"time_slot"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
