package model

import (
	"slices"
	"time"
)

// Blackout is an administrator-imposed restriction on a single calendar date.
type Blackout struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Date      time.Time `json:"date" bson:"date"`
	TimeSlots []string  `json:"time_slots" bson:"time_slots"`
	IsFullDay bool      `json:"is_full_day" bson:"is_full_day"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Blocks reports whether slot is unavailable because of this entry.
func (b *Blackout) Blocks(slot string) bool {
	if b == nil {
		return false
	}
	if b.IsFullDay {
		return true
	}
	return slices.Contains(b.TimeSlots, slot)
}

type BlockRequest struct {
	Date      string   `json:"date" validate:"required"`
	TimeSlots []string `json:"time_slots" validate:"omitempty,dive,timeslot"`
	IsFullDay bool     `json:"is_full_day"`
	Reason    string   `json:"reason" validate:"omitempty,max=500"`
}

type UnblockRequest struct {
	TimeSlots []string `json:"time_slots" validate:"omitempty,dive,timeslot"`
}

// UnblockResult reports what is left of an entry after an unblock. Blackout
// is nil when the entry was removed.
type UnblockResult struct {
	ID       string    `json:"id"`
	Removed  bool      `json:"removed"`
	Blackout *Blackout `json:"blackout,omitempty"`
}
