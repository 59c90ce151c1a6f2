package model

import (
	"testing"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusConfirmed, false},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCompleted, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookingStatus_Flags(t *testing.T) {
	tests := []struct {
		status   BookingStatus
		active   bool
		terminal bool
	}{
		{BookingStatusPending, true, false},
		{BookingStatusConfirmed, true, false},
		{BookingStatusCompleted, false, true},
		{BookingStatusCancelled, false, true},
		{BookingStatus("unknown"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if tt.status.Active() != tt.active {
				t.Errorf("Active() = %v, want %v", tt.status.Active(), tt.active)
			}
			if tt.status.Terminal() != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", tt.status.Terminal(), tt.terminal)
			}
		})
	}
}

func TestTransitionSources(t *testing.T) {
	tests := []struct {
		target BookingStatus
		want   []BookingStatus
	}{
		{BookingStatusCancelled, []BookingStatus{BookingStatusPending, BookingStatusConfirmed}},
		{BookingStatusCompleted, []BookingStatus{BookingStatusConfirmed}},
		{BookingStatusConfirmed, []BookingStatus{BookingStatusPending}},
		{BookingStatusPending, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			got := TransitionSources(tt.target)
			if len(got) != len(tt.want) {
				t.Fatalf("TransitionSources(%s) = %v, want %v", tt.target, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("TransitionSources(%s)[%d] = %s, want %s", tt.target, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBlackout_Blocks(t *testing.T) {
	var nilEntry *Blackout
	if nilEntry.Blocks("15:00-16:00") {
		t.Errorf("nil blackout should block nothing")
	}

	partial := &Blackout{TimeSlots: []string{"15:00-16:00"}}
	if !partial.Blocks("15:00-16:00") || partial.Blocks("16:00-17:00") {
		t.Errorf("partial blackout blocks the wrong slots")
	}

	full := &Blackout{IsFullDay: true}
	if !full.Blocks("22:00-23:00") {
		t.Errorf("full-day blackout should block every slot")
	}
}

func TestActor_CanAccess(t *testing.T) {
	owner := Actor{ID: "u1", Role: RoleUser}
	other := Actor{ID: "u2", Role: RoleUser}
	admin := Actor{ID: "a1", Role: RoleAdmin}
	anonymous := Actor{}

	if !owner.CanAccess("u1") {
		t.Errorf("owner should access own resource")
	}
	if other.CanAccess("u1") {
		t.Errorf("other user should not access resource")
	}
	if !admin.CanAccess("u1") {
		t.Errorf("admin should access any resource")
	}
	if anonymous.CanAccess("") {
		t.Errorf("anonymous actor should not match empty owner")
	}
}
