package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmBooking_Success(t *testing.T) {
	f := newFixture(t)

	booking, err := f.bookings.ConfirmBooking(context.Background(), alice, bookingRequest(mentorA, "2025-06-02", "15:00-16:00"))
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, model.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, alice.ID, booking.UserID)
	assert.Equal(t, int64(200), booking.Amount)
	assert.Equal(t, "INR", booking.Currency)
	assert.True(t, booking.Date.Equal(f.day(t, "2025-06-02")))

	select {
	case e := <-f.events.confirmed:
		assert.Equal(t, booking.ID, e.Booking.ID)
		assert.Equal(t, "Asha", e.Mentor.Name)
		assert.Equal(t, alice.ID, e.User.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a BookingConfirmed event")
	}
}

func TestConfirmBooking_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	const attempts = 25

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, conflicted := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.bookings.ConfirmBooking(context.Background(), alice, bookingRequest(mentorA, "2025-06-02", "18:00-19:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.HasCode(err, apperrors.CodeSlotUnavailable):
				conflicted++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)

	active, err := f.repo.FindActiveForDate(context.Background(), mentorA, f.day(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestConfirmBooking_ConflictIsExplicitAboutPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-02", "16:00-17:00"))
	require.NoError(t, err)

	_, err = f.bookings.ConfirmBooking(ctx, bob, bookingRequest(mentorA, "2025-06-02", "16:00-17:00"))
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeSlotUnavailable, appErr.Code)
	assert.Equal(t, 409, appErr.StatusCode())
	assert.Equal(t, true, appErr.Details["paid"])
	assert.Equal(t, "pay_16:00-17:00", appErr.Details["payment_id"])
}

func TestConfirmBooking_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		req   *model.BookingRequest
		actor model.Actor
		code  string
	}{
		{
			name:  "inactive mentor",
			req:   bookingRequest(mentorB, "2025-06-02", "15:00-16:00"),
			actor: alice,
			code:  apperrors.CodeInvalidInput,
		},
		{
			name:  "unknown mentor",
			req:   bookingRequest("507f1f77bcf86cd7994390ff", "2025-06-02", "15:00-16:00"),
			actor: alice,
			code:  apperrors.CodeInvalidInput,
		},
		{
			name:  "past date",
			req:   bookingRequest(mentorA, "2025-05-31", "15:00-16:00"),
			actor: alice,
			code:  apperrors.CodeInvalidInput,
		},
		{
			name:  "slot outside catalog",
			req:   bookingRequest(mentorA, "2025-06-02", "10:00-11:00"),
			actor: alice,
			code:  apperrors.CodeInvalidInput,
		},
		{
			name:  "malformed date",
			req:   bookingRequest(mentorA, "02/06/2025", "15:00-16:00"),
			actor: alice,
			code:  apperrors.CodeInvalidInput,
		},
		{
			name:  "anonymous caller",
			req:   bookingRequest(mentorA, "2025-06-02", "15:00-16:00"),
			actor: model.Actor{},
			code:  apperrors.CodeUnauthorized,
		},
		{
			name: "blocked slot",
			setup: func(f *fixture) {
				f.blackouts.entries = append(f.blackouts.entries, &model.Blackout{
					Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, f.cfg.Location),
					TimeSlots: []string{"15:00-16:00"},
				})
			},
			req:   bookingRequest(mentorA, "2025-06-02", "15:00-16:00"),
			actor: alice,
			code:  apperrors.CodeSlotUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.bookings.ConfirmBooking(context.Background(), tt.actor, tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name  string
		actor model.Actor
		code  string
	}{
		{"owner", alice, ""},
		{"admin", admin, ""},
		{"someone else", bob, apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			booking, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-02", "20:00-21:00"))
			require.NoError(t, err)

			cancelled, err := f.bookings.Cancel(ctx, booking.ID, tt.actor)
			if tt.code != "" {
				assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

			select {
			case e := <-f.events.cancelled:
				assert.Equal(t, booking.ID, e.Booking.ID)
				assert.Equal(t, tt.actor.ID, e.CancelledBy.ID)
			case <-time.After(time.Second):
				t.Fatal("expected a BookingCancelled event")
			}
		})
	}
}

func TestCancel_FreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-02", "15:00-16:00"))
	require.NoError(t, err)

	before, err := f.availability.GetAvailability(ctx, "2025-06-02", mentorA, bob)
	require.NoError(t, err)
	assert.NotContains(t, before.AvailableSlots, "15:00-16:00")

	_, err = f.bookings.Cancel(ctx, booking.ID, alice)
	require.NoError(t, err)

	after, err := f.availability.GetAvailability(ctx, "2025-06-02", mentorA, bob)
	require.NoError(t, err)
	assert.Contains(t, after.AvailableSlots, "15:00-16:00")

	rebook := bookingRequest(mentorA, "2025-06-02", "15:00-16:00")
	rebook.PaymentRef = &model.PaymentRef{OrderID: "order_bob", PaymentID: "pay_bob"}
	_, err = f.bookings.ConfirmBooking(ctx, bob, rebook)
	assert.NoError(t, err)
}

func TestConfirmBooking_PaymentRefBacksOneBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := bookingRequest(mentorA, "2025-06-02", "15:00-16:00")
	_, err := f.bookings.ConfirmBooking(ctx, alice, first)
	require.NoError(t, err)

	for _, slot := range []string{"16:00-17:00", "17:00-18:00"} {
		req := bookingRequest(mentorA, "2025-06-02", slot)
		req.PaymentRef = first.PaymentRef
		_, err = f.bookings.ConfirmBooking(ctx, alice, req)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "slot %s: %v", slot, err)
	}

	active, err := f.repo.FindActiveForDate(ctx, mentorA, f.day(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestConfirmBooking_OnBehalfOfUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := bookingRequest(mentorA, "2025-06-02", "15:00-16:00")
	req.UserID = bob.ID
	_, err := f.bookings.ConfirmBooking(ctx, alice, req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	booking, err := f.bookings.ConfirmBooking(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, booking.UserID)

	_, err = f.bookings.Cancel(ctx, booking.ID, bob)
	assert.NoError(t, err)
}

func TestTerminalStatusesRejectChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	completed, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-02", "21:00-22:00"))
	require.NoError(t, err)
	_, err = f.bookings.SetStatus(ctx, completed.ID, &model.BookingRemark{Remark: "done"}, admin)
	require.NoError(t, err)

	cancelled, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-02", "22:00-23:00"))
	require.NoError(t, err)
	_, err = f.bookings.Cancel(ctx, cancelled.ID, alice)
	require.NoError(t, err)

	for _, id := range []string{completed.ID, cancelled.ID} {
		_, err = f.bookings.Cancel(ctx, id, alice)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition), "cancel %s: %v", id, err)

		_, err = f.bookings.SetStatus(ctx, id, &model.BookingRemark{Status: model.BookingStatusCompleted}, admin)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition), "complete %s: %v", id, err)
	}

	appErr := apperrors.AsAppError(func() error { _, err := f.bookings.Cancel(ctx, completed.ID, admin); return err }())
	require.NotNil(t, appErr)
	assert.Equal(t, "completed", appErr.Details["from"])
	assert.Equal(t, "cancelled", appErr.Details["to"])
}

func TestSetStatus_DefaultsToCompletedWithRemark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-02", "19:00-20:00"))
	require.NoError(t, err)

	updated, err := f.bookings.SetStatus(ctx, booking.ID, &model.BookingRemark{Remark: "Covered system design"}, admin)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, updated.Status)
	assert.Equal(t, "Covered system design", updated.MentorRemark)

	_, err = f.bookings.SetStatus(ctx, booking.ID, &model.BookingRemark{}, alice)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestSetStatus_ConfirmedIsNotARemarkTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-02", "20:00-21:00"))
	require.NoError(t, err)

	_, err = f.bookings.SetStatus(ctx, booking.ID, &model.BookingRemark{Remark: "rescheduled", Status: model.BookingStatusConfirmed}, admin)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "got %v", err)

	stored, err := f.bookings.GetByID(ctx, booking.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, stored.Status)
	assert.Empty(t, stored.MentorRemark)
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-02", "23:00-00:00"))
	require.NoError(t, err)

	_, err = f.bookings.GetByID(ctx, booking.ID, alice)
	assert.NoError(t, err)
	_, err = f.bookings.GetByID(ctx, booking.ID, admin)
	assert.NoError(t, err)
	_, err = f.bookings.GetByID(ctx, booking.ID, bob)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	_, err = f.bookings.GetByID(ctx, "ffffffffffffffffffffffff", admin)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestGetAll_FiltersAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, slot := range []string{"15:00-16:00", "16:00-17:00", "17:00-18:00"} {
		_, err := f.bookings.ConfirmBooking(ctx, alice, bookingRequest(mentorA, "2025-06-03", slot))
		require.NoError(t, err)
	}

	bookings, total, err := f.bookings.GetAll(ctx, model.BookingFilter{Status: model.BookingStatusConfirmed}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, bookings, 2)

	_, _, err = f.bookings.GetAll(ctx, model.BookingFilter{Status: "archived"}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	mine, err := f.bookings.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestGetAll_CountFailureCancelsListing(t *testing.T) {
	f := newFixture(t)
	f.repo.countErr = errors.New("connection reset")
	f.repo.blockList = true

	done := make(chan error, 1)
	go func() {
		_, _, err := f.bookings.GetAll(context.Background(), model.BookingFilter{}, 10, 0)
		done <- err
	}()

	select {
	case err := <-done:
		appErr := apperrors.AsAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.CodeInternal, appErr.Code)
		assert.Equal(t, "Failed to count bookings", appErr.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("GetAll did not return after the count failed")
	}
}
