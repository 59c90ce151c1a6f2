package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	bookingserrors "mentorbook/internal/bookings/errors"
	"mentorbook/internal/bookings/validator"
	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/pkg/config"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"
)

const (
	mentorA = "507f1f77bcf86cd799439011"
	mentorB = "507f1f77bcf86cd799439012"
)

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Log:             logger.New(logger.Config{Output: io.Discard}),
		Location:        kolkata(t),
		BookingAmount:   200,
		BookingCurrency: "INR",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
	}
}

// fakeBookingRepo enforces the active-slot and payment-order uniqueness
// under its mutex, the way the unique indexes do in Mongo.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*model.Booking
	seq      int

	countErr error
	// blockList makes FindAll wait for its context to end.
	blockList bool
}

func (f *fakeBookingRepo) Insert(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b.Active = b.Status.Active()
	if b.Active {
		for _, existing := range f.bookings {
			if existing.Active && existing.MentorID == b.MentorID && existing.Date.Equal(b.Date) && existing.TimeSlot == b.TimeSlot {
				return bookingserrors.ErrSlotConflict
			}
		}
	}
	if b.PaymentRef != nil {
		for _, existing := range f.bookings {
			if existing.PaymentRef != nil && existing.PaymentRef.OrderID == b.PaymentRef.OrderID {
				return bookingserrors.ErrPaymentReused
			}
		}
	}
	f.seq++
	b.ID = fmt.Sprintf("%024x", f.seq)
	stored := *b
	f.bookings = append(f.bookings, &stored)
	return nil
}

func (f *fakeBookingRepo) find(id string) *model.Booking {
	for _, b := range f.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b := f.find(id)
	if b == nil {
		return nil, bookingserrors.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (f *fakeBookingRepo) FindActiveForSlot(_ context.Context, mentorID string, date time.Time, timeSlot string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.Active && b.MentorID == mentorID && b.Date.Equal(date) && b.TimeSlot == timeSlot {
			out := *b
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindActiveForDate(_ context.Context, mentorID string, date time.Time) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.bookings {
		if b.Active && b.Date.Equal(date) && (mentorID == "" || b.MentorID == mentorID) {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) SetStatus(_ context.Context, id string, status model.BookingStatus, remark *string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b := f.find(id)
	if b == nil {
		return nil, bookingserrors.ErrNotFound
	}
	if !b.Status.CanTransitionTo(status) {
		return nil, &bookingserrors.TransitionError{From: b.Status, To: status}
	}
	b.Status = status
	b.Active = status.Active()
	if remark != nil {
		b.MentorRemark = *remark
	}
	out := *b
	return &out, nil
}

func (f *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	if f.blockList {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.MentorID != "" && b.MentorID != filter.MentorID {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	if int(offset) >= len(out) {
		return []*model.Booking{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBookingRepo) Count(ctx context.Context, filter model.BookingFilter) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	all, _ := f.FindAll(ctx, filter, 1<<30, 0)
	return int64(len(all)), nil
}

type fakeMentors map[string]*model.Mentor

func (f fakeMentors) FindByID(_ context.Context, id string) (*model.Mentor, error) {
	m, ok := f[id]
	if !ok {
		return nil, mentorserrors.ErrNotFound
	}
	return m, nil
}

func defaultMentors() fakeMentors {
	return fakeMentors{
		mentorA: {ID: mentorA, Name: "Asha", IsActive: true},
		mentorB: {ID: mentorB, Name: "Ravi", IsActive: false},
	}
}

type fakeBlackouts struct {
	entries []*model.Blackout
}

func (f *fakeBlackouts) FindByDate(_ context.Context, date time.Time) (*model.Blackout, error) {
	for _, b := range f.entries {
		if b.Date.Equal(date) {
			return b, nil
		}
	}
	return nil, nil
}

type fakeHolds struct {
	holds []*model.SlotHold
}

func (f *fakeHolds) Acquire(_ context.Context, hold *model.SlotHold) error {
	f.holds = append(f.holds, hold)
	return nil
}

func (f *fakeHolds) Release(_ context.Context, key string, userID string) error {
	f.holds = slices.DeleteFunc(f.holds, func(h *model.SlotHold) bool {
		return h.ID == key && h.UserID == userID
	})
	return nil
}

func (f *fakeHolds) FindHeldByOthers(_ context.Context, mentorID string, date time.Time, userID string, now time.Time) ([]*model.SlotHold, error) {
	var out []*model.SlotHold
	for _, h := range f.holds {
		if h.MentorID == mentorID && h.Date.Equal(date) && h.UserID != userID && h.ExpiresAt.After(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakePublisher struct {
	confirmed chan model.BookingConfirmedEvent
	cancelled chan model.BookingCancelledEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		confirmed: make(chan model.BookingConfirmedEvent, 64),
		cancelled: make(chan model.BookingCancelledEvent, 64),
	}
}

func (p *fakePublisher) PublishConfirmed(_ context.Context, e model.BookingConfirmedEvent) error {
	p.confirmed <- e
	return nil
}

func (p *fakePublisher) PublishCancelled(_ context.Context, e model.BookingCancelledEvent) error {
	p.cancelled <- e
	return nil
}

type fixture struct {
	cfg          *config.Config
	repo         *fakeBookingRepo
	blackouts    *fakeBlackouts
	holds        *fakeHolds
	events       *fakePublisher
	bookings     *bookingService
	availability *availabilityService
	now          time.Time
}

// newFixture pins the clock to 1 June 2025 17:30 in Asia/Kolkata.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig(t)
	f := &fixture{
		cfg:       cfg,
		repo:      &fakeBookingRepo{},
		blackouts: &fakeBlackouts{},
		holds:     &fakeHolds{},
		events:    newFakePublisher(),
		now:       time.Date(2025, 6, 1, 17, 30, 0, 0, cfg.Location),
	}
	clock := func() time.Time { return f.now }

	f.bookings = NewBookingService(f.repo, defaultMentors(), f.blackouts, f.events,
		validator.NewBookingValidator(cfg.Log), nil, cfg).(*bookingService)
	f.bookings.now = clock

	f.availability = NewAvailabilityService(f.repo, f.holds, f.blackouts, cfg).(*availabilityService)
	f.availability.now = clock
	return f
}

func (f *fixture) day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, f.cfg.Location)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func bookingRequest(mentorID, date, slot string) *model.BookingRequest {
	return &model.BookingRequest{
		MentorID:   mentorID,
		Date:       date,
		TimeSlot:   slot,
		PaymentRef: &model.PaymentRef{OrderID: "order_" + slot, PaymentID: "pay_" + slot},
	}
}

var (
	alice = model.Actor{ID: "user-alice", Role: model.RoleUser, Name: "Alice"}
	bob   = model.Actor{ID: "user-bob", Role: model.RoleUser, Name: "Bob"}
	admin = model.Actor{ID: "admin-1", Role: model.RoleAdmin}
)
