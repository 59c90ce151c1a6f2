package service

import (
	"context"
	"time"

	"mentorbook/internal/bookings/repository"
	"mentorbook/internal/slots"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/locale"
	"mentorbook/pkg/model"
)

const (
	msgPastDate    = "Cannot book past dates"
	msgBlockedDate = "This date is not available for booking"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, date string, mentorID string, actor model.Actor) (*model.Availability, error)
}

type availabilityService struct {
	bookings  repository.BookingRepository
	holds     repository.SlotHoldRepository
	blackouts BlackoutLookup
	locale    *locale.Locale
	cfg       *config.Config
	now       func() time.Time
}

func NewAvailabilityService(
	bookings repository.BookingRepository,
	holds repository.SlotHoldRepository,
	blackouts BlackoutLookup,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		bookings:  bookings,
		holds:     holds,
		blackouts: blackouts,
		locale:    locale.New(cfg.Location),
		cfg:       cfg,
		now:       time.Now,
	}
}

// GetAvailability returns the catalog slots still bookable for the mentor on
// date. An empty mentorID treats a booking with any mentor as occupying the
// slot. Slots held by other users during payment are left out; the caller's
// own hold is not.
func (s *availabilityService) GetAvailability(ctx context.Context, date string, mentorID string, actor model.Actor) (*model.Availability, error) {
	if date == "" {
		return nil, apperrors.InvalidInput("Please provide a date")
	}
	day, err := s.locale.ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	now := s.now()
	result := &model.Availability{
		Date:           day,
		MentorID:       mentorID,
		AvailableSlots: []string{},
		AllSlots:       slots.Strings(),
	}

	if s.locale.IsPast(day, now) {
		result.Message = msgPastDate
		return result, nil
	}

	blackout, err := s.blackouts.FindByDate(ctx, day)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve blocked slots", err)
	}
	if blackout != nil && blackout.IsFullDay {
		result.Message = msgBlockedDate
		return result, nil
	}

	active, err := s.bookings.FindActiveForDate(ctx, mentorID, day)
	if err != nil {
		s.cfg.Log.Error("Failed to retrieve booked slots", "mentor_id", mentorID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booked slots", err)
	}
	occupied := make([]string, 0, len(active))
	for _, b := range active {
		occupied = append(occupied, b.TimeSlot)
	}

	var held []string
	if s.holds != nil {
		holds, err := s.holds.FindHeldByOthers(ctx, mentorID, day, actor.ID, now)
		if err != nil {
			s.cfg.Log.Error("Failed to retrieve held slots", "mentor_id", mentorID, "date", date, "error", err)
			return nil, apperrors.Internal("Failed to retrieve held slots", err)
		}
		for _, h := range holds {
			held = append(held, h.TimeSlot)
		}
	}

	var blocked []string
	if blackout != nil {
		blocked = blackout.TimeSlots
	}

	available := slots.Subtract(slots.All(), blocked, occupied, held)
	if s.locale.IsToday(day, now) {
		available = slots.StartingAfter(available, s.locale.Hour(now))
	}
	result.AvailableSlots = slots.ToStrings(available)

	s.cfg.Log.Debug("Availability resolved",
		"date", s.locale.Format(day),
		"mentor_id", mentorID,
		"available", len(result.AvailableSlots),
	)
	return result, nil
}
