package service

import (
	"context"
	"errors"
	"time"

	blackoutserrors "mentorbook/internal/blackouts/errors"
	"mentorbook/internal/blackouts/repository"
	"mentorbook/internal/blackouts/validator"
	"mentorbook/internal/validation"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/locale"
	"mentorbook/pkg/model"
	"mentorbook/pkg/sanitizer"
)

type BlackoutService interface {
	Block(ctx context.Context, req *model.BlockRequest, actor model.Actor) (*model.Blackout, error)
	Unblock(ctx context.Context, id string, req *model.UnblockRequest) (*model.UnblockResult, error)
	ListForMonth(ctx context.Context, month, year int) ([]*model.Blackout, error)
	ListForRange(ctx context.Context, startDate, endDate string) ([]*model.Blackout, error)
}

type blackoutService struct {
	repo      repository.BlackoutRepository
	validator *validator.BlackoutValidator
	locale    *locale.Locale
	cfg       *config.Config
	now       func() time.Time
}

func NewBlackoutService(
	repo repository.BlackoutRepository,
	validator *validator.BlackoutValidator,
	cfg *config.Config,
) BlackoutService {
	return &blackoutService{
		repo:      repo,
		validator: validator,
		locale:    locale.New(cfg.Location),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Block is safe to repeat: applying the same request twice leaves the same entry.
func (s *blackoutService) Block(ctx context.Context, req *model.BlockRequest, actor model.Actor) (*model.Blackout, error) {
	req.TimeSlots = sanitizer.NormalizeTimeSlots(req.TimeSlots)
	req.Reason = sanitizer.NormalizeText(req.Reason)

	if err := s.validator.ValidateBlock(req); err != nil {
		return nil, s.invalid("Blackout validation failed", err)
	}

	date, err := s.locale.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if s.locale.IsPast(date, s.now()) {
		return nil, apperrors.InvalidInput("Cannot block past dates")
	}
	if !req.IsFullDay && len(req.TimeSlots) == 0 {
		return nil, apperrors.InvalidInput("Select at least one time slot or block the full day")
	}

	entry := &model.Blackout{
		Date:      date,
		TimeSlots: req.TimeSlots,
		IsFullDay: req.IsFullDay,
		Reason:    req.Reason,
		CreatedBy: actor.ID,
	}
	if entry.IsFullDay {
		entry.TimeSlots = []string{}
	}

	blackout, err := s.repo.Block(ctx, entry)
	if err != nil {
		s.cfg.Log.Error("Failed to block date", "date", req.Date, "error", err)
		return nil, apperrors.Internal("Failed to block date", err)
	}

	s.cfg.Log.Info("Date blocked",
		"id", blackout.ID,
		"date", req.Date,
		"is_full_day", blackout.IsFullDay,
		"time_slots", blackout.TimeSlots,
		"by", actor.ID,
	)
	return blackout, nil
}

// Unblock without slots removes the entry. With slots it removes only those
// and lifts a full-day block.
func (s *blackoutService) Unblock(ctx context.Context, id string, req *model.UnblockRequest) (*model.UnblockResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Blackout ID cannot be empty")
	}
	if req == nil {
		req = &model.UnblockRequest{}
	}
	req.TimeSlots = sanitizer.NormalizeTimeSlots(req.TimeSlots)
	if err := s.validator.ValidateUnblock(req); err != nil {
		return nil, s.invalid("Unblock validation failed", err)
	}

	remaining, err := s.repo.Unblock(ctx, id, req.TimeSlots)
	if err != nil {
		switch {
		case errors.Is(err, blackoutserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Blackout", id)
		case errors.Is(err, blackoutserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid blackout ID format")
		default:
			s.cfg.Log.Error("Failed to unblock", "id", id, "error", err)
			return nil, apperrors.Internal("Failed to unblock", err)
		}
	}

	s.cfg.Log.Info("Blackout lifted",
		"id", id,
		"time_slots", req.TimeSlots,
		"removed", remaining == nil,
	)
	return &model.UnblockResult{ID: id, Removed: remaining == nil, Blackout: remaining}, nil
}

func (s *blackoutService) ListForMonth(ctx context.Context, month, year int) ([]*model.Blackout, error) {
	start, end, err := s.locale.MonthRange(time.Month(month), year)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid month or year")
	}
	return s.list(ctx, start, end)
}

// ListForRange includes both endpoints.
func (s *blackoutService) ListForRange(ctx context.Context, startDate, endDate string) ([]*model.Blackout, error) {
	start, err := s.locale.ParseDate(startDate)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid startDate parameter: " + startDate)
	}
	end, err := s.locale.ParseDate(endDate)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid endDate parameter: " + endDate)
	}
	if end.Before(start) {
		return nil, apperrors.InvalidInput("endDate must not be before startDate")
	}
	return s.list(ctx, start, s.locale.NextDay(end))
}

func (s *blackoutService) list(ctx context.Context, start, end time.Time) ([]*model.Blackout, error) {
	entries, err := s.repo.ListForRange(ctx, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to list blackouts", "start", start, "end", end, "error", err)
		return nil, apperrors.Internal("Failed to retrieve blocked dates", err)
	}
	return entries, nil
}

func (s *blackoutService) invalid(message string, err error) error {
	s.cfg.Log.Warn(message, "error", err)
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.InvalidInput(message).WithDetails(verrs.Details())
	}
	return apperrors.InvalidInput(message)
}
