package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "mentorbook/internal/bookings/errors"
	"mentorbook/internal/bookings/repository"
	"mentorbook/internal/bookings/validator"
	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/internal/validation"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/locale"
	"mentorbook/pkg/model"

	"golang.org/x/sync/errgroup"
)

// MentorLookup resolves the mentor a booking is made with.
type MentorLookup interface {
	FindByID(ctx context.Context, id string) (*model.Mentor, error)
}

// BlackoutLookup returns the blackout for a day, or nil when there is none.
type BlackoutLookup interface {
	FindByDate(ctx context.Context, date time.Time) (*model.Blackout, error)
}

// EventPublisher hands lifecycle events to the notification pipeline.
type EventPublisher interface {
	PublishConfirmed(ctx context.Context, event model.BookingConfirmedEvent) error
	PublishCancelled(ctx context.Context, event model.BookingCancelledEvent) error
}

type BookingService interface {
	ConfirmBooking(ctx context.Context, actor model.Actor, req *model.BookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, id string, actor model.Actor) (*model.Booking, error)
	SetStatus(ctx context.Context, id string, remark *model.BookingRemark, actor model.Actor) (*model.Booking, error)
	GetByID(ctx context.Context, id string, actor model.Actor) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	GetAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	mentors   MentorLookup
	blackouts BlackoutLookup
	events    EventPublisher
	validator *validator.BookingValidator
	metrics   *Metrics
	locale    *locale.Locale
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	mentors MentorLookup,
	blackouts BlackoutLookup,
	events EventPublisher,
	validator *validator.BookingValidator,
	metrics *Metrics,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		mentors:   mentors,
		blackouts: blackouts,
		events:    events,
		validator: validator,
		metrics:   metrics,
		locale:    locale.New(cfg.Location),
		cfg:       cfg,
		now:       time.Now,
	}
}

// ConfirmBooking records a paid booking as confirmed. The ledger insert is
// the only guard against a concurrent booking of the same slot; the checks
// before it only produce clearer errors.
func (s *bookingService) ConfirmBooking(ctx context.Context, actor model.Actor, req *model.BookingRequest) (*model.Booking, error) {
	if actor.ID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, s.invalid("Booking request validation failed", err)
	}

	if req.UserID != "" && req.UserID != actor.ID {
		if !actor.IsAdmin() {
			return nil, apperrors.Forbidden("Only admins can book on behalf of another user")
		}
		actor = model.Actor{ID: req.UserID, Role: model.RoleUser}
	}

	date, err := s.locale.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if s.locale.IsPast(date, s.now()) {
		return nil, apperrors.InvalidInput("Cannot book past dates")
	}

	mentor, err := s.activeMentor(ctx, req.MentorID)
	if err != nil {
		return nil, err
	}

	blackout, err := s.blackouts.FindByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to check blocked slots", err)
	}
	if blackout.Blocks(req.TimeSlot) {
		s.cfg.Log.Warn("Paid booking rejected, slot is blocked",
			"user_id", actor.ID,
			"mentor_id", req.MentorID,
			"date", s.locale.Format(date),
			"time_slot", req.TimeSlot,
			"order_id", req.PaymentRef.OrderID,
			"payment_id", req.PaymentRef.PaymentID,
		)
		return nil, slotUnavailable("This slot is not available for booking", req.PaymentRef)
	}

	booking := &model.Booking{
		UserID:     actor.ID,
		MentorID:   mentor.ID,
		Date:       date,
		TimeSlot:   req.TimeSlot,
		Status:     model.BookingStatusConfirmed,
		Amount:     s.cfg.BookingAmount,
		Currency:   s.cfg.BookingCurrency,
		PaymentRef: req.PaymentRef,
	}

	if err := s.repo.Insert(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotConflict) {
			s.metrics.record(outcomeConflict)
			s.cfg.Log.Warn("Paid booking rejected, slot already taken",
				"user_id", actor.ID,
				"mentor_id", booking.MentorID,
				"date", s.locale.Format(date),
				"time_slot", booking.TimeSlot,
				"order_id", req.PaymentRef.OrderID,
				"payment_id", req.PaymentRef.PaymentID,
			)
			return nil, slotUnavailable("This slot is already booked", req.PaymentRef)
		}
		if errors.Is(err, bookingserrors.ErrPaymentReused) {
			s.cfg.Log.Warn("Booking rejected, payment already used",
				"user_id", actor.ID,
				"order_id", req.PaymentRef.OrderID,
				"payment_id", req.PaymentRef.PaymentID,
			)
			return nil, apperrors.Conflict("This payment has already been used for a booking")
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.metrics.record(outcomeConfirmed)
	s.cfg.Log.Info("Booking confirmed",
		"id", booking.ID,
		"user_id", booking.UserID,
		"mentor_id", booking.MentorID,
		"date", s.locale.Format(date),
		"time_slot", booking.TimeSlot,
	)

	event := model.BookingConfirmedEvent{Booking: *booking, Mentor: *mentor, User: actor}
	s.publish(ctx, booking.ID, model.EventBookingConfirmed, func(ctx context.Context) error {
		return s.events.PublishConfirmed(ctx, event)
	})
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, actor model.Actor) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve booking")
	}
	if !actor.CanAccess(existing.UserID) {
		return nil, apperrors.Forbidden("Not authorized to cancel this booking")
	}

	booking, err := s.repo.SetStatus(ctx, id, model.BookingStatusCancelled, nil)
	if err != nil {
		return nil, s.translate(err, id, "Failed to cancel booking")
	}

	s.metrics.record(outcomeCancelled)
	s.cfg.Log.Info("Booking cancelled", "id", id, "by", actor.ID, "role", actor.Role)

	s.publishCancelled(ctx, booking, actor)
	return booking, nil
}

// SetStatus is the admin remark action. Without an explicit status the
// booking is marked completed.
func (s *bookingService) SetStatus(ctx context.Context, id string, remark *model.BookingRemark, actor model.Actor) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("Admin role required")
	}
	if err := s.validator.ValidateRemark(remark); err != nil {
		return nil, s.invalid("Remark validation failed", err)
	}

	status := remark.Status
	if status == "" {
		status = model.BookingStatusCompleted
	}
	var note *string
	if remark.Remark != "" {
		note = &remark.Remark
	}

	booking, err := s.repo.SetStatus(ctx, id, status, note)
	if err != nil {
		return nil, s.translate(err, id, "Failed to update booking")
	}

	switch status {
	case model.BookingStatusCompleted:
		s.metrics.record(outcomeCompleted)
	case model.BookingStatusCancelled:
		s.metrics.record(outcomeCancelled)
		s.publishCancelled(ctx, booking, actor)
	}
	s.cfg.Log.Info("Booking status updated", "id", id, "status", status, "by", actor.ID)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string, actor model.Actor) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve booking")
	}
	if !actor.CanAccess(booking.UserID) {
		return nil, apperrors.Forbidden("Not authorized to view this booking")
	}
	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.InvalidInput("Invalid status filter: " + string(filter.Status))
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			return apperrors.Internal("Failed to count bookings", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		bookings, err = s.repo.FindAll(gctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "limit", limit, "offset", offset, "error", err)
			return apperrors.Internal("Failed to retrieve bookings", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) activeMentor(ctx context.Context, id string) (*model.Mentor, error) {
	mentor, err := s.mentors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mentorserrors.ErrNotFound) || errors.Is(err, mentorserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid mentor selected")
		}
		return nil, apperrors.Internal("Failed to retrieve mentor", err)
	}
	if !mentor.IsActive {
		return nil, apperrors.InvalidInput("Invalid mentor selected")
	}
	return mentor, nil
}

func (s *bookingService) publishCancelled(ctx context.Context, booking *model.Booking, actor model.Actor) {
	event := model.BookingCancelledEvent{Booking: *booking, CancelledBy: actor}
	s.publish(ctx, booking.ID, model.EventBookingCancelled, func(ctx context.Context) error {
		return s.events.PublishCancelled(ctx, event)
	})
}

// publish runs send in the background. Delivery failure is logged and never
// affects the booking.
func (s *bookingService) publish(ctx context.Context, bookingID, eventType string, send func(ctx context.Context) error) {
	if s.events == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			s.metrics.record(outcomePublishFailed)
			s.cfg.Log.Warn("Failed to publish booking event",
				"booking_id", bookingID,
				"event_type", eventType,
				"error", err,
			)
		}
	}()
}

func (s *bookingService) translate(err error, id string, message string) error {
	var transition *bookingserrors.TransitionError
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.As(err, &transition):
		return apperrors.InvalidTransition(string(transition.From), string(transition.To))
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *bookingService) invalid(message string, err error) error {
	s.cfg.Log.Warn(message, "error", err)
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.InvalidInput(message).WithDetails(verrs.Details())
	}
	return apperrors.InvalidInput(message)
}

// slotUnavailable sets details.paid when a payment reference came with the request.
func slotUnavailable(message string, ref *model.PaymentRef) error {
	details := map[string]any{"paid": ref != nil}
	if ref != nil {
		details["order_id"] = ref.OrderID
		details["payment_id"] = ref.PaymentID
	}
	return apperrors.SlotUnavailable(message).WithDetails(details)
}
