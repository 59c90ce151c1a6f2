package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "mentorbook/internal/bookings/errors"
	bookingsrepo "mentorbook/internal/bookings/repository"
	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/internal/payments/gateway"
	paymentserrors "mentorbook/internal/payments/errors"
	"mentorbook/internal/payments/repository"
	"mentorbook/internal/payments/validator"
	"mentorbook/internal/slots"
	"mentorbook/internal/validation"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/locale"
	"mentorbook/pkg/model"
	"mentorbook/pkg/sealer"
)

// Gateway creates checkout orders with the payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, params gateway.OrderParams) (*gateway.GatewayOrder, error)
	KeyID() string
}

// BookingConfirmer turns a verified payment into a booking.
type BookingConfirmer interface {
	ConfirmBooking(ctx context.Context, actor model.Actor, req *model.BookingRequest) (*model.Booking, error)
}

type SlotLookup interface {
	FindActiveForSlot(ctx context.Context, mentorID string, date time.Time, timeSlot string) (*model.Booking, error)
}

type MentorLookup interface {
	FindByID(ctx context.Context, id string) (*model.Mentor, error)
}

type BlackoutLookup interface {
	FindByDate(ctx context.Context, date time.Time) (*model.Blackout, error)
}

type PaymentService interface {
	CreateOrder(ctx context.Context, actor model.Actor, req *model.OrderRequest) (*model.Order, error)
	Verify(ctx context.Context, actor model.Actor, req *model.VerifyRequest) (*model.VerifyResult, error)
	HandleWebhook(ctx context.Context, event *model.WebhookEvent) error
}

type paymentService struct {
	repo      repository.PaymentRepository
	holds     bookingsrepo.SlotHoldRepository
	bookings  SlotLookup
	confirmer BookingConfirmer
	mentors   MentorLookup
	blackouts BlackoutLookup
	gateway   Gateway
	validator *validator.PaymentValidator
	locale    *locale.Locale
	cfg       *config.Config
	now       func() time.Time
}

// NewPaymentService takes a nil gateway when no credentials are configured;
// order creation then reports the gateway as unavailable.
func NewPaymentService(
	repo repository.PaymentRepository,
	holds bookingsrepo.SlotHoldRepository,
	bookings SlotLookup,
	confirmer BookingConfirmer,
	mentors MentorLookup,
	blackouts BlackoutLookup,
	gateway Gateway,
	validator *validator.PaymentValidator,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		repo:      repo,
		holds:     holds,
		bookings:  bookings,
		confirmer: confirmer,
		mentors:   mentors,
		blackouts: blackouts,
		gateway:   gateway,
		validator: validator,
		locale:    locale.New(cfg.Location),
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateOrder holds the slot for the caller and opens a gateway order. The
// hold expires on its own if the payment is never verified.
func (s *paymentService) CreateOrder(ctx context.Context, actor model.Actor, req *model.OrderRequest) (*model.Order, error) {
	if actor.ID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err := s.validator.ValidateOrder(req); err != nil {
		return nil, s.invalid("Order request validation failed", err)
	}

	now := s.now()
	date, err := s.locale.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if s.locale.IsPast(date, now) {
		return nil, apperrors.InvalidInput("Cannot book past dates")
	}
	if s.locale.IsToday(date, now) && slots.Slot(req.TimeSlot).StartHour() <= s.locale.Hour(now) {
		return nil, apperrors.SlotUnavailable("This slot is no longer available")
	}

	if err := s.checkMentor(ctx, req.MentorID); err != nil {
		return nil, err
	}
	if err := s.checkSlotFree(ctx, req.MentorID, date, req.TimeSlot); err != nil {
		return nil, err
	}

	if s.gateway == nil {
		return nil, apperrors.Unavailable("Payment gateway")
	}

	hold := &model.SlotHold{
		UserID:    actor.ID,
		MentorID:  req.MentorID,
		Date:      date,
		TimeSlot:  req.TimeSlot,
		ExpiresAt: now.Add(s.cfg.SlotHoldTTL).UTC(),
	}
	if err := s.holds.Acquire(ctx, hold); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotHeld) {
			s.cfg.Log.Info("Slot already held by another user",
				"user_id", actor.ID,
				"mentor_id", req.MentorID,
				"date", req.Date,
				"time_slot", req.TimeSlot,
			)
			return nil, apperrors.SlotUnavailable("This slot is being booked by someone else, please pick another")
		}
		s.cfg.Log.Error("Failed to hold slot", "error", err)
		return nil, apperrors.Internal("Failed to reserve slot", err)
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.OrderParams{
		Amount:   s.cfg.BookingAmount,
		Currency: s.cfg.BookingCurrency,
		Notes: map[string]string{
			"user_id":   actor.ID,
			"mentor_id": req.MentorID,
			"date":      req.Date,
			"time_slot": req.TimeSlot,
		},
	})
	if err != nil {
		s.release(ctx, hold.ID, actor.ID)
		s.cfg.Log.Error("Failed to create gateway order", "user_id", actor.ID, "error", err)
		return nil, apperrors.Unavailable("Payment gateway")
	}

	payment := &model.Payment{
		UserID:   actor.ID,
		OrderID:  order.ID,
		Amount:   s.cfg.BookingAmount,
		Currency: s.cfg.BookingCurrency,
		Status:   model.PaymentStatusPending,
		MentorID: req.MentorID,
		Date:     date,
		TimeSlot: req.TimeSlot,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		s.release(ctx, hold.ID, actor.ID)
		s.cfg.Log.Error("Failed to record payment", "order_id", order.ID, "error", err)
		return nil, apperrors.Internal("Failed to create payment order", err)
	}

	s.cfg.Log.Info("Payment order created",
		"order_id", order.ID,
		"user_id", actor.ID,
		"mentor_id", req.MentorID,
		"date", req.Date,
		"time_slot", req.TimeSlot,
		"held_until", hold.ExpiresAt,
	)

	return &model.Order{
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		KeyID:     s.gateway.KeyID(),
		HeldUntil: hold.ExpiresAt,
	}, nil
}

// Verify checks the checkout signature and confirms the booking. A payment
// that verified but lost its slot stays successful and the error carries
// details.paid so it can be refunded by hand.
func (s *paymentService) Verify(ctx context.Context, actor model.Actor, req *model.VerifyRequest) (*model.VerifyResult, error) {
	if actor.ID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err := s.validator.ValidateVerify(req); err != nil {
		return nil, s.invalid("Payment verification request is invalid", err)
	}

	payment, err := s.repo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, s.translate(err, req.OrderID)
	}
	if !actor.CanAccess(payment.UserID) {
		return nil, apperrors.Forbidden("Not authorized to verify this payment")
	}
	if payment.Status == model.PaymentStatusSuccess && payment.BookingID != "" {
		return nil, apperrors.Conflict("Payment already verified")
	}

	holdKey := bookingsrepo.SlotKey(payment.MentorID, payment.Date, payment.TimeSlot)

	if !sealer.Verify(sealer.PaymentPayload(req.OrderID, req.PaymentID), req.Signature, s.cfg.RazorpayKeySecret) {
		s.cfg.Log.Warn("Payment signature mismatch",
			"order_id", req.OrderID,
			"payment_id", req.PaymentID,
			"user_id", payment.UserID,
		)
		if _, err := s.repo.SetStatus(ctx, req.OrderID, model.PaymentStatusFailed, req.PaymentID, ""); err != nil {
			s.cfg.Log.Error("Failed to mark payment failed", "order_id", req.OrderID, "error", err)
		}
		s.release(ctx, holdKey, payment.UserID)
		return nil, apperrors.InvalidInput("Payment verification failed")
	}

	payment, err = s.repo.SetStatus(ctx, req.OrderID, model.PaymentStatusSuccess, req.PaymentID, req.Signature)
	if err != nil {
		return nil, s.translate(err, req.OrderID)
	}

	owner := actor
	if actor.ID != payment.UserID {
		owner = model.Actor{ID: payment.UserID, Role: model.RoleUser}
	}
	booking, err := s.confirmer.ConfirmBooking(ctx, owner, &model.BookingRequest{
		MentorID:   payment.MentorID,
		Date:       s.locale.Format(payment.Date),
		TimeSlot:   payment.TimeSlot,
		PaymentRef: &model.PaymentRef{OrderID: req.OrderID, PaymentID: req.PaymentID},
	})
	s.release(ctx, holdKey, payment.UserID)
	if err != nil {
		s.cfg.Log.Warn("Verified payment could not be booked",
			"order_id", req.OrderID,
			"payment_id", req.PaymentID,
			"user_id", payment.UserID,
			"error", err,
		)
		return nil, err
	}

	if err := s.repo.LinkBooking(ctx, req.OrderID, booking.ID); err != nil {
		s.cfg.Log.Error("Failed to link booking to payment",
			"order_id", req.OrderID,
			"booking_id", booking.ID,
			"error", err,
		)
	} else {
		payment.BookingID = booking.ID
	}

	s.cfg.Log.Info("Payment verified",
		"order_id", req.OrderID,
		"payment_id", req.PaymentID,
		"booking_id", booking.ID,
	)
	return &model.VerifyResult{Payment: payment, Booking: booking}, nil
}

// HandleWebhook applies gateway notifications. Unknown events and orders are
// ignored so the gateway does not keep redelivering them.
func (s *paymentService) HandleWebhook(ctx context.Context, event *model.WebhookEvent) error {
	entity := event.Payload.Payment.Entity

	switch event.Event {
	case model.WebhookPaymentFailed:
		payment, err := s.repo.FindByOrderID(ctx, entity.OrderID)
		if err != nil {
			if errors.Is(err, paymentserrors.ErrNotFound) {
				s.cfg.Log.Debug("Webhook for unknown order", "order_id", entity.OrderID)
				return nil
			}
			return apperrors.Internal("Failed to load payment", err)
		}
		if payment.Status == model.PaymentStatusSuccess {
			return nil
		}
		if _, err := s.repo.SetStatus(ctx, entity.OrderID, model.PaymentStatusFailed, entity.ID, ""); err != nil {
			return apperrors.Internal("Failed to mark payment failed", err)
		}
		s.release(ctx, bookingsrepo.SlotKey(payment.MentorID, payment.Date, payment.TimeSlot), payment.UserID)
		s.cfg.Log.Info("Payment failed at gateway", "order_id", entity.OrderID, "payment_id", entity.ID)

	case model.WebhookPaymentCaptured:
		s.cfg.Log.Info("Payment captured", "order_id", entity.OrderID, "payment_id", entity.ID)

	default:
		s.cfg.Log.Debug("Ignoring webhook event", "event", event.Event)
	}
	return nil
}

func (s *paymentService) checkMentor(ctx context.Context, id string) error {
	mentor, err := s.mentors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mentorserrors.ErrNotFound) || errors.Is(err, mentorserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid mentor selected")
		}
		return apperrors.Internal("Failed to retrieve mentor", err)
	}
	if !mentor.IsActive {
		return apperrors.InvalidInput("Invalid mentor selected")
	}
	return nil
}

func (s *paymentService) checkSlotFree(ctx context.Context, mentorID string, date time.Time, timeSlot string) error {
	blackout, err := s.blackouts.FindByDate(ctx, date)
	if err != nil {
		return apperrors.Internal("Failed to check blocked slots", err)
	}
	if blackout.Blocks(timeSlot) {
		return apperrors.SlotUnavailable("This slot is not available for booking")
	}

	existing, err := s.bookings.FindActiveForSlot(ctx, mentorID, date, timeSlot)
	if err != nil {
		return apperrors.Internal("Failed to check slot availability", err)
	}
	if existing != nil {
		return apperrors.SlotUnavailable("This slot is already booked")
	}
	return nil
}

func (s *paymentService) release(ctx context.Context, key, userID string) {
	if err := s.holds.Release(context.WithoutCancel(ctx), key, userID); err != nil {
		s.cfg.Log.Warn("Failed to release slot hold", "key", key, "user_id", userID, "error", err)
	}
}

func (s *paymentService) translate(err error, orderID string) error {
	if errors.Is(err, paymentserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Payment", orderID)
	}
	s.cfg.Log.Error("Payment lookup failed", "order_id", orderID, "error", err)
	return apperrors.Internal("Failed to retrieve payment", err)
}

func (s *paymentService) invalid(message string, err error) error {
	s.cfg.Log.Warn(message, "error", err)
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.InvalidInput(message).WithDetails(verrs.Details())
	}
	return apperrors.InvalidInput(message)
}
