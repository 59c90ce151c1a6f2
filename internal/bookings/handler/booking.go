package handler

import (
	"net/http"
	"time"

	"mentorbook/internal/bookings/service"
	apperrors "mentorbook/pkg/errors"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/locale"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/middleware"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service      service.BookingService
	availability service.AvailabilityService
	analytics    service.AnalyticsService
	locale       *locale.Locale
	log          *logger.Logger
}

func NewBookingHandler(
	service service.BookingService,
	availability service.AvailabilityService,
	analytics service.AnalyticsService,
	loc *locale.Locale,
	log *logger.Logger,
) *BookingHandler {
	return &BookingHandler{
		service:      service,
		availability: availability,
		analytics:    analytics,
		locale:       loc,
		log:          log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.GetAvailability)

	// Users book through payment verification. Direct confirmation trusts
	// the payment reference, so it is reserved for manual admin bookings.
	router.POST("/api/v1/bookings", middleware.AdminOnly(h.Confirm))
	router.GET("/api/v1/bookings/my", middleware.Authenticated(h.ListMine))
	router.GET("/api/v1/bookings/id/:id", middleware.Authenticated(h.GetByID))
	router.PUT("/api/v1/bookings/id/:id/cancel", middleware.Authenticated(h.Cancel))

	router.GET("/api/v1/admin/bookings", middleware.AdminOnly(h.GetAll))
	router.PUT("/api/v1/admin/bookings/id/:id/remark", middleware.AdminOnly(h.SetRemark))
	router.GET("/api/v1/admin/analytics", middleware.AdminOnly(h.GetAnalytics))
}

func (h *BookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	result, err := h.availability.GetAvailability(r.Context(), query.Get("date"), query.Get("mentorId"), middleware.ActorFrom(r.Context()))
	if err != nil {
		h.writeError(w, "GetAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.ReadJSON(r, &req, false); err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	booking, err := h.service.ConfirmBooking(r.Context(), middleware.ActorFrom(r.Context()), &req)
	if err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Confirm", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.ListByUser(r.Context(), middleware.ActorFrom(r.Context()).ID)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"), middleware.ActorFrom(r.Context()))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"), middleware.ActorFrom(r.Context()))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) SetRemark(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var remark model.BookingRemark
	if err := httputil.ReadJSON(r, &remark, true); err != nil {
		h.writeError(w, "SetRemark", err)
		return
	}

	booking, err := h.service.SetStatus(r.Context(), ps.ByName("id"), &remark, middleware.ActorFrom(r.Context()))
	if err != nil {
		h.writeError(w, "SetRemark", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "SetRemark", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAnalytics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	analytics, err := h.analytics.GetAnalytics(r.Context())
	if err != nil {
		h.writeError(w, "GetAnalytics", err)
		return
	}

	if err := httputil.WriteSuccess(w, analytics); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAnalytics", "operation", "WriteSuccess", "error", err)
	}
}

// parseFilter reads status, mentorId, startDate and endDate. endDate is
// inclusive of the whole day.
func (h *BookingHandler) parseFilter(r *http.Request) (model.BookingFilter, error) {
	query := r.URL.Query()
	filter := model.BookingFilter{
		Status:   model.BookingStatus(query.Get("status")),
		MentorID: query.Get("mentorId"),
	}

	if s := query.Get("startDate"); s != "" {
		start, err := h.locale.ParseDate(s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid startDate parameter: " + s)
		}
		filter.StartDate = &start
	}
	if s := query.Get("endDate"); s != "" {
		end, err := h.locale.ParseDate(s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid endDate parameter: " + s)
		}
		end = h.locale.NextDay(end).Add(-time.Millisecond)
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, apperrors.InvalidInput("endDate must not be before startDate")
	}
	return filter, nil
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
