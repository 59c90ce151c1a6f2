package handler

import (
	"net/http"
	"strconv"

	"mentorbook/internal/blackouts/service"
	apperrors "mentorbook/pkg/errors"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/middleware"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BlackoutHandler struct {
	service service.BlackoutService
	log     *logger.Logger
}

func NewBlackoutHandler(service service.BlackoutService, log *logger.Logger) *BlackoutHandler {
	return &BlackoutHandler{
		service: service,
		log:     log,
	}
}

func (h *BlackoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/admin/blackouts", middleware.AdminOnly(h.Block))
	router.DELETE("/api/v1/admin/blackouts/id/:id", middleware.AdminOnly(h.Unblock))
	router.GET("/api/v1/admin/blackouts", middleware.AdminOnly(h.List))
}

func (h *BlackoutHandler) Block(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BlockRequest
	if err := httputil.ReadJSON(r, &req, false); err != nil {
		h.writeError(w, "Block", err)
		return
	}

	blackout, err := h.service.Block(r.Context(), &req, middleware.ActorFrom(r.Context()))
	if err != nil {
		h.writeError(w, "Block", err)
		return
	}

	if err := httputil.WriteSuccess(w, blackout); err != nil {
		h.log.Error("failed to write success response", "handler", "Block", "operation", "WriteSuccess", "error", err)
	}
}

// Unblock takes an optional body; without one the whole entry is removed.
func (h *BlackoutHandler) Unblock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.UnblockRequest
	if err := httputil.ReadJSON(r, &req, true); err != nil {
		h.writeError(w, "Unblock", err)
		return
	}

	result, err := h.service.Unblock(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Unblock", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Unblock", "operation", "WriteSuccess", "error", err)
	}
}

// List accepts either month and year, or startDate and endDate.
func (h *BlackoutHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	var (
		entries []*model.Blackout
		err     error
	)
	switch {
	case query.Get("month") != "" || query.Get("year") != "":
		month, monthErr := strconv.Atoi(query.Get("month"))
		year, yearErr := strconv.Atoi(query.Get("year"))
		if monthErr != nil || yearErr != nil {
			h.writeError(w, "List", apperrors.InvalidInput("month and year must both be numbers"))
			return
		}
		entries, err = h.service.ListForMonth(r.Context(), month, year)
	case query.Get("startDate") != "" && query.Get("endDate") != "":
		entries, err = h.service.ListForRange(r.Context(), query.Get("startDate"), query.Get("endDate"))
	default:
		err = apperrors.InvalidInput("Provide month and year, or startDate and endDate")
	}
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlackoutHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
