package handler

import (
	"net/http"

	"mentorbook/internal/mentors/service"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/middleware"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MentorHandler struct {
	service service.MentorService
	log     *logger.Logger
}

func NewMentorHandler(service service.MentorService, log *logger.Logger) *MentorHandler {
	return &MentorHandler{
		service: service,
		log:     log,
	}
}

func (h *MentorHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/mentors", h.ListActive)
	router.GET("/api/v1/mentors/id/:id", h.GetByID)

	router.GET("/api/v1/admin/mentors", middleware.AdminOnly(h.GetAll))
	router.POST("/api/v1/admin/mentors", middleware.AdminOnly(h.Create))
	router.PATCH("/api/v1/admin/mentors/id/:id", middleware.AdminOnly(h.Update))
	router.DELETE("/api/v1/admin/mentors/id/:id", middleware.AdminOnly(h.Delete))
}

func (h *MentorHandler) ListActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mentors, err := h.service.ListActive(r.Context())
	if err != nil {
		h.writeError(w, "ListActive", err)
		return
	}

	if err := httputil.WriteSuccess(w, mentors); err != nil {
		h.log.Error("failed to write success response", "handler", "ListActive", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MentorHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	mentor, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, mentor); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MentorHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	mentors, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, mentors, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *MentorHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var mentor model.Mentor
	if err := httputil.ReadJSON(r, &mentor, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &mentor); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, mentor); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *MentorHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.MentorUpdate
	if err := httputil.ReadJSON(r, &updates, false); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	mentor, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, mentor); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MentorHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write no content response", "handler", "Delete", "operation", "WriteNoContent", "error", err)
	}
}

func (h *MentorHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
