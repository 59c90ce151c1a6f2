package handler

import (
	"net/http"

	"mentorbook/internal/payments/service"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/middleware"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const SignatureHeader = "X-Razorpay-Signature"

type PaymentHandler struct {
	service       service.PaymentService
	webhookSecret string
	log           *logger.Logger
}

// NewPaymentHandler registers the webhook route only when webhookSecret is set.
func NewPaymentHandler(service service.PaymentService, webhookSecret string, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:       service,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments/order", middleware.Authenticated(h.CreateOrder))
	router.POST("/api/v1/payments/verify", middleware.Authenticated(h.Verify))

	if h.webhookSecret != "" {
		verified := middleware.SignatureVerification(h.webhookSecret, SignatureHeader, h.log)
		router.Handler(http.MethodPost, "/api/v1/payments/webhook", verified(http.HandlerFunc(h.Webhook)))
	}
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.OrderRequest
	if err := httputil.ReadJSON(r, &req, false); err != nil {
		h.writeError(w, "CreateOrder", err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), middleware.ActorFrom(r.Context()), &req)
	if err != nil {
		h.writeError(w, "CreateOrder", err)
		return
	}

	if err := httputil.WriteCreated(w, order); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateOrder", "operation", "WriteCreated", "error", err)
	}
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.VerifyRequest
	if err := httputil.ReadJSON(r, &req, false); err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	result, err := h.service.Verify(r.Context(), middleware.ActorFrom(r.Context()), &req)
	if err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Verify", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var event model.WebhookEvent
	if err := httputil.ReadJSON(r, &event, false); err != nil {
		h.writeError(w, "Webhook", err)
		return
	}

	if err := h.service.HandleWebhook(r.Context(), &event); err != nil {
		h.writeError(w, "Webhook", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Webhook", "operation", "WriteJSON", "error", err)
	}
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
