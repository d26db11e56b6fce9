package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FitnessGH/fitness-gh-backend/internal/api"
	"github.com/FitnessGH/fitness-gh-backend/internal/auth"
	"github.com/FitnessGH/fitness-gh-backend/internal/gym"
	"github.com/FitnessGH/fitness-gh-backend/internal/logger"
	"github.com/FitnessGH/fitness-gh-backend/internal/metrics"
	"github.com/FitnessGH/fitness-gh-backend/internal/subscription"
)

type Handler struct {
	svc  Service
	gyms gym.Service
}

func NewHandler(svc Service, gyms gym.Service) *Handler {
	return &Handler{svc: svc, gyms: gyms}
}

// Initiate godoc
// @Summary      Initiate payment
// @Description  Creates a PENDING payment and returns the simulated checkout URL.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      InitiatePaymentRequest  true  "Payment data"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorEnvelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Router       /payments/initiate [post]
func (h *Handler) Initiate(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Initiate(c.Request.Context(), profileID, req)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrMembershipNotFound):
			api.Fail(c, http.StatusNotFound, subscription.ErrMembershipNotFound.Error())
		case errors.Is(err, ErrMembershipNotOwned):
			api.Fail(c, http.StatusForbidden, ErrMembershipNotOwned.Error())
		case errors.Is(err, ErrDuplicateReference):
			api.Fail(c, http.StatusConflict, ErrDuplicateReference.Error())
		default:
			logger.Error("initiate payment failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to initiate payment")
		}
		return
	}

	metrics.RecordPaymentInitiated(resp.Payment.Channel)
	api.OK(c, http.StatusCreated, "Payment initiated", resp)
}

// Verify godoc
// @Summary      Verify payment by reference
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Payment reference"
// @Success      200        {object}  api.Envelope
// @Failure      404        {object}  api.ErrorEnvelope
// @Router       /payments/verify/{reference} [get]
func (h *Handler) Verify(c *gin.Context) {
	p, err := h.svc.Verify(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			api.Fail(c, http.StatusNotFound, ErrPaymentNotFound.Error())
			return
		}
		logger.Error("verify payment failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to verify payment")
		return
	}

	api.OK(c, http.StatusOK, "", p)
}

// Webhook godoc
// @Summary      Payment gateway webhook
// @Description  Accepts gateway events. Always returns 200 so the gateway never retries; failures are logged server side.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      WebhookEvent  true  "Gateway event"
// @Success      200      {object}  api.Envelope
// @Router       /payments/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	var event WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		// Even malformed payloads get a 200; there is nothing a retry with
		// the same body would fix.
		logger.Error("malformed webhook payload", "error", err)
		api.OK(c, http.StatusOK, "Webhook received", nil)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), event); err != nil {
		logger.Error("webhook processing failed", "event", event.Event, "reference", event.Data.Reference, "error", err)
	}

	api.OK(c, http.StatusOK, "Webhook received", nil)
}

// GetMyPayments godoc
// @Summary      List payments of the authenticated member
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /payments/my [get]
func (h *Handler) GetMyPayments(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	payments, err := h.svc.ListProfilePayments(c.Request.Context(), profileID)
	if err != nil {
		logger.Error("list own payments failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	api.OK(c, http.StatusOK, "", payments)
}

// ListGymPayments godoc
// @Summary      List payments of a gym
// @Description  Owners and managers only.
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Gym ID"
// @Success      200  {object}  api.Envelope
// @Failure      403  {object}  api.ErrorEnvelope
// @Router       /gyms/{id}/payments [get]
func (h *Handler) ListGymPayments(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if _, err := h.gyms.CheckAccess(c.Request.Context(), gymID, profileID, gym.RoleManager); err != nil {
		switch {
		case errors.Is(err, gym.ErrGymNotFound):
			api.Fail(c, http.StatusNotFound, gym.ErrGymNotFound.Error())
		case errors.Is(err, gym.ErrAccessDenied):
			api.Fail(c, http.StatusForbidden, gym.ErrAccessDenied.Error())
		default:
			logger.Error("access check failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to verify gym access")
		}
		return
	}

	payments, err := h.svc.ListGymPayments(c.Request.Context(), gymID)
	if err != nil {
		logger.Error("list gym payments failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	api.OK(c, http.StatusOK, "", payments)
}
