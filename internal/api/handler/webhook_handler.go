package handler

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/accessflow-be/internal/api/dto"
	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/service"
	"github.com/gin-gonic/gin"
)

// WebhookTokenHeader carries the shared secret when one is configured
const WebhookTokenHeader = "X-Webhook-Token"

const webhookActor = "status-webhook"

// WebhookHandler receives status updates from the email automation. It
// answers in plain text, which is what the automation logs.
type WebhookHandler struct {
	logger  *slog.Logger
	updater *service.StatusUpdater
	token   string
}

func NewWebhookHandler(deps *Dependencies) *WebhookHandler {
	return &WebhookHandler{
		logger:  deps.Logger,
		updater: deps.Updater,
		token:   deps.WebhookToken,
	}
}

// StatusUpdate handles POST /api/v1/webhooks/status-update
func (h *WebhookHandler) StatusUpdate(c *gin.Context) {
	if h.token != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(WebhookTokenHeader)), []byte(h.token)) != 1 {
		h.logger.Warn("Webhook token mismatch", slog.String("ip", c.ClientIP()))
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid webhook body", slog.String("error", err.Error()))
		c.String(http.StatusBadRequest, "Bad Request: body must be JSON with clockNumber and newStatus")
		return
	}

	h.logger.Info("Status webhook received",
		slog.String("clock_number", req.ClockNumber),
		slog.String("new_status", req.NewStatus),
	)

	res, err := h.updater.ApplyByClockNumber(c.Request.Context(), req.ClockNumber, req.NewStatus, webhookActor)
	if err != nil {
		status, msg := webhookError(req, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Status webhook failed", slog.String("clock_number", req.ClockNumber), slog.String("error", err.Error()))
		} else {
			h.logger.Warn("Status webhook rejected", slog.String("clock_number", req.ClockNumber), slog.String("error", err.Error()))
		}
		c.String(status, msg)
		return
	}

	c.String(http.StatusOK, fmt.Sprintf("Updated job %s (%s) from %s to %s.",
		res.Job.ID, res.Job.ClockNumberMediaName, res.PreviousStatus, res.Job.Status))
}

func webhookError(req dto.StatusUpdateRequest, err error) (int, string) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		if validation.Field == "newStatus" && req.NewStatus != "" {
			return http.StatusBadRequest, fmt.Sprintf("Bad Request: invalid newStatus %q, must be one of %v", req.NewStatus, domain.AllStatuses())
		}
		return http.StatusBadRequest, "Bad Request: " + validation.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, fmt.Sprintf("No active job found for clock number %q", req.ClockNumber)
	case errors.Is(err, domain.ErrAmbiguousMatch):
		return http.StatusConflict, fmt.Sprintf("Clock number %q matches more than one job", req.ClockNumber)
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
