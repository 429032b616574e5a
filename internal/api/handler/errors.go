package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// errorResponse maps the domain error taxonomy onto an HTTP status and body
func errorResponse(err error) (int, gin.H) {
	var (
		partial      *domain.PartialFailureError
		validation   *domain.ValidationError
		precondition *domain.PreconditionError
	)

	switch {
	case errors.As(err, &partial):
		return http.StatusInternalServerError, gin.H{
			"error":           err.Error(),
			"partial_failure": true,
			"operation":       partial.Operation,
			"completed_step":  partial.CompletedStep,
			"record_id":       partial.RecordID,
		}
	case errors.As(err, &validation):
		return http.StatusBadRequest, gin.H{
			"error": validation.Error(),
			"field": validation.Field,
		}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.As(err, &precondition):
		return http.StatusPreconditionFailed, gin.H{
			"error": precondition.Error(),
			"unmet": precondition.Unmet,
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, domain.ErrAtTerminal),
		errors.Is(err, domain.ErrAtInitial),
		errors.Is(err, domain.ErrAmbiguousMatch),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, gin.H{"error": "record store unavailable, try again"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal server error"}
	}
}

func respondError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	status, body := errorResponse(err)

	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("status", status),
		slog.String("path", c.Request.URL.Path),
	}
	if status >= http.StatusInternalServerError {
		logger.Error(msg, attrs...)
	} else {
		logger.Warn(msg, attrs...)
	}

	c.JSON(status, body)
}

// respondBindError answers 400 for a request body or query that failed to
// bind, naming each field that failed a binding rule
func respondBindError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, slog.String("error", err.Error()))

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  msg,
			"fields": fields,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error": msg,
	})
}
