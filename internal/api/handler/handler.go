package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/accessflow-be/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key holding the authenticated user's id
const UserIDKey = "user_id"

// HealthChecker reports whether the record store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	ServiceName  string
	Jobs         *service.JobRepository
	Transitions  *service.StatusEngine
	Lifecycle    *service.Lifecycle
	Lister       *service.Lister
	Updater      *service.StatusUpdater
	Prefs        *service.PrefsService
	Health       HealthChecker
	WebhookToken string
}

// actor is the authenticated user recorded on mutations
func actor(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// idParam reads a UUID path parameter, answering 400 when it is malformed
func idParam(c *gin.Context, logger *slog.Logger, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		logger.Warn("Invalid id format", slog.String(name, id), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": name + " must be a valid UUID",
		})
		return "", false
	}
	return id, true
}
