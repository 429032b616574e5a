package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/accessflow-be/internal/api/dto"
	"github.com/cuongbtq/accessflow-be/internal/service"
	"github.com/gin-gonic/gin"
)

// PrefsHandler serves the signed-in user's preferences
type PrefsHandler struct {
	logger *slog.Logger
	prefs  *service.PrefsService
}

func NewPrefsHandler(deps *Dependencies) *PrefsHandler {
	return &PrefsHandler{
		logger: deps.Logger,
		prefs:  deps.Prefs,
	}
}

// GetPrefs handles GET /api/v1/me/prefs
func (h *PrefsHandler) GetPrefs(c *gin.Context) {
	prefs, err := h.prefs.Get(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to get preferences", err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// SavePrefs handles PUT /api/v1/me/prefs. Omitted fields keep their value.
func (h *PrefsHandler) SavePrefs(c *gin.Context) {
	var req dto.SavePrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, "Invalid request body", err)
		return
	}

	prefs, err := h.prefs.Save(c.Request.Context(), actor(c), req.ToPatch())
	if err != nil {
		respondError(c, h.logger, "Failed to save preferences", err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// Heartbeat handles POST /api/v1/me/heartbeat
func (h *PrefsHandler) Heartbeat(c *gin.Context) {
	recorded, err := h.prefs.Touch(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to record heartbeat", err)
		return
	}

	c.JSON(http.StatusOK, dto.HeartbeatResponse{Recorded: recorded})
}
