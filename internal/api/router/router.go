package router

import (
	"log/slog"

	"github.com/cuongbtq/accessflow-be/internal/api/auth"
	"github.com/cuongbtq/accessflow-be/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// Options configures the router beyond the handler dependencies
type Options struct {
	AllowedOrigins []string
	Verifier       *auth.JWT
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, opts Options) *gin.Engine {
	if err := RegisterValidators(); err != nil {
		deps.Logger.Error("Binding validators unavailable", slog.String("error", err.Error()))
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware(opts.AllowedOrigins))

	r.GET("/health", handler.NewHealthHandler(deps).Health)

	jobHandler := handler.NewJobHandler(deps)
	deletedHandler := handler.NewDeletedJobHandler(deps)
	prefsHandler := handler.NewPrefsHandler(deps)
	webhookHandler := handler.NewWebhookHandler(deps)

	v1 := r.Group("/api/v1")

	// The email automation authenticates with the optional webhook token,
	// not a user token.
	v1.POST("/webhooks/status-update", webhookHandler.StatusUpdate)

	secured := v1.Group("")
	secured.Use(AuthMiddleware(opts.Verifier, deps.Logger))
	{
		jobs := secured.Group("/jobs")
		{
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/board/:group", jobHandler.GetBoard)
			jobs.GET("/:job_id", jobHandler.GetJob)
			jobs.PATCH("/:job_id", jobHandler.UpdateJob)
			jobs.PUT("/:job_id/status", jobHandler.OverrideStatus)
			jobs.POST("/:job_id/advance", jobHandler.AdvanceJob)
			jobs.POST("/:job_id/retreat", jobHandler.RetreatJob)
			jobs.POST("/:job_id/duplicate", jobHandler.DuplicateJob)
			jobs.DELETE("/:job_id", jobHandler.DeleteJob)
		}

		deleted := secured.Group("/deleted-jobs")
		{
			deleted.GET("", deletedHandler.ListDeletedJobs)
			deleted.GET("/reconcile", deletedHandler.Reconcile)
			deleted.GET("/:id", deletedHandler.GetDeletedJob)
			deleted.POST("/:id/restore", deletedHandler.RestoreDeletedJob)
			deleted.DELETE("/:id", deletedHandler.PurgeDeletedJob)
		}

		me := secured.Group("/me")
		{
			me.GET("/prefs", prefsHandler.GetPrefs)
			me.PUT("/prefs", prefsHandler.SavePrefs)
			me.POST("/heartbeat", prefsHandler.Heartbeat)
		}
	}

	return r
}
