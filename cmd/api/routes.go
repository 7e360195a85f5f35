package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"autodialer/internal/articles"
	"autodialer/internal/auth"
	"autodialer/internal/calls"
	"autodialer/internal/maintenance"
	"autodialer/pkg/utils"
)

type deps struct {
	auth        *auth.Manager
	calls       calls.Handlers
	articles    articles.Handlers
	maintenance maintenance.Handlers
	db          *sql.DB
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d deps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), d.db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Provider webhooks (public).
	// NOTE: These endpoints should be protected by Twilio signature validation in production.
	r.POST("/webhooks/twilio/status", d.calls.StatusCallback)
	r.GET("/twiml", d.calls.VoiceResponse)
	r.POST("/twiml", d.calls.VoiceResponse)

	r.POST("/v1/auth/login", auth.LoginHandler(d.auth))

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(auth.RequireAccessToken(d.auth))
	{
		callsGroup := v1.Group("/calls")
		{
			callsGroup.GET("", d.calls.ListCalls)
			callsGroup.POST("", d.calls.CreateBatch)
			callsGroup.POST("/ai-command", d.calls.AICommand)
			callsGroup.POST("/:id/refresh", d.calls.RefreshCall)
			callsGroup.POST("/refresh-all", d.calls.RefreshAll)
		}

		articlesGroup := v1.Group("/articles")
		{
			articlesGroup.GET("", d.articles.List)
			articlesGroup.POST("", d.articles.Create)
			articlesGroup.POST("/generate", d.articles.Generate)
			articlesGroup.GET("/slug/:slug", d.articles.GetBySlug)
			articlesGroup.GET("/:id", d.articles.Get)
			articlesGroup.PATCH("/:id", d.articles.Update)
			articlesGroup.DELETE("/:id", d.articles.Delete)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/clear-data", d.maintenance.ClearData)
		}
	}
}
