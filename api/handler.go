// Package api provides HTTP handlers for the dialogue service.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kohara42/supportdesk/config"
	"github.com/kohara42/supportdesk/engine"
	"github.com/kohara42/supportdesk/store"
)

// Handler handles HTTP requests.
type Handler struct {
	store  store.Store
	engine *engine.Engine
	config *config.Config
}

// NewHandler creates a new handler.
func NewHandler(store store.Store, engine *engine.Engine, config *config.Config) *Handler {
	return &Handler{
		store:  store,
		engine: engine,
		config: config,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Dialogue API
	e.POST("/v1/sessions/:session_id/turns", h.PostTurn)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.GET("/v1/sessions/:session_id/summary", h.GetSessionSummary)
	e.DELETE("/v1/sessions/:session_id", h.EndSession)

	// Feedback and catalog API
	e.POST("/v1/feedback", h.PostFeedback)
	e.GET("/v1/products", h.SearchProducts)

	// Analytics API
	e.GET("/v1/analytics/overview", h.GetAnalyticsOverview)
	e.GET("/v1/analytics/intents", h.GetIntentPerformance)

	// Learning API
	e.GET("/v1/learning/low-confidence", h.GetLowConfidenceMessages)
	e.GET("/v1/learning/examples", h.GetTrainingExamples)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
