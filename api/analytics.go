package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetAnalyticsOverview returns conversation and feedback aggregates.
// GET /v1/analytics/overview
func (h *Handler) GetAnalyticsOverview(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.store.ConversationStats(ctx)
	if err != nil {
		log.Printf("ERROR: failed to get analytics: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get analytics"})
	}

	return c.JSON(http.StatusOK, stats)
}

// GetIntentPerformance returns per-intent classifier behavior.
// GET /v1/analytics/intents
func (h *Handler) GetIntentPerformance(c echo.Context) error {
	ctx := c.Request().Context()

	performance, err := h.store.IntentPerformance(ctx)
	if err != nil {
		log.Printf("ERROR: failed to get intent performance: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get intent performance"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"intents": performance})
}

// GetLowConfidenceMessages returns user turns the classifier struggled
// with, newest first.
// GET /v1/learning/low-confidence?threshold=...&limit=...
func (h *Handler) GetLowConfidenceMessages(c echo.Context) error {
	ctx := c.Request().Context()

	threshold, err := strconv.ParseFloat(c.QueryParam("threshold"), 64)
	if err != nil || threshold <= 0 {
		threshold = h.config.ConfidenceThreshold
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	messages, err := h.store.LowConfidenceMessages(ctx, threshold, limit)
	if err != nil {
		log.Printf("ERROR: failed to get low confidence messages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get low confidence messages"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"messages": messages})
}

// GetTrainingExamples returns high-confidence labeled utterances for
// classifier retraining.
// GET /v1/learning/examples?min_confidence=...
func (h *Handler) GetTrainingExamples(c echo.Context) error {
	ctx := c.Request().Context()

	minConfidence, err := strconv.ParseFloat(c.QueryParam("min_confidence"), 64)
	if err != nil {
		minConfidence = 0.8
	}

	examples, err := h.store.TrainingExamples(ctx, minConfidence)
	if err != nil {
		log.Printf("ERROR: failed to get training examples: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get training examples"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"examples": examples})
}
