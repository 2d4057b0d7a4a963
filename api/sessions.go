package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kohara42/supportdesk/engine"
)

// GetSessionMessages returns messages for a session.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}
	before := c.QueryParam("before")

	messages, err := h.store.GetMessages(ctx, sessionID, limit+1, before)
	if err != nil {
		log.Printf("ERROR: failed to get messages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"has_more": hasMore,
	})
}

// GetSessionSummary returns the session summary.
// GET /v1/sessions/:session_id/summary
func (h *Handler) GetSessionSummary(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	summary, err := h.engine.Summary(ctx, sessionID)
	if err != nil {
		if errors.Is(err, engine.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		log.Printf("ERROR: failed to get summary: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get summary"})
	}

	return c.JSON(http.StatusOK, summary)
}

// EndSession archives a session. The message log is retained.
// DELETE /v1/sessions/:session_id
func (h *Handler) EndSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if err := h.engine.EndSession(ctx, sessionID); err != nil {
		if errors.Is(err, engine.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		log.Printf("ERROR: failed to end session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to end session"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ended"})
}
