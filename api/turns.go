package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kohara42/supportdesk/domain"
	"github.com/kohara42/supportdesk/engine"
)

// PostTurn processes one user turn and returns the bot reply.
// POST /v1/sessions/:session_id/turns
func (h *Handler) PostTurn(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.TurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	req.SessionID = c.Param("session_id")

	resp, err := h.engine.ProcessTurn(ctx, &req)
	if err != nil {
		if errors.Is(err, engine.ErrEmptyText) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
		}
		log.Printf("ERROR: failed to process turn: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process turn"})
	}

	return c.JSON(http.StatusOK, resp)
}
