package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kohara42/supportdesk/domain"
)

// PostFeedback records a rating for a bot message.
// POST /v1/feedback
func (h *Handler) PostFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		MessageID string `json:"message_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.MessageID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message_id is required"})
	}

	id, err := h.store.AddFeedback(ctx, &domain.Feedback{
		MessageID: req.MessageID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		log.Printf("ERROR: failed to add feedback: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to add feedback"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"id": id})
}

// SearchProducts searches the product catalog.
// GET /v1/products?q=...&limit=...
func (h *Handler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	products, err := h.store.SearchProducts(ctx, query, limit)
	if err != nil {
		log.Printf("ERROR: failed to search products: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to search products"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"products": products})
}
