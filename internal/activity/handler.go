package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"claims-backend/internal/shared/server/respond"
)

// Handler exposes the customer activity feed.
type Handler struct {
	Recorder Recorder
}

// NewHandler constructs a Handler.
func NewHandler(rec Recorder) *Handler {
	return &Handler{Recorder: rec}
}

// RegisterRoutes attaches activity routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/customers/:id/activities", h.list)
}

func (h *Handler) list(c *gin.Context) {
	ownerID := c.Param("id")
	c.Set("ownerId", ownerID)

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := h.Recorder.ListByOwner(c.Request.Context(), ownerID, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list activities", nil)
		return
	}

	respond.JSON(c, http.StatusOK, entries)
}
