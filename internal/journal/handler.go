package journal

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"feedback-console/internal/shared/server/respond"
	"feedback-console/internal/shared/telemetry"
)

// Handler exposes the journal over HTTP.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches journal routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/submissions", h.listSubmissions)
}

func (h *Handler) listSubmissions(c *gin.Context) {
	limit := DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > MaxListLimit {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100", []map[string]string{
				{"field": "limit", "issue": "out_of_range"},
			})
			return
		}
		limit = parsed
	}

	entries, err := h.Repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		telemetry.Error("journal.list_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list submissions", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"items": entries,
		"count": len(entries),
	})
}
