package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"feedback-console/internal/console"
	"feedback-console/internal/feedback"
	"feedback-console/internal/shared/server/middleware"
	"feedback-console/internal/shared/server/respond"
	"feedback-console/internal/shared/telemetry"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

const keepAliveInterval = 25 * time.Second

// Route patterns used for rate limit grouping.
const (
	PageRoute   = "/"
	SubmitRoute = "/sessions/:id/submit"
)

// Handler serves the console page, its event stream and the browser events.
type Handler struct {
	Hub       *Hub
	page      *template.Template
	keepAlive time.Duration
}

type pageData struct {
	SessionID      string
	MaxLength      int
	SentimentTypes []string
	Categories     []string
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub) (*Handler, error) {
	page, err := template.ParseFS(embeddedFiles, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Handler{Hub: hub, page: page, keepAlive: keepAliveInterval}, nil
}

// RegisterRoutes attaches the console routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	static, err := fs.Sub(embeddedFiles, "static")
	if err == nil {
		r.StaticFS("/static", http.FS(static))
	}
	r.GET(PageRoute, h.index)
	r.GET("/sessions/:id/events", h.events)
	r.POST(SubmitRoute, h.submit)
	r.POST("/sessions/:id/filters", h.filters)
	r.POST("/sessions/:id/refresh", h.refresh)
}

func (h *Handler) index(c *gin.Context) {
	id := h.Hub.Create()
	c.Set(middleware.SessionIDKey, id)
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	data := pageData{
		SessionID:      id,
		MaxLength:      feedback.MaxFeedbackLength,
		SentimentTypes: []string{feedback.SentimentPositive, feedback.SentimentNeutral, feedback.SentimentNegative},
		Categories:     []string{"delivery", "product", "service", "payment", "technical"},
	}
	if err := h.page.Execute(c.Writer, data); err != nil {
		telemetry.Error("page.render_failed", map[string]any{"session_id": id, "error": err.Error()})
	}
}

func (h *Handler) events(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.SessionIDKey, id)
	patches, done, detach, err := h.Hub.attach(id)
	if err != nil {
		h.dispatchError(c, err)
		return
	}
	defer detach()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if err := h.Hub.Dispatch(id, console.PageLoaded{}); err != nil {
		telemetry.Warn("session.page_loaded_rejected", map[string]any{"session_id": id, "error": err.Error()})
	}

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	c.Stream(func(w io.Writer) bool {
		select {
		case patch := <-patches:
			payload, err := json.Marshal(patch)
			if err != nil {
				telemetry.Error("stream.marshal_failed", map[string]any{"session_id": id, "error": err.Error()})
				return true
			}
			c.SSEvent("patch", string(payload))
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-done:
			return false
		case <-ctx.Done():
			return false
		}
	})
}

func (h *Handler) submit(c *gin.Context) {
	h.dispatch(c, console.SubmitRequested{Text: c.PostForm("feedback")})
}

func (h *Handler) filters(c *gin.Context) {
	field := strings.TrimSpace(c.PostForm("field"))
	if field != feedback.FilterSentiment && field != feedback.FilterCategory {
		respond.Error(c, http.StatusBadRequest, "validation_error", "field must be sentiment or category", []map[string]string{
			{"field": "field", "issue": "unsupported"},
		})
		return
	}
	h.dispatch(c, console.FilterChanged{Field: field, Value: c.PostForm("value")})
}

func (h *Handler) refresh(c *gin.Context) {
	h.dispatch(c, console.RefreshRequested{Reason: "manual"})
}

func (h *Handler) dispatch(c *gin.Context, ev console.Event) {
	id := c.Param("id")
	c.Set(middleware.SessionIDKey, id)
	c.Set(middleware.EventKey, ev.Name())
	if err := h.Hub.Dispatch(id, ev); err != nil {
		h.dispatchError(c, err)
		return
	}
	respond.Accepted(c)
}

func (h *Handler) dispatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, console.ErrClosed):
		respond.Error(c, http.StatusNotFound, "session_not_found", "session not found or expired, reload the page", nil)
	case errors.Is(err, console.ErrQueueFull):
		respond.Retry(c, http.StatusServiceUnavailable, "session_busy", "session is busy, try again", time.Second, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to dispatch event", nil)
	}
}
