package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eternisai/firebase-notifier/internal/bridge"
	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/errors"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/preview"
	"github.com/eternisai/firebase-notifier/internal/push"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	PushEnabled bool   `json:"pushEnabled"`
}

// PreviewResponse is returned by POST /api/preview.
type PreviewResponse struct {
	HTML   string             `json:"html"`
	Errors editor.FieldErrors `json:"errors,omitempty"`
}

type handlers struct {
	hub    *bridge.Hub
	sender *push.Sender
	logger *logger.Logger
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Connections: h.hub.Count(),
		PushEnabled: h.sender.Enabled(),
	})
}

// preview renders the mock for a set of form values without a browser session.
func (h *handlers) preview(c *gin.Context) {
	var values editor.Values
	if err := c.ShouldBindJSON(&values); err != nil {
		errors.AbortWithBadRequest(c, "Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	html, err := preview.HTML(values.Data())
	if err != nil {
		h.logger.WithContext(c.Request.Context()).Error("failed to render preview", slog.String("error", err.Error()))
		errors.AbortWithInternal(c, "Failed to render preview", nil)
		return
	}

	resp := PreviewResponse{HTML: html}
	if errs := values.Validate(); !errs.OK() {
		resp.Errors = errs
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) notFound(c *gin.Context) {
	errors.NotFound(c, "Not found", map[string]interface{}{
		"path": c.Request.URL.Path,
	})
}
