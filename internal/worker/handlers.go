package worker

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/errors"
	"github.com/eternisai/firebase-notifier/internal/logger"
)

// Handler serves the worker script.
type Handler struct {
	firebase config.Firebase
	logger   *logger.Logger
}

func NewHandler(firebase config.Firebase, logger *logger.Logger) *Handler {
	return &Handler{
		firebase: firebase,
		logger:   logger.WithComponent("worker"),
	}
}

// Serve handles GET /firebase-messaging-sw.js.
func (h *Handler) Serve(c *gin.Context) {
	script, err := Script(h.firebase)
	if err != nil {
		h.logger.WithContext(c.Request.Context()).Error("failed to render worker script",
			slog.String("error", err.Error()))
		errors.AbortWithInternal(c, "Failed to render worker script", nil)
		return
	}

	c.Header("Service-Worker-Allowed", "/")
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "application/javascript", script)
}
