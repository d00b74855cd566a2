package generator

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eternisai/firebase-notifier/internal/errors"
)

// Handler exposes the action over HTTP.
type Handler struct {
	action *Action
}

func NewHandler(action *Action) *Handler {
	return &Handler{action: action}
}

// Generate handles POST /api/generate.
func (h *Handler) Generate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.action.Generate(c.Request.Context(), req))
}
