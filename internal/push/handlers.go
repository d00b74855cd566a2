package push

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/errors"
)

// Handler exposes the sender over HTTP.
type Handler struct {
	sender *Sender
}

func NewHandler(sender *Sender) *Handler {
	return &Handler{sender: sender}
}

// Send handles POST /api/push.
func (h *Handler) Send(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	values := editor.Values{
		Title:    req.Title,
		Body:     req.Body,
		IconURL:  req.IconURL,
		ImageURL: req.ImageURL,
	}
	fields := values.Validate()
	if req.Token == "" {
		fields["token"] = "Token is required."
	}
	if !fields.OK() {
		errors.AbortWithValidation(c, fields)
		return
	}

	id, err := h.sender.Send(c.Request.Context(), req.Token, values.Data())
	switch {
	case stderrors.Is(err, ErrDisabled):
		errors.AbortWithServiceUnavailable(c, "Push notifications are not configured", nil)
	case err != nil:
		errors.AbortWithBadGateway(c, "Failed to send push notification", map[string]interface{}{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusOK, Response{MessageID: id})
	}
}
