package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AbortWithServiceUnavailable sends a 503 Service Unavailable response and aborts the request.
func AbortWithServiceUnavailable(c *gin.Context, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, NewAPIError(message, details))
}
