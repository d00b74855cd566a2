package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantError  string
	}{
		{
			name:       "bad request",
			handler:    func(c *gin.Context) { AbortWithBadRequest(c, "bad", nil) },
			wantStatus: http.StatusBadRequest,
			wantError:  "bad",
		},
		{
			name:       "validation",
			handler:    func(c *gin.Context) { AbortWithValidation(c, map[string]string{"title": "Title is required."}) },
			wantStatus: http.StatusBadRequest,
			wantError:  "validation failed",
		},
		{
			name:       "bad gateway",
			handler:    func(c *gin.Context) { AbortWithBadGateway(c, "fcm failed", nil) },
			wantStatus: http.StatusBadGateway,
			wantError:  "fcm failed",
		},
		{
			name:       "unavailable",
			handler:    func(c *gin.Context) { AbortWithServiceUnavailable(c, "push disabled", nil) },
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "push disabled",
		},
		{
			name:       "internal",
			handler:    func(c *gin.Context) { AbortWithInternal(c, "oops", nil) },
			wantStatus: http.StatusInternalServerError,
			wantError:  "oops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}
