package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig(t *testing.T) {
	tests := []struct {
		level     string
		format    string
		wantLevel slog.Level
		wantFmt   string
	}{
		{"debug", "", slog.LevelDebug, "text"},
		{"info", "json", slog.LevelInfo, "json"},
		{"warn", "text", slog.LevelWarn, "text"},
		{"error", "", slog.LevelError, "text"},
		{"bogus", "", slog.LevelDebug, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Setenv("APP_ENV", "")
			cfg := FromConfig(tt.level, tt.format)
			assert.Equal(t, tt.wantLevel, cfg.Level)
			assert.Equal(t, tt.wantFmt, cfg.Format)
		})
	}
}

func TestFromConfigProductionForcesJSON(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	assert.Equal(t, "json", FromConfig("info", "text").Format)
}

func TestWithContextAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithConnID(ctx, "conn-1")
	ctx = WithOperation(ctx, "send_test")

	log.WithContext(ctx).WithComponent("page").LogError(ctx, errors.New("boom"), "failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "conn-1", entry["conn_id"])
	assert.Equal(t, "send_test", entry["operation"])
	assert.Equal(t, "page", entry["component"])
	assert.Equal(t, "boom", entry["error"])
}

func TestRequestLoggingMiddlewareReusesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLoggingMiddleware(Discard()))

	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(ContextKeyRequestID).(string)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("x-request-id", "abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", w.Header().Get("x-request-id"))
}
