package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	Init()
	Init()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestCount.WithLabelValues("/health", http.MethodGet, "200"))
	unmatchedBefore := testutil.ToFloat64(RequestCount.WithLabelValues("unmatched", http.MethodGet, "404"))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(RequestCount.WithLabelValues("/health", http.MethodGet, "200")))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(RequestCount.WithLabelValues("unmatched", http.MethodGet, "404")))
}
