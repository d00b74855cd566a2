package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifier_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// NotificationsLogged counts log appends by source (local_test, foreground).
	NotificationsLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notifications_logged_total",
			Help: "Notifications appended to page logs",
		},
		[]string{"source"},
	)

	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_generations_total",
			Help: "AI message generation attempts by provider and result",
		},
		[]string{"provider", "result"},
	)

	PermissionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_permission_transitions_total",
			Help: "Notification permission state transitions",
		},
		[]string{"from", "to"},
	)

	PushSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_push_sends_total",
			Help: "Server-side FCM sends by result",
		},
		[]string{"result"},
	)

	BridgeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notifier_bridge_connections",
			Help: "Open browser bridge connections",
		},
	)
)

var initOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCount,
			RequestDuration,
			NotificationsLogged,
			Generations,
			PermissionTransitions,
			PushSends,
			BridgeConnections,
		)
	})
}

// Middleware records request counts and durations. Unmatched routes are
// grouped under one label to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestCount.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
