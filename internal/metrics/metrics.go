package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for monitoring service health and performance
var (
	AlertsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"alert_type", "severity"},
	)

	AlertActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_actions_total",
			Help: "Total number of alert lifecycle actions applied",
		},
		[]string{"action"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(AlertsCreatedTotal)
	prometheus.MustRegister(AlertActionsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}

// Middleware records request duration per route. Uses the route template so
// per-id paths do not explode the label space.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
