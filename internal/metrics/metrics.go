package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventpulse_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpulse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// DedupAbsorbed counts inserts rejected by a uniqueness constraint and
	// treated as success. record is "join_notification" or "transaction".
	DedupAbsorbed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpulse_dedup_absorbed_total",
			Help: "Total number of duplicate side effects absorbed by the storage uniqueness gate",
		},
		[]string{"record"},
	)

	SideEffectErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpulse_side_effect_errors_total",
			Help: "Total number of best-effort side effects that failed",
		},
		[]string{"effect"},
	)

	EventJoins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpulse_event_join_toggles_total",
			Help: "Total number of join toggles by outcome",
		},
		[]string{"action"}, // "join", "leave"
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpulse_recommendations_served_total",
			Help: "Total number of recommendation responses by type",
		},
		[]string{"type"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventpulse_stats_cache_hits_total",
			Help: "Total number of admin stats cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventpulse_stats_cache_misses_total",
			Help: "Total number of admin stats cache misses",
		},
	)

	// WebSocket Metrics
	ChatConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventpulse_chat_connections_active",
			Help: "Current number of open chat WebSocket connections",
		},
	)

	ChatMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpulse_chat_messages_total",
			Help: "Total number of chat messages by outcome",
		},
		[]string{"outcome"}, // "relayed", "persist_failed"
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpulse_emails_total",
			Help: "Total number of outgoing emails by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

// Middleware records request latency and count per matched route
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			labels := []string{c.Request().Method, route, strconv.Itoa(status)}
			HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			HTTPRequestsTotal.WithLabelValues(labels...).Inc()
			return err
		}
	}
}
