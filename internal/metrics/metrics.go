package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Shopping list
	ShoppingListRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_renders_total",
			Help: "Total number of shopping list downloads by format and result",
		},
		[]string{"format", "result"}, // result: "ok", "error"
	)

	ShoppingListItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Number of aggregated items per shopping list",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	// Registry cache
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_registry_cache_requests_total",
			Help: "Registry cache lookups by resource and outcome",
		},
		[]string{"resource", "outcome"}, // outcome: "hit", "miss", "error"
	)

	// Events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_events_published_total",
			Help: "Domain events handed to the publisher",
		},
		[]string{"type", "result"},
	)
)

// RecordShoppingListRender counts one download attempt.
func RecordShoppingListRender(format string, items int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		ShoppingListItems.Observe(float64(items))
	}
	ShoppingListRenders.WithLabelValues(format, result).Inc()
}

// RecordCache counts a cache lookup.
func RecordCache(resource, outcome string) {
	CacheRequests.WithLabelValues(resource, outcome).Inc()
}

// RecordEvent counts a publish attempt.
func RecordEvent(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(eventType, result).Inc()
}

// GinMiddleware records request counts and latency per route template.
// Unmatched routes share one label to keep cardinality bounded.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
