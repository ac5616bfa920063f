package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPDuration records request latency by method and route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foodgram_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ConnectionOps counts link/unlink operations on join tables.
	ConnectionOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_connection_operations_total",
		Help: "Join-table link and unlink operations by relation and result",
	}, []string{"relation", "action", "result"})

	RecipesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodgram_recipes_created_total",
		Help: "Total number of recipes created",
	})

	// IngredientCache counts ingredient search cache lookups.
	IngredientCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_ingredient_cache_lookups_total",
		Help: "Ingredient search cache lookups by result",
	}, []string{"result"})

	// RateLimited counts rejected requests per limiter.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_rate_limited_total",
		Help: "Requests rejected by a rate limiter",
	}, []string{"limiter"})
)
