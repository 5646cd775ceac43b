package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics of the application.
// A nil *Collector is valid and records nothing, which keeps tests and
// callers that don't care about metrics free of setup.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// Business metrics
	postsCreated    prometheus.Counter
	commentsCreated prometheus.Counter
	likesCreated    prometheus.Counter
	likesConflicts  prometheus.Counter
}

// NewCollector creates a collector with its own registry, so that
// several instances can live side by side.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feed",
			Name:      "posts_created_total",
			Help:      "Total number of posts created",
		}),
		commentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feed",
			Name:      "comments_created_total",
			Help:      "Total number of comments created",
		}),
		likesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feed",
			Name:      "likes_created_total",
			Help:      "Total number of likes created",
		}),
		likesConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feed",
			Name:      "likes_conflicts_total",
			Help:      "Total number of likes rejected as duplicates",
		}),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.postsCreated,
		c.commentsCreated,
		c.likesCreated,
		c.likesConflicts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler serves the collector's registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveRequest records one served HTTP request. Route is the route template,
// not the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) PostCreated() {
	if c != nil {
		c.postsCreated.Inc()
	}
}

func (c *Collector) CommentCreated() {
	if c != nil {
		c.commentsCreated.Inc()
	}
}

func (c *Collector) LikeCreated() {
	if c != nil {
		c.likesCreated.Inc()
	}
}

func (c *Collector) LikeConflict() {
	if c != nil {
		c.likesConflicts.Inc()
	}
}
