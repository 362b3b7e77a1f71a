package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the accounting core's Prometheus instruments.
type Metrics struct {
	entriesPosted       *prometheus.CounterVec
	entriesRejected     *prometheus.CounterVec
	amortizations       *prometheus.CounterVec
	salesIngested       prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registers and returns the application metrics. A nil registerer
// falls back to the default registry.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	entriesPosted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contable_journal_entries_total",
		Help: "Journal entries posted by status.",
	}, []string{"status"})
	entriesRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contable_journal_rejections_total",
		Help: "Journal postings rejected by validation reason.",
	}, []string{"reason"})
	amortizations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contable_amortizations_total",
		Help: "Investment amortization events by source kind.",
	}, []string{"source"})
	salesIngested := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contable_sales_ingested_total",
		Help: "Sales accepted at the ingest boundary.",
	})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contable_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contable_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	registerer.MustRegister(
		entriesPosted,
		entriesRejected,
		amortizations,
		salesIngested,
		httpRequests,
		httpRequestDuration,
	)

	return &Metrics{
		entriesPosted:       entriesPosted,
		entriesRejected:     entriesRejected,
		amortizations:       amortizations,
		salesIngested:       salesIngested,
		httpRequests:        httpRequests,
		httpRequestDuration: httpRequestDuration,
	}
}

// IncEntryPosted counts a successfully posted or reversed entry.
func (m *Metrics) IncEntryPosted(status string) {
	if m == nil || m.entriesPosted == nil {
		return
	}
	m.entriesPosted.WithLabelValues(status).Inc()
}

// IncEntryRejected counts a rejected posting by low-cardinality reason.
func (m *Metrics) IncEntryRejected(reason string) {
	if m == nil || m.entriesRejected == nil {
		return
	}
	m.entriesRejected.WithLabelValues(reason).Inc()
}

// IncAmortization counts a recorded amortization. The free-text source is
// bucketed to "sale" or "manual" so the label stays low-cardinality.
func (m *Metrics) IncAmortization(source string) {
	if m == nil || m.amortizations == nil {
		return
	}
	kind := "manual"
	if strings.HasPrefix(source, "sale") {
		kind = "sale"
	}
	m.amortizations.WithLabelValues(kind).Inc()
}

// IncSaleIngested counts an accepted sale.
func (m *Metrics) IncSaleIngested() {
	if m == nil || m.salesIngested == nil {
		return
	}
	m.salesIngested.Inc()
}

// GinMiddleware records request counts and latency per route template.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpRequestDuration.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}
