// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	FilterRecordsScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "franchise_filter_records_scanned",
			Help:    "Number of franchise records scanned per filter request",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		},
	)

	FilterRecordsMatched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "franchise_filter_records_matched",
			Help:    "Number of franchise records matching a filter request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
	)

	CrawlerWorkflowTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_workflow_triggers_total",
			Help: "Total number of crawler workflow start attempts",
		},
		[]string{"source", "result"},
	)

	CrawlerWebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_webhook_events_total",
			Help: "Total number of crawler webhook callbacks received",
		},
		[]string{"event", "status"},
	)
)
