// Package metrics provides Prometheus metrics for the remote image proxy and placeholder fetches.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	proxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_images_proxy_requests_total",
			Help: "Total number of proxy requests",
		},
		[]string{"route", "status"},
	)

	proxyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_images_proxy_request_duration_seconds",
			Help:    "Proxy request duration in seconds, including streaming",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	proxyBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_images_proxy_bytes_total",
			Help: "Total bytes streamed to proxy clients",
		},
		[]string{"route"},
	)

	placeholderFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_images_placeholder_fetches_total",
			Help: "Total placeholder rendition fetches",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordProxyRequest records a completed proxy request.
func RecordProxyRequest(route string, status int, bytes int64, duration time.Duration) {
	proxyRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	proxyRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
	proxyBytesTotal.WithLabelValues(route).Add(float64(bytes))
}

// RecordPlaceholderFetch records a placeholder fetch as "hit", "miss" or "error".
func RecordPlaceholderFetch(result string) {
	placeholderFetchesTotal.WithLabelValues(result).Inc()
}
