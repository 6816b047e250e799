package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// httpRequestsTotal counts served requests by normalized path, method and
// status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "skylens_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// externalRequestDuration measures outbound HTTP round trips by host.
var externalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "skylens_external_request_duration_seconds",
	Help:    "Duration of outbound HTTP requests by host.",
	Buckets: prometheus.DefBuckets,
}, []string{"host"})

// upstreamRequestDuration measures provider calls by logical endpoint,
// including attempts that were later retried.
var upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "skylens_upstream_request_duration_seconds",
	Help:    "Duration of weather provider requests by endpoint.",
	Buckets: prometheus.DefBuckets,
}, []string{"endpoint"})

// latestAQI is the most recent valid air quality tier served per city.
var latestAQI = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "skylens_latest_aqi",
	Help: "Latest air quality index tier (1-5) by city.",
}, []string{"city"})

// observeUpstream is installed as the provider client's Observe hook.
func observeUpstream(endpoint string, d time.Duration) {
	upstreamRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// metricsTransport is an http.RoundTripper that records the duration of every
// outbound request, failed ones included.
type metricsTransport struct {
	wrapped http.RoundTripper
}

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()
	resp, err := t.wrapped.RoundTrip(req)
	externalRequestDuration.WithLabelValues(req.URL.Host).Observe(time.Since(started).Seconds())
	return resp, err
}
