package api

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// RequestDuration records remote API latency by operation and outcome.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogclient_api_request_duration_seconds",
		Help:    "Remote blog API request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	// RequestErrors counts failed remote API calls by operation and error kind.
	RequestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogclient_api_request_errors_total",
		Help: "Total number of failed remote blog API requests",
	}, []string{"operation", "kind"})
)

// PushMetrics sends the client request metrics to a Prometheus Pushgateway under
// job, replacing what the gateway held for the same grouping. A short-lived CLI has
// no scrape endpoint, so this is how its metrics leave the process.
func PushMetrics(ctx context.Context, gatewayURL, job, instance string) error {
	pusher := push.New(gatewayURL, job).
		Collector(RequestDuration).
		Collector(RequestErrors)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
