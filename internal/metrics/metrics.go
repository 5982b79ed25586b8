// Package metrics defines the Prometheus metrics exported by the web client.
// Metrics register with the default registry on import and are served by
// promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "employwise"

// UpstreamRequestsTotal counts calls to the remote user API.
// Labels:
//   - operation: "login", "list_users", "delete_user" or "update_user"
//   - outcome: "ok", "status" (non-2xx response) or "error" (transport/decoding failure)
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the remote user API.",
	},
	[]string{"operation", "outcome"},
)

// UpstreamRequestDuration measures round-trip latency to the remote user API.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests sent to the remote user API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// NotificationsTotal counts notifications raised on the user list screen.
// Label:
//   - kind: "success" or "error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications raised on the user list screen.",
	},
	[]string{"kind"},
)

// StaleFetchesTotal counts list responses discarded because a newer page
// request was issued while they were in flight.
var StaleFetchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_fetches_total",
		Help:      "Total number of user list responses discarded as superseded.",
	},
)

// ActiveScreens tracks the number of user list screens held in memory.
var ActiveScreens = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_screens",
		Help:      "Number of per-session user list screens held in memory.",
	},
)
