// Prometheus instrumentation for outbound reseller traffic.
//
// Labels are kept low-cardinality: the reseller resource name and a coarse
// outcome (ok, rejected, transport). Rejected and transport outcomes are
// deliberately separate series: a spike in "transport" means the network or
// the reseller is down, a spike in "rejected" means bad input or exhausted
// domains, and the two page different people.
package reseller

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK        = "ok"
	outcomeRejected  = "rejected"
	outcomeTransport = "transport"
)

var (
	// resellerReqs counts outbound reseller calls by resource and outcome.
	resellerReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reseller_requests_total",
			Help: "Total number of outbound reseller API requests.",
		},
		[]string{"resource", "outcome"},
	)

	// resellerLat records call duration by resource. Outcome is omitted to
	// keep histogram cardinality down.
	resellerLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reseller_request_duration_seconds",
			Help:    "Duration of outbound reseller API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)
)

func init() {
	prometheus.MustRegister(resellerReqs, resellerLat)
}

// observeRequest records one completed (or failed) outbound call.
func observeRequest(resource, outcome string, d time.Duration) {
	resellerReqs.WithLabelValues(resource, outcome).Inc()
	resellerLat.WithLabelValues(resource).Observe(d.Seconds())
}
