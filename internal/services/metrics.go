// Prometheus instrumentation for acquisition outcomes.
package services

import "github.com/prometheus/client_golang/prometheus"

// acquisitions counts finished checkout transactions by terminal outcome
// (complete, partial, payment_declined, customer_rejected, domain_rejected,
// transport_error). The series a dashboard alerts on is anything that is
// neither complete nor partial with needs_reconciliation rows behind it.
var acquisitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "acquisitions_total",
		Help: "Total number of domain-acquisition transactions by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(acquisitions)
}

func observeAcquisition(outcome string) {
	acquisitions.WithLabelValues(outcome).Inc()
}
