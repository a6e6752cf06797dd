package api

import "github.com/prometheus/client_golang/prometheus"

// Request outcome labels.
const (
	outcomeOK              = "ok"
	outcomeUnauthenticated = "unauthenticated"
	outcomeSessionExpired  = "session_expired"
	outcomeUnavailable     = "unavailable"
	outcomeFailed          = "failed"
	outcomeNetworkError    = "network_error"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "evalportal_client_requests_total",
		Help: "Portal API requests by path and outcome.",
	},
	[]string{"path", "outcome"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

func observe(path, outcome string) {
	requestsTotal.WithLabelValues(path, outcome).Inc()
}
