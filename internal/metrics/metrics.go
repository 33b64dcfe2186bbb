// Package metrics exposes Prometheus counters for the auth endpoints.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
)

// Registry owns the collectors so tests can build isolated instances.
type Registry struct {
	reg          *prometheus.Registry
	authRequests *prometheus.CounterVec
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	authRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authapi",
		Name:      "auth_requests_total",
		Help:      "Auth endpoint requests by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(authRequests)

	return &Registry{reg: reg, authRequests: authRequests}
}

// Observe records one finished request. A nil Registry is a no-op.
func (r *Registry) Observe(operation string, status int) {
	if r == nil {
		return
	}
	r.authRequests.WithLabelValues(operation, OutcomeFor(status)).Inc()
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func OutcomeFor(status int) string {
	switch {
	case status >= 500:
		return OutcomeServerError
	case status >= 400:
		return OutcomeClientError
	default:
		return OutcomeSuccess
	}
}
