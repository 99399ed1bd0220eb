package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AccessMetrics counts license access verdicts by outcome.
type AccessMetrics struct {
	allowed *prometheus.CounterVec
	denied  *prometheus.CounterVec
}

// NewAccessMetrics registers the access verdict counters on the provided registerer.
func NewAccessMetrics(reg prometheus.Registerer) *AccessMetrics {
	if reg == nil {
		return &AccessMetrics{}
	}
	allowed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "license_access_allowed",
		Help: "License access checks that resolved to allow.",
	}, []string{"tier"})
	denied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "license_access_denied",
		Help: "License access checks that resolved to deny.",
	}, []string{"code"})
	reg.MustRegister(allowed, denied)
	return &AccessMetrics{allowed: allowed, denied: denied}
}

// IncAllowed counts an allow verdict for the given tier.
func (a *AccessMetrics) IncAllowed(tier string) {
	if a == nil || a.allowed == nil {
		return
	}
	a.allowed.WithLabelValues(normalizeLabel(tier)).Inc()
}

// IncDenied counts a deny verdict for the given denial code.
func (a *AccessMetrics) IncDenied(code string) {
	if a == nil || a.denied == nil {
		return
	}
	a.denied.WithLabelValues(normalizeLabel(code)).Inc()
}
