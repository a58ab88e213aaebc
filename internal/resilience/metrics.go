package resilience

import "github.com/prometheus/client_golang/prometheus"

// Breaker collectors are package-level so a breaker built anywhere reports
// without plumbing a registry through; registration happens once at import.
var (
	BreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "upstream_breaker_state",
		Help: "Breaker position per upstream target: 0 closed, 1 open, 2 half-open.",
	}, []string{"target"})
	BreakerTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_breaker_transitions_total",
		Help: "Breaker state transitions per upstream target.",
	}, []string{"target", "from", "to"})
	BreakerOpenedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_breaker_opened_total",
		Help: "Times a breaker tripped open per upstream target.",
	}, []string{"target"})
)

func init() {
	prometheus.MustRegister(BreakerState, BreakerTransitions, BreakerOpenedTotal)
}
