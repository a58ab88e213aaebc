package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PricingRunsTotal counts pricing engine runs by endpoint and outcome.
	PricingRunsTotal *prometheus.CounterVec
	// ResolutionFailuresTotal counts catalog resolution failures by reason.
	ResolutionFailuresTotal *prometheus.CounterVec
	// CatalogRequestLatency records upstream catalog call latency in milliseconds.
	CatalogRequestLatency *prometheus.HistogramVec
	// RateLimitRejections counts requests rejected at the rate-limit boundary.
	RateLimitRejections prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PricingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_runs_total",
			Help:      "Count of pricing engine runs by endpoint and outcome.",
		}, []string{"endpoint", "result"})
		ResolutionFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_failures_total",
			Help:      "Count of catalog resolution failures by reason.",
		}, []string{"reason"})
		CatalogRequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_ms",
			Help:      "Latency of upstream catalog requests in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"operation"})
		RateLimitRejections = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Number of requests rejected by the rate limiter.",
		})

		mustRegisterCollector(reg, PricingRunsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PricingRunsTotal = v
			}
		})
		mustRegisterCollector(reg, ResolutionFailuresTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ResolutionFailuresTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogRequestLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				CatalogRequestLatency = v
			}
		})
		mustRegisterCollector(reg, RateLimitRejections, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				RateLimitRejections = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
