package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuotesSavedTotal counts quote persistence outcomes.
	QuotesSavedTotal *prometheus.CounterVec
	// DocumentsRenderedTotal counts rendered documents by variant and outcome.
	DocumentsRenderedTotal *prometheus.CounterVec
	// DiscountApplicationsTotal counts course discount rule outcomes per recompute pass.
	DiscountApplicationsTotal *prometheus.CounterVec
	// CRMLookupsTotal counts remote directory calls by operation and outcome.
	CRMLookupsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuotesSavedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_saved_total",
			Help:      "Count of quote save attempts by outcome.",
		}, []string{"result"})
		DocumentsRenderedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Count of rendered documents by variant and outcome.",
		}, []string{"variant", "result"})
		DiscountApplicationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_applications_total",
			Help:      "Count of course discount rule evaluations by action taken.",
		}, []string{"action"})
		CRMLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crm_lookups_total",
			Help:      "Count of remote directory lookups by operation and outcome.",
		}, []string{"op", "result"})

		mustRegister(reg, &QuotesSavedTotal, nil, nil)
		mustRegister(reg, &DocumentsRenderedTotal, nil, nil)
		mustRegister(reg, &DiscountApplicationsTotal, nil, nil)
		mustRegister(reg, &CRMLookupsTotal, nil, nil)
	})
}
