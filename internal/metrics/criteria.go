package metrics

import "github.com/prometheus/client_golang/prometheus"

// Criteria Prometheus metrics.
var (
	CriteriaBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crmfilter",
			Name:      "criteria_built_total",
			Help:      "Total number of search criteria built",
		},
		[]string{"entity", "source"}, // source: basic / saved
	)

	CriteriaPredicates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crmfilter",
			Name:      "criteria_predicates",
			Help:      "Number of predicates per criteria, tenant included",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16},
		},
		[]string{"entity"},
	)

	InvalidTemplatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crmfilter",
			Name:      "invalid_templates_total",
			Help:      "Saved queries rejected against their entity schema",
		},
		[]string{"entity", "query"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crmfilter",
			Name:      "search_duration_seconds",
			Help:      "Query execution duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"entity", "status"},
	)
)

var criteriaMetricsRegistered bool

// RegisterCriteriaMetrics registers Prometheus criteria metrics. Must be called once from main.
func RegisterCriteriaMetrics() {
	if criteriaMetricsRegistered {
		return
	}
	prometheus.MustRegister(CriteriaBuiltTotal)
	prometheus.MustRegister(CriteriaPredicates)
	prometheus.MustRegister(InvalidTemplatesTotal)
	prometheus.MustRegister(SearchDuration)
	criteriaMetricsRegistered = true
}
