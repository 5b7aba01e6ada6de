// ABOUTME: Prometheus instruments for the report cache and log mutations.
// ABOUTME: All instruments register on the Registerer passed to NewManager.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds every instrument the application records.
type Manager struct {
	// counters
	CounterCacheHits          *prometheus.CounterVec
	CounterCacheMisses        *prometheus.CounterVec
	CounterCacheInvalidations prometheus.Counter
	CounterCacheRejected      *prometheus.CounterVec
	CounterMutations          *prometheus.CounterVec

	// histograms
	HistReportDuration *prometheus.HistogramVec
}

// NewTestManager registers on a throwaway registry.
func NewTestManager() *Manager {
	return NewManager("workoutlog", "test", prometheus.NewRegistry())
}

// NewTestManagerAndRegistry also returns the registry so tests can gather from it.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("workoutlog", "test", reg), reg
}

// NewManager creates and registers the instruments.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterCacheHits := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_hits",
		Help:      "The total number of report cache hits",
	}, []string{"op"})
	counterCacheMisses := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_misses",
		Help:      "The total number of report cache misses",
	}, []string{"op"})
	counterCacheInvalidations := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_invalidations",
		Help:      "The total number of report cache invalidations",
	})
	counterCacheRejected := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_rejected",
		Help:      "The total number of report results the cache refused to store",
	}, []string{"op"})
	counterMutations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "mutations",
		Help:      "The total number of workout log mutations",
	}, []string{"op"})

	histReportDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10},
			Name:      "report_duration_seconds",
			Help:      "Duration of report computations in seconds",
		},
		[]string{"op"},
	)

	return &Manager{
		CounterCacheHits:          counterCacheHits,
		CounterCacheMisses:        counterCacheMisses,
		CounterCacheInvalidations: counterCacheInvalidations,
		CounterCacheRejected:      counterCacheRejected,
		CounterMutations:          counterMutations,
		HistReportDuration:        histReportDuration,
	}
}
