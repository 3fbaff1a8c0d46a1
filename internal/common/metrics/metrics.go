// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for SavingsCalculations.
const (
	OutcomeComputed = "computed"
	OutcomeUnknown  = "unknown"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// SavingsCalculations counts calculator invocations. Unknown inputs are
	// folded into a single business_type label to keep cardinality bounded.
	SavingsCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "savings_calculations_total",
			Help: "Savings calculations by business type and outcome",
		},
		[]string{"business_type", "outcome"},
	)

	ProfileTableSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_table_size",
			Help: "Number of business profiles loaded at startup",
		},
	)
)

// RecordCalculation bumps SavingsCalculations.
func RecordCalculation(businessType string, known bool) {
	if !known {
		SavingsCalculations.WithLabelValues("_unknown", OutcomeUnknown).Inc()
		return
	}
	SavingsCalculations.WithLabelValues(businessType, OutcomeComputed).Inc()
}
