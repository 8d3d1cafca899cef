package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"
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
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
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

	SchemeAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheme_analyses_total",
			Help: "Eligibility analyses by state tier and whether anything beyond the fallback matched",
		},
		[]string{"state_tier", "outcome"},
	)

	EligibleSchemesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eligible_schemes_returned",
			Help:    "Number of schemes returned per analysis",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7},
		},
	)

	ProfileCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmer_profile_cache_lookups_total",
			Help: "Farmer profile cache lookups by result",
		},
		[]string{"result"},
	)

	DocumentReadiness = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_readiness_checks_total",
			Help: "Document readiness checks by resulting status",
		},
		[]string{"status"},
	)
)

// ObserveJob tracks an in-flight job and returns the func that closes it out.
func ObserveJob(taskType string) func() {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func() {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	}
}

// StateTier buckets a regional multiplier so label cardinality stays small.
func StateTier(multiplier float64) string {
	switch {
	case multiplier >= 1.1:
		return "high"
	case multiplier <= 0.9:
		return "low"
	default:
		return "standard"
	}
}
