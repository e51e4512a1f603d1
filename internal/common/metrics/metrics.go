package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
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
)

var (
	MatchCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guard_match_candidates",
			Help:    "Number of guards returned per ranking request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"operation"},
	)

	MatchTopScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guard_match_top_score",
			Help:    "Score of the best ranked guard per request",
			Buckets: prometheus.LinearBuckets(0, 10, 12),
		},
		[]string{"operation"},
	)

	SlotBookings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_slot_booking_total",
			Help: "Slot booking attempts by result (booked, conflict, missing_day, error)",
		},
		[]string{"result"},
	)

	SlotCASRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guard_slot_cas_retries_total",
			Help: "Availability updates retried after losing a version race",
		},
	)

	RosterReadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_roster_read_failures_total",
			Help: "Roster reads that failed and degraded to an empty result",
		},
		[]string{"operation"},
	)
)
