package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InterviewSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_sessions_total",
			Help: "Live interview sessions by outcome",
		},
		[]string{"outcome"},
	)

	InterviewSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interview_sessions_active",
			Help: "Live interview sessions currently running",
		},
	)

	InterviewQuestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_questions_total",
			Help: "Interview questions by result",
		},
		[]string{"result"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "interview_stage_duration_seconds",
			Help:    "Latency of external interview stages",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"stage", "status"},
	)

	CVProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_processed_total",
			Help: "CV processing jobs by outcome",
		},
		[]string{"outcome"},
	)

	CVProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cv_processing_duration_seconds",
			Help:    "Duration of CV parsing and question generation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	TTSCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tts_cache_lookups_total",
			Help: "Question audio cache lookups",
		},
		[]string{"result"},
	)
)

// ObserveStage records how long an external call took.
func ObserveStage(stage string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StageDuration.WithLabelValues(stage, status).Observe(time.Since(start).Seconds())
}
