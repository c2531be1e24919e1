package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "job_worker",
		Name:      "blocks_total",
		Help:      "Count of blocks processed by job workers.",
	}, []string{"job_id", "status"})
	jobBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "job_worker",
		Name:      "block_duration_seconds",
		Help:      "Duration of processing one block in a job.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job_id", "status"})
	jobProgressHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "job_worker",
		Name:      "progress_height",
		Help:      "Last block height committed by a job.",
	}, []string{"job_id"})
	jobFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "job_worker",
		Name:      "failures_total",
		Help:      "Count of jobs moved to failed.",
	}, []string{"job_id"})
	jobRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "job_worker",
		Name:      "node_retries_total",
		Help:      "Count of retried node calls.",
	}, []string{"job_id", "operation"})
)

// JobWorker tracks job worker activity.
type JobWorker struct{}

// NewJobWorker constructs a JobWorker collector.
func NewJobWorker() *JobWorker {
	return &JobWorker{}
}

// ObserveBlock records one block processed for a job.
func (m JobWorker) ObserveBlock(jobID string, height int64, err error, started time.Time) {
	s := status(err)
	jobBlocksTotal.WithLabelValues(jobID, s).Inc()
	jobBlockDuration.WithLabelValues(jobID, s).Observe(time.Since(started).Seconds())
	if err == nil {
		jobProgressHeight.WithLabelValues(jobID).Set(float64(height))
	}
}

// ObserveFailure records a job moving to failed.
func (m JobWorker) ObserveFailure(jobID string) {
	jobFailuresTotal.WithLabelValues(jobID).Inc()
}

// ObserveRetry records a retried node call.
func (m JobWorker) ObserveRetry(jobID, operation string) {
	jobRetriesTotal.WithLabelValues(jobID, operation).Inc()
}
