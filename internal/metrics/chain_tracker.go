package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chainIngestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_tracker",
		Name:      "ingest_total",
		Help:      "Count of ingested blocks by outcome.",
	}, []string{"outcome", "status"})
	chainIngestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_tracker",
		Name:      "ingest_duration_seconds",
		Help:      "Duration of committing a block unit.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome", "status"})
	chainReorgDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_tracker",
		Name:      "reorg_depth_blocks",
		Help:      "Number of canonical blocks undone per reorganization.",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})
)

// ChainTracker tracks block unit outcomes.
type ChainTracker struct{}

// NewChainTracker constructs a ChainTracker collector.
func NewChainTracker() *ChainTracker {
	return &ChainTracker{}
}

// ObserveIngest records one Ingest call.
func (m ChainTracker) ObserveIngest(outcome string, err error, started time.Time) {
	s := status(err)
	outcome = orUnknown(outcome)
	chainIngestTotal.WithLabelValues(outcome, s).Inc()
	chainIngestDuration.WithLabelValues(outcome, s).Observe(time.Since(started).Seconds())
}

// ObserveReorg records the depth of a committed reorganization.
func (m ChainTracker) ObserveReorg(depth int64) {
	chainReorgDepth.Observe(float64(depth))
}
