package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodeStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "node_health",
		Name:      "status",
		Help:      "Current node status, 1 for the active status label.",
	}, []string{"node_id", "status"})
	nodeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "node_health",
		Name:      "probe_latency_seconds",
		Help:      "Latency of node health probes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node_id"})
	nodeTipHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "node_health",
		Name:      "tip_height",
		Help:      "Tip height reported by the node.",
	}, []string{"node_id"})
)

var nodeStatuses = []model.NodeStatus{model.NodeOK, model.NodeDegraded, model.NodeDown}

// NodeHealth tracks node probe results.
type NodeHealth struct{}

// NewNodeHealth constructs a NodeHealth collector.
func NewNodeHealth() *NodeHealth {
	return &NodeHealth{}
}

// ObserveProbe records the outcome of one health probe.
func (m NodeHealth) ObserveProbe(h model.NodeHealth, latency time.Duration) {
	for _, s := range nodeStatuses {
		value := 0.0
		if s == h.Status {
			value = 1
		}
		nodeStatus.WithLabelValues(h.NodeID, string(s)).Set(value)
	}
	nodeLatency.WithLabelValues(h.NodeID).Observe(latency.Seconds())
	if h.TipHeight != nil {
		nodeTipHeight.WithLabelValues(h.NodeID).Set(float64(*h.TipHeight))
	}
}
