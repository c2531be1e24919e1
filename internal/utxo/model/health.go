package model

import "time"

// NodeStatus is the health classification of a node.
type NodeStatus string

var (
	NodeOK       NodeStatus = "ok"
	NodeDegraded NodeStatus = "degraded"
	NodeDown     NodeStatus = "down"
)

// NodeHealth is the latest observation of a node.
type NodeHealth struct {
	NodeID    string
	LastSeen  time.Time
	TipHeight *int64
	TipHash   string
	Latency   time.Duration
	Status    NodeStatus
	LastError string
}
