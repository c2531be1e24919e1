package health

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	defaultInterval         = 15 * time.Second
	defaultLatencyThreshold = 2 * time.Second
	defaultStaleAfter       = 30 * time.Minute
)

// Config tunes a Monitor.
type Config struct {
	NodeID           string
	Interval         time.Duration
	LatencyThreshold time.Duration
	// StaleAfter marks the node degraded when its tip has not changed for this long.
	StaleAfter time.Duration
	// Service is the grpc health service name the status is published under.
	Service string
}

// Monitor polls the node tip and classifies the node as ok, degraded or down.
type Monitor struct {
	store   Store
	source  Source
	metrics Metrics
	sink    StatusSink
	logger  *zap.Logger
	cfg     Config
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error

	lastTip      model.NodeTip
	tipChangedAt time.Time
	lastSeen     time.Time
	restored     bool
}

// NewMonitor builds a Monitor. sink may be nil.
func NewMonitor(store Store, source Source, metrics Metrics, sink StatusSink, logger *zap.Logger, cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.LatencyThreshold <= 0 {
		cfg.LatencyThreshold = defaultLatencyThreshold
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}
	return &Monitor{
		store:   store,
		source:  source,
		metrics: metrics,
		sink:    sink,
		logger:  logger.Named("node_health").With(zap.String("node_id", cfg.NodeID)),
		cfg:     cfg,
		now:     time.Now,
		sleep:   clock.SleepWithContext,
	}
}

// Run probes the node every interval until ctx is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		m.Probe(ctx)
		if err := m.sleep(ctx, m.cfg.Interval); err != nil {
			return err
		}
	}
}

// Probe performs one health check and records it. Failures are logged only.
func (m *Monitor) Probe(ctx context.Context) model.NodeHealth {
	at := m.now()
	tip, latency, err := m.source.TimedTip(ctx)
	if err != nil && m.lastSeen.IsZero() {
		m.restore(ctx)
	}

	h := m.classify(tip, err, at, latency)
	m.metrics.ObserveProbe(h, latency)
	if m.sink != nil {
		m.sink.SetServingStatus(m.cfg.Service, servingStatus(h.Status))
	}
	if h.LastSeen.IsZero() {
		m.logger.Debug("node never answered, health row not written")
	} else if err := m.store.UpsertNodeHealth(ctx, h); err != nil {
		m.logger.Warn("store node health failed", zap.Error(err))
	}

	if h.Status != model.NodeOK {
		m.logger.Warn("node unhealthy",
			zap.String("status", string(h.Status)),
			zap.Duration("latency", latency),
			zap.String("last_error", h.LastError),
		)
	}
	return h
}

// restore seeds the last known tip from the stored row, once per process.
func (m *Monitor) restore(ctx context.Context) {
	if m.restored {
		return
	}
	m.restored = true

	stored, err := m.store.NodeHealth(ctx, m.cfg.NodeID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return
	case err != nil:
		m.logger.Warn("load node health failed", zap.Error(err))
		return
	}
	m.lastSeen = stored.LastSeen
	if stored.TipHeight != nil {
		m.lastTip = model.NodeTip{Height: *stored.TipHeight, Hash: stored.TipHash}
	}
}

func (m *Monitor) classify(tip model.NodeTip, err error, at time.Time, latency time.Duration) model.NodeHealth {
	h := model.NodeHealth{
		NodeID:  m.cfg.NodeID,
		Latency: latency,
	}
	if err != nil {
		h.Status = model.NodeDown
		h.LastError = err.Error()
		h.LastSeen = m.lastSeen
		if m.lastTip.Hash != "" {
			height := m.lastTip.Height
			h.TipHeight = &height
			h.TipHash = m.lastTip.Hash
		}
		return h
	}

	if tip.Hash != m.lastTip.Hash || m.tipChangedAt.IsZero() {
		m.lastTip = tip
		m.tipChangedAt = at
	}
	m.lastSeen = at
	height := tip.Height
	h.TipHeight = &height
	h.TipHash = tip.Hash
	h.LastSeen = at

	switch {
	case latency > m.cfg.LatencyThreshold:
		h.Status = model.NodeDegraded
	case at.Sub(m.tipChangedAt) > m.cfg.StaleAfter:
		h.Status = model.NodeDegraded
		h.LastError = "tip unchanged since " + m.tipChangedAt.UTC().Format(time.RFC3339)
	default:
		h.Status = model.NodeOK
	}
	return h
}

func servingStatus(s model.NodeStatus) healthpb.HealthCheckResponse_ServingStatus {
	if s == model.NodeDown {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}
