package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/balance"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/utxoset"
	"go.uber.org/zap"
)

// Tracker keeps the ledger on exactly one canonical chain. Each block handed to Ingest is
// resolved against the stored chain and committed as a single block unit: any undo of
// displaced blocks, the application of the new branch, the tip update and commit hooks.
type Tracker struct {
	store    Store
	source   Source
	utxos    *utxoset.Manager
	balances *balance.Aggregator
	metrics  Metrics
	logger   *zap.Logger

	maxReorgDepth int64
	maxBranch     int
	planAttempts  int
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithMaxReorgDepth bounds how many canonical blocks a fork may displace.
func WithMaxReorgDepth(depth int64) Option {
	return func(t *Tracker) {
		if depth >= 0 {
			t.maxReorgDepth = depth
		}
	}
}

// WithMaxBranch bounds how many ancestors are fetched while looking for a canonical parent.
func WithMaxBranch(blocks int) Option {
	return func(t *Tracker) {
		if blocks > 0 {
			t.maxBranch = blocks
		}
	}
}

// WithBalanceClock sets the clock used for balance update timestamps.
func WithBalanceClock(now balance.Clock) Option {
	return func(t *Tracker) {
		t.balances = balance.NewAggregator(now)
	}
}

// NewTracker constructs a Tracker.
func NewTracker(store Store, source Source, metrics Metrics, logger *zap.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:         store,
		source:        source,
		utxos:         utxoset.NewManager(),
		balances:      balance.NewAggregator(nil),
		metrics:       metrics,
		logger:        logger.Named("chain_tracker"),
		maxReorgDepth: defaultMaxReorgDepth,
		maxBranch:     defaultMaxBranch,
		planAttempts:  defaultPlanAttempts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ingest resolves block against the canonical chain and commits the resulting block unit.
// A block already canonical is a duplicate: nothing changes but hooks still run.
func (t *Tracker) Ingest(ctx context.Context, block *model.SourceBlock, hooks ...CommitHook) (out Outcome, err error) {
	started := time.Now()
	defer func() {
		t.metrics.ObserveIngest(string(out.Kind), err, started)
	}()

	if block == nil {
		return Outcome{}, errors.New("ingest nil block")
	}

	for attempt := 1; ; attempt++ {
		p, err := t.plan(ctx, block)
		if err != nil {
			return Outcome{}, fmt.Errorf("plan block %d %s: %w", block.Block.Height, block.Block.Hash, err)
		}

		out, err = t.execute(ctx, p, hooks)
		if errors.Is(err, model.ErrTipMoved) && attempt < t.planAttempts {
			t.logger.Debug("chain tip moved, replanning",
				zap.Int64("height", block.Block.Height),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("commit block %d %s: %w", block.Block.Height, block.Block.Hash, err)
		}
		break
	}

	if out.Kind == OutcomeReorg {
		t.metrics.ObserveReorg(int64(out.Undone))
		t.logger.Warn("chain reorganized",
			zap.Int64("fork_height", out.ForkHeight),
			zap.Int("undone", out.Undone),
			zap.Int("applied", out.Applied),
			zap.Int64("tip_height", out.Tip.Height),
			zap.String("tip_hash", out.Tip.Hash),
		)
	}
	return out, nil
}
