package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/workerpool"
	"go.uber.org/zap"
)

// errJobInactive stops a worker whose job left the running status.
var errJobInactive = errors.New("job is not running")

// Worker processes one running job: it fetches the next height range from the node and
// hands each block to the tracker, recording progress inside the block unit.
type Worker struct {
	jobID   string
	engine  *Engine
	store   Store
	tracker Tracker
	source  Source
	metrics Metrics
	logger  *zap.Logger

	policy         RetryPolicy
	blocksPerBatch int64
	parallelism    int
	idleInterval   time.Duration
	sleep          func(context.Context, time.Duration) error
}

func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("job worker started")
	defer w.logger.Info("job worker stopped")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		processed, err := w.step(ctx)
		switch {
		case errors.Is(err, errJobInactive):
			return nil
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			w.fail(ctx, err)
			return nil
		}

		if !processed {
			if err := w.sleep(ctx, w.idleInterval); err != nil {
				return err
			}
		}
	}
}

// step processes at most one batch of blocks. It reports whether anything was ingested.
func (w *Worker) step(ctx context.Context) (bool, error) {
	job, err := w.activeJob(ctx)
	if err != nil {
		return false, err
	}
	cfg, err := job.Config()
	if err != nil {
		return false, fmt.Errorf("decode job config: %w", err)
	}

	tip, err := retry(ctx, w.policy, func() (model.NodeTip, error) {
		return w.source.Tip(ctx)
	}, w.notify("tip"))
	if err != nil {
		return false, fmt.Errorf("read node tip: %w", err)
	}

	target := tip.Height
	if cfg.StopHeight > 0 && cfg.StopHeight < target {
		target = cfg.StopHeight
	}
	if job.ProgressHeight >= target {
		reconciled, err := w.reconcile(ctx, target, tip)
		if err != nil || reconciled {
			return reconciled, err
		}
		if cfg.StopHeight > 0 && job.ProgressHeight >= cfg.StopHeight {
			if _, err := w.engine.Complete(ctx, w.jobID); err != nil {
				return false, fmt.Errorf("complete job: %w", err)
			}
			return false, errJobInactive
		}
		return false, nil
	}

	from := job.NextHeight()
	to := min(from+w.blocksPerBatch-1, target)

	blocks, err := w.fetch(ctx, from, to)
	if err != nil {
		return false, err
	}

	for _, block := range blocks {
		if block.Block.Height != from {
			if _, err := w.activeJob(ctx); err != nil {
				return true, err
			}
		}
		if err := w.ingest(ctx, block); err != nil {
			return true, err
		}
	}
	return true, nil
}

// reconcile re-ingests the node's block at target when the ledger holds a different
// canonical block there. It catches same-height and shorter reorgs that a height
// comparison alone never sees. It reports whether a block was ingested.
func (w *Worker) reconcile(ctx context.Context, target int64, tip model.NodeTip) (bool, error) {
	ledger, err := w.store.ChainTip(ctx)
	if err != nil {
		return false, fmt.Errorf("read ledger tip: %w", err)
	}
	if ledger.Hash == "" || ledger.Height < target {
		return false, nil
	}

	var block *model.SourceBlock
	hash := tip.Hash
	if target != tip.Height {
		if block, err = w.fetchOne(ctx, target); err != nil {
			return false, err
		}
		hash = block.Block.Hash
	}

	known, err := w.store.BlockByHash(ctx, hash)
	switch {
	case err == nil && known.Status == model.BlockCanonical:
		return false, nil
	case err != nil && !errors.Is(err, model.ErrNotFound):
		return false, fmt.Errorf("lookup block %s: %w", hash, err)
	}

	if block == nil {
		if block, err = w.fetchOne(ctx, target); err != nil {
			return false, err
		}
	}
	w.logger.Info("node diverged from ledger",
		zap.Int64("height", target),
		zap.String("node_hash", block.Block.Hash),
		zap.Int64("ledger_tip_height", ledger.Height),
		zap.String("ledger_tip_hash", ledger.Hash),
	)
	if err := w.ingest(ctx, block); err != nil {
		return true, err
	}
	return true, nil
}

func (w *Worker) activeJob(ctx context.Context) (model.Job, error) {
	job, err := w.store.GetJob(ctx, w.jobID)
	if err != nil {
		return model.Job{}, fmt.Errorf("get job: %w", err)
	}
	if job.Status != model.JobRunning {
		return model.Job{}, errJobInactive
	}
	return job, nil
}

// fetch downloads heights from..to in parallel and returns them in height order.
func (w *Worker) fetch(ctx context.Context, from, to int64) ([]*model.SourceBlock, error) {
	heights := make([]int64, 0, to-from+1)
	for h := from; h <= to; h++ {
		heights = append(heights, h)
	}
	return workerpool.Map(ctx, w.parallelism, heights, w.fetchOne)
}

func (w *Worker) fetchOne(ctx context.Context, height int64) (*model.SourceBlock, error) {
	block, err := retry(ctx, w.policy, func() (*model.SourceBlock, error) {
		return w.source.BlockByHeight(ctx, height)
	}, w.notify("block_by_height"))
	if err != nil {
		return nil, fmt.Errorf("fetch block %d: %w", height, err)
	}
	if block.Block.Height != height {
		return nil, fmt.Errorf("fetch block %d: node returned height %d", height, block.Block.Height)
	}
	return block, nil
}

func (w *Worker) ingest(ctx context.Context, block *model.SourceBlock) error {
	started := time.Now()
	height := block.Block.Height

	outcome, err := retry(ctx, w.policy, func() (chain.Outcome, error) {
		return w.tracker.Ingest(ctx, block, w.progressHook(height))
	}, w.notify("ingest"))
	w.metrics.ObserveBlock(w.jobID, height, err, started)
	if err != nil {
		return fmt.Errorf("ingest block %d: %w", height, err)
	}

	w.logger.Debug("block committed",
		zap.Int64("height", height),
		zap.String("hash", block.Block.Hash),
		zap.String("outcome", string(outcome.Kind)),
		zap.Int64("tip_height", outcome.Tip.Height),
	)
	return nil
}

// progressHook records the job's progress in the same transaction as the block's effects.
func (w *Worker) progressHook(height int64) chain.CommitHook {
	return func(ctx context.Context, tx chain.Tx, _ model.ChainTip) error {
		return tx.SaveJobProgress(ctx, w.jobID, height)
	}
}

func (w *Worker) fail(ctx context.Context, cause error) {
	w.logger.Error("job failed", zap.Error(cause), zap.Bool("fatal", model.IsFatal(cause)))
	w.metrics.ObserveFailure(w.jobID)
	if _, err := w.engine.MarkFailed(ctx, w.jobID, cause); err != nil {
		w.logger.Warn("mark job failed", zap.Error(err))
	}
}

func (w *Worker) notify(operation string) func(error, time.Duration) {
	return func(err error, next time.Duration) {
		w.metrics.ObserveRetry(w.jobID, operation)
		w.logger.Warn("retrying node operation",
			zap.String("operation", operation),
			zap.Duration("next", next),
			zap.Error(err),
		)
	}
}
