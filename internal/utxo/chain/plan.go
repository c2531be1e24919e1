package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"go.uber.org/zap"
)

// plan is a block unit computed from a snapshot of the ledger identified by tipVersion.
type plan struct {
	kind       OutcomeKind
	tipVersion int64
	forkHeight int64
	forkHash   string
	// undo holds displaced canonical blocks, highest first.
	undo []model.Block
	// apply holds the new branch, lowest first.
	apply []*model.SourceBlock
	// undoStatus is the post-undo status of displaced transactions.
	undoStatus map[string]model.TxStatus
}

func (t *Tracker) plan(ctx context.Context, block *model.SourceBlock) (*plan, error) {
	tip, err := t.store.ChainTip(ctx)
	if err != nil {
		return nil, fmt.Errorf("read chain tip: %w", err)
	}
	p := &plan{tipVersion: tip.Version}

	existing, err := t.store.BlockByHash(ctx, block.Block.Hash)
	switch {
	case err == nil && existing.Status == model.BlockCanonical:
		p.kind = OutcomeDuplicate
		p.forkHeight = existing.Height
		p.forkHash = existing.Hash
		return p, nil
	case err != nil && !errors.Is(err, model.ErrNotFound):
		return nil, fmt.Errorf("read block: %w", err)
	}

	if tip.Empty() {
		p.kind = OutcomeExtend
		p.forkHeight = block.Block.Height - 1
		p.apply = []*model.SourceBlock{block}
		return p, nil
	}

	branch, fork, err := t.branch(ctx, tip, block)
	if err != nil {
		return nil, err
	}
	p.apply = branch
	p.forkHeight = fork.Height
	p.forkHash = fork.Hash

	if fork.Hash == tip.Hash {
		p.kind = OutcomeExtend
		return p, nil
	}
	if fork.Height >= tip.Height {
		return nil, model.Inconsistent("canonical block %s at %d is not below tip %d", fork.Hash, fork.Height, tip.Height)
	}

	depth := tip.Height - fork.Height
	if depth > t.maxReorgDepth {
		return nil, &model.ReorgDepthError{TipHeight: tip.Height, Depth: depth, Limit: t.maxReorgDepth}
	}

	undo, err := t.store.CanonicalBlocksAbove(ctx, fork.Height)
	if err != nil {
		return nil, fmt.Errorf("read canonical blocks above %d: %w", fork.Height, err)
	}
	if int64(len(undo)) != depth {
		return nil, model.Inconsistent("expected %d canonical blocks above fork %d, found %d", depth, fork.Height, len(undo))
	}

	statuses, err := t.classifyUndone(ctx, undo, branch)
	if err != nil {
		return nil, err
	}

	p.kind = OutcomeReorg
	p.undo = undo
	p.undoStatus = statuses
	return p, nil
}

// branch walks the ancestry of block until it reaches a canonical block, fetching
// missing ancestors from the node. The returned branch is ordered lowest first.
func (t *Tracker) branch(ctx context.Context, tip model.ChainTip, block *model.SourceBlock) ([]*model.SourceBlock, model.Block, error) {
	branch := []*model.SourceBlock{block}
	cur := block
	for {
		if cur.Block.PrevHash == "" {
			return nil, model.Block{}, model.Inconsistent("block %s at %d has no parent on the ledger chain", cur.Block.Hash, cur.Block.Height)
		}

		parent, err := t.store.BlockByHash(ctx, cur.Block.PrevHash)
		switch {
		case err == nil && parent.Status == model.BlockCanonical:
			reverse(branch)
			return branch, parent, nil
		case err != nil && !errors.Is(err, model.ErrNotFound):
			return nil, model.Block{}, fmt.Errorf("read block %s: %w", cur.Block.PrevHash, err)
		}

		// The fork lies at least one block below the missing parent.
		if minDepth := tip.Height - (cur.Block.Height - 2); minDepth > t.maxReorgDepth {
			return nil, model.Block{}, &model.ReorgDepthError{TipHeight: tip.Height, Depth: minDepth, Limit: t.maxReorgDepth}
		}
		if len(branch) >= t.maxBranch {
			return nil, model.Block{}, fmt.Errorf("no canonical ancestor within %d blocks of %s", t.maxBranch, block.Block.Hash)
		}

		prev, err := t.source.BlockByHash(ctx, cur.Block.PrevHash)
		if err != nil {
			return nil, model.Block{}, fmt.Errorf("fetch ancestor %s: %w", cur.Block.PrevHash, err)
		}
		if prev.Block.Hash != cur.Block.PrevHash || prev.Block.Height != cur.Block.Height-1 {
			return nil, model.Block{}, model.Inconsistent("node returned %s at %d as parent of %s at %d",
				prev.Block.Hash, prev.Block.Height, cur.Block.Hash, cur.Block.Height)
		}
		branch = append(branch, prev)
		cur = prev
	}
}

// classifyUndone decides what happens to transactions of displaced blocks that
// the new branch does not confirm again.
func (t *Tracker) classifyUndone(ctx context.Context, undo []model.Block, apply []*model.SourceBlock) (map[string]model.TxStatus, error) {
	reapplied := make(map[string]struct{})
	for _, sb := range apply {
		for _, tx := range sb.Txs {
			reapplied[tx.TxID] = struct{}{}
		}
	}

	statuses := make(map[string]model.TxStatus)
	for _, b := range undo {
		txs, err := t.store.BlockTransactions(ctx, b.Hash)
		if err != nil {
			return nil, fmt.Errorf("read transactions of %s: %w", b.Hash, err)
		}
		for _, tx := range txs {
			if _, ok := reapplied[tx.TxID]; ok {
				continue
			}
			statuses[tx.TxID] = t.nodeStatus(ctx, tx)
		}
	}
	return statuses, nil
}

func (t *Tracker) nodeStatus(ctx context.Context, tx model.Transaction) model.TxStatus {
	if tx.Decoded.Coinbase {
		return model.TxDropped
	}
	lookup, err := t.source.LookupTransaction(ctx, tx.TxID)
	switch {
	case err != nil:
		t.logger.Warn("lookup of displaced transaction failed", zap.String("txid", tx.TxID), zap.Error(err))
		return model.TxOrphaned
	case !lookup.Known:
		return model.TxDropped
	case lookup.Confirmed:
		return model.TxOrphaned
	default:
		return model.TxMempool
	}
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
