package chain

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/balance"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

func (t *Tracker) execute(ctx context.Context, p *plan, hooks []CommitHook) (Outcome, error) {
	out := Outcome{Kind: p.kind, ForkHeight: p.forkHeight}

	err := t.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		tip, err := tx.LockChainTip(ctx)
		if err != nil {
			return fmt.Errorf("lock chain tip: %w", err)
		}
		if tip.Version != p.tipVersion {
			return model.ErrTipMoved
		}

		if p.kind != OutcomeDuplicate {
			tip, err = t.rewrite(ctx, tx, tip, p)
			if err != nil {
				return err
			}
			out.Undone = len(p.undo)
			out.Applied = len(p.apply)
		}
		out.Tip = tip

		for _, hook := range hooks {
			if err := hook(ctx, tx, tip); err != nil {
				return fmt.Errorf("commit hook: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// rewrite undoes displaced blocks, applies the new branch and advances the tip.
func (t *Tracker) rewrite(ctx context.Context, tx Tx, tip model.ChainTip, p *plan) (model.ChainTip, error) {
	if err := verifyLinkage(tip, p); err != nil {
		return model.ChainTip{}, err
	}

	for _, b := range p.undo {
		if err := t.undoBlock(ctx, tx, b, p.undoStatus); err != nil {
			return model.ChainTip{}, fmt.Errorf("undo block %d %s: %w", b.Height, b.Hash, err)
		}
	}

	head := model.ChainTip{Height: p.forkHeight, Hash: p.forkHash}
	for _, sb := range p.apply {
		if head.Hash != "" && (sb.Block.PrevHash != head.Hash || sb.Block.Height != head.Height+1) {
			return model.ChainTip{}, model.Inconsistent("block %s at %d does not extend %s at %d",
				sb.Block.Hash, sb.Block.Height, head.Hash, head.Height)
		}
		if err := t.applyBlock(ctx, tx, sb); err != nil {
			return model.ChainTip{}, fmt.Errorf("apply block %d %s: %w", sb.Block.Height, sb.Block.Hash, err)
		}
		head = model.ChainTip{Height: sb.Block.Height, Hash: sb.Block.Hash}
	}

	head.Version = tip.Version + 1
	if err := tx.SetChainTip(ctx, head); err != nil {
		return model.ChainTip{}, fmt.Errorf("set chain tip: %w", err)
	}
	return head, nil
}

// verifyLinkage checks that the blocks to undo form the chain from the locked tip down to the fork.
func verifyLinkage(tip model.ChainTip, p *plan) error {
	if len(p.undo) == 0 {
		if tip.Hash != p.forkHash {
			return model.Inconsistent("tip %s at %d is not the fork point %s", tip.Hash, tip.Height, p.forkHash)
		}
		return nil
	}
	if p.undo[0].Hash != tip.Hash {
		return model.Inconsistent("highest canonical block %s is not the tip %s", p.undo[0].Hash, tip.Hash)
	}
	for i, b := range p.undo {
		parent := p.forkHash
		if i+1 < len(p.undo) {
			parent = p.undo[i+1].Hash
		}
		if b.PrevHash != parent {
			return model.Inconsistent("canonical block %s at %d links to %s, expected %s", b.Hash, b.Height, b.PrevHash, parent)
		}
	}
	return nil
}

func (t *Tracker) applyBlock(ctx context.Context, tx Tx, sb *model.SourceBlock) error {
	block := sb.Block
	block.Status = model.BlockCanonical
	if err := tx.UpsertBlock(ctx, block); err != nil {
		return fmt.Errorf("upsert block: %w", err)
	}

	deltas := balance.Deltas{}
	for pos, decoded := range sb.Txs {
		height, hash, position := block.Height, block.Hash, pos
		if err := tx.UpsertTransaction(ctx, model.Transaction{
			TxID:        decoded.TxID,
			BlockHeight: &height,
			BlockHash:   &hash,
			Position:    &position,
			Time:        block.Time,
			Status:      model.TxConfirmed,
			Decoded:     decoded,
		}); err != nil {
			return fmt.Errorf("upsert transaction %s: %w", decoded.TxID, err)
		}
		if err := tx.InsertTransactionOutputs(ctx, decoded.Outputs); err != nil {
			return fmt.Errorf("insert outputs of %s: %w", decoded.TxID, err)
		}
		inputs := spendingInputs(decoded)
		if err := tx.InsertTransactionInputs(ctx, inputs); err != nil {
			return fmt.Errorf("insert inputs of %s: %w", decoded.TxID, err)
		}

		for _, in := range inputs {
			spent, changed, err := t.utxos.Spend(ctx, tx, in.Prev(), decoded.TxID)
			if err != nil {
				return err
			}
			if changed {
				deltas.Add(spent.Address, -spent.Value)
			}
		}
		for _, output := range decoded.Outputs {
			changed, err := t.utxos.Create(ctx, tx, model.UTXO{
				Outpoint:      output.Outpoint(),
				Address:       output.Address,
				Value:         output.Value,
				CreatedHeight: block.Height,
			})
			if err != nil {
				return err
			}
			if changed {
				deltas.Add(output.Address, output.Value)
			}
		}
	}

	return t.balances.Apply(ctx, tx, block.Height, deltas)
}

// undoBlock reverts a canonical block. Transactions are reverted last to first so that
// outputs spent later in the same block are restored before their creation is removed.
func (t *Tracker) undoBlock(ctx context.Context, tx Tx, block model.Block, statuses map[string]model.TxStatus) error {
	txs, err := tx.BlockTransactions(ctx, block.Hash)
	if err != nil {
		return fmt.Errorf("read transactions: %w", err)
	}

	deltas := balance.Deltas{}
	for i := len(txs) - 1; i >= 0; i-- {
		record := txs[i]

		inputs, err := tx.TransactionInputs(ctx, record.TxID)
		if err != nil {
			return fmt.Errorf("read inputs of %s: %w", record.TxID, err)
		}
		for _, in := range inputs {
			restored, changed, err := t.utxos.Unspend(ctx, tx, in.Prev(), record.TxID)
			if err != nil {
				return err
			}
			if changed {
				deltas.Add(restored.Address, -restored.Value)
			}
		}

		outputs, err := tx.TransactionOutputs(ctx, record.TxID)
		if err != nil {
			return fmt.Errorf("read outputs of %s: %w", record.TxID, err)
		}
		for _, output := range outputs {
			removed, changed, err := t.utxos.Remove(ctx, tx, output.Outpoint())
			if err != nil {
				return err
			}
			if changed {
				deltas.Add(removed.Address, removed.Value)
			}
		}

		status, ok := statuses[record.TxID]
		if !ok {
			status = model.TxOrphaned
		}
		if err := tx.SetTransactionStatus(ctx, record.TxID, status); err != nil {
			return fmt.Errorf("set status of %s: %w", record.TxID, err)
		}
	}

	if err := t.balances.Undo(ctx, tx, block.Height, deltas); err != nil {
		return err
	}
	if err := tx.SetBlockStatus(ctx, block.Hash, model.BlockOrphaned); err != nil {
		return fmt.Errorf("orphan block: %w", err)
	}
	return nil
}

func spendingInputs(tx model.DecodedTx) []model.TxInput {
	inputs := make([]model.TxInput, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		if !in.Coinbase {
			inputs = append(inputs, in)
		}
	}
	return inputs
}
