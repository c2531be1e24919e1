package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

var _ chain.Tx = (*ledgerTx)(nil)

type ledgerTx struct {
	st  *state
	now func() time.Time
}

func (t *ledgerTx) ChainTip(_ context.Context) (model.ChainTip, error) {
	return t.st.tip, nil
}

func (t *ledgerTx) LockChainTip(_ context.Context) (model.ChainTip, error) {
	return t.st.tip, nil
}

func (t *ledgerTx) SetChainTip(_ context.Context, tip model.ChainTip) error {
	t.st.tip = tip
	return nil
}

func (t *ledgerTx) BlockByHash(_ context.Context, hash string) (model.Block, error) {
	return t.st.blockByHash(hash)
}

func (t *ledgerTx) CanonicalBlocksAbove(_ context.Context, height int64) ([]model.Block, error) {
	return t.st.canonicalBlocksAbove(height), nil
}

func (t *ledgerTx) BlockTransactions(_ context.Context, blockHash string) ([]model.Transaction, error) {
	return t.st.blockTransactions(blockHash), nil
}

func (t *ledgerTx) UpsertBlock(_ context.Context, block model.Block) error {
	if prev, ok := t.st.blocks[block.Hash]; ok && prev.Status == model.BlockCanonical {
		delete(t.st.canonical, prev.Height)
	}
	if block.Status == model.BlockCanonical {
		if hash, ok := t.st.canonical[block.Height]; ok && hash != block.Hash {
			return fmt.Errorf("block %s: height %d already has canonical block %s", block.Hash, block.Height, hash)
		}
		t.st.canonical[block.Height] = block.Hash
	}
	t.st.blocks[block.Hash] = block
	return nil
}

func (t *ledgerTx) SetBlockStatus(_ context.Context, hash string, status model.BlockStatus) error {
	block, ok := t.st.blocks[hash]
	if !ok {
		return fmt.Errorf("block %s: %w", hash, model.ErrNotFound)
	}
	switch status {
	case model.BlockCanonical:
		if other, ok := t.st.canonical[block.Height]; ok && other != hash {
			return fmt.Errorf("block %s: height %d already has canonical block %s", hash, block.Height, other)
		}
		t.st.canonical[block.Height] = hash
	case model.BlockOrphaned:
		if t.st.canonical[block.Height] == hash {
			delete(t.st.canonical, block.Height)
		}
	}
	block.Status = status
	t.st.blocks[hash] = block
	return nil
}

func (t *ledgerTx) UpsertTransaction(_ context.Context, tx model.Transaction) error {
	if tx.Status == model.TxConfirmed {
		if tx.BlockHash == nil || tx.BlockHeight == nil {
			return fmt.Errorf("transaction %s: confirmed without block linkage", tx.TxID)
		}
		if _, ok := t.st.blocks[*tx.BlockHash]; !ok {
			return fmt.Errorf("transaction %s: block %s: %w", tx.TxID, *tx.BlockHash, model.ErrNotFound)
		}
	}
	t.st.txs[tx.TxID] = tx
	return nil
}

func (t *ledgerTx) SetTransactionStatus(_ context.Context, txid string, status model.TxStatus) error {
	tx, ok := t.st.txs[txid]
	if !ok {
		return fmt.Errorf("transaction %s: %w", txid, model.ErrNotFound)
	}
	if status == model.TxConfirmed {
		return fmt.Errorf("transaction %s: confirmation requires block linkage", txid)
	}
	tx.Status = status
	tx.BlockHash = nil
	tx.BlockHeight = nil
	tx.Position = nil
	t.st.txs[txid] = tx
	return nil
}

func (t *ledgerTx) InsertTransactionOutputs(_ context.Context, outputs []model.TxOutput) error {
	for _, out := range outputs {
		if out.Value < 0 {
			return fmt.Errorf("output %s: negative value", out.Outpoint())
		}
		existing := t.st.outputs[out.TxID]
		if containsOutput(existing, out.Vout) {
			continue
		}
		next := append(append([]model.TxOutput(nil), existing...), out)
		sort.Slice(next, func(i, j int) bool { return next[i].Vout < next[j].Vout })
		t.st.outputs[out.TxID] = next
	}
	return nil
}

func (t *ledgerTx) InsertTransactionInputs(_ context.Context, inputs []model.TxInput) error {
	for _, in := range inputs {
		existing := t.st.inputs[in.TxID]
		if containsInput(existing, in.Vin) {
			continue
		}
		next := append(append([]model.TxInput(nil), existing...), in)
		sort.Slice(next, func(i, j int) bool { return next[i].Vin < next[j].Vin })
		t.st.inputs[in.TxID] = next
	}
	return nil
}

func (t *ledgerTx) TransactionOutputs(_ context.Context, txid string) ([]model.TxOutput, error) {
	return append([]model.TxOutput(nil), t.st.outputs[txid]...), nil
}

func (t *ledgerTx) TransactionInputs(_ context.Context, txid string) ([]model.TxInput, error) {
	return append([]model.TxInput(nil), t.st.inputs[txid]...), nil
}

func (t *ledgerTx) LockUTXO(_ context.Context, outpoint model.Outpoint) (model.UTXO, error) {
	u, ok := t.st.utxos[outpoint]
	if !ok {
		return model.UTXO{}, model.ErrNotFound
	}
	return u, nil
}

func (t *ledgerTx) InsertUTXO(_ context.Context, utxo model.UTXO) error {
	if _, ok := t.st.utxos[utxo.Outpoint]; ok {
		return fmt.Errorf("utxo %s already exists", utxo.Outpoint)
	}
	if utxo.Value < 0 {
		return fmt.Errorf("utxo %s: negative value", utxo.Outpoint)
	}
	if (utxo.Status == model.UTXOSpent) != (utxo.SpendingTxID != "") {
		return fmt.Errorf("utxo %s: spending txid does not match status %s", utxo.Outpoint, utxo.Status)
	}
	t.st.utxos[utxo.Outpoint] = utxo
	return nil
}

func (t *ledgerTx) UpdateUTXOSpend(_ context.Context, outpoint model.Outpoint, status model.UTXOStatus, spendingTxID string) error {
	u, ok := t.st.utxos[outpoint]
	if !ok {
		return fmt.Errorf("utxo %s: %w", outpoint, model.ErrNotFound)
	}
	if (status == model.UTXOSpent) != (spendingTxID != "") {
		return fmt.Errorf("utxo %s: spending txid does not match status %s", outpoint, status)
	}
	u.Status = status
	u.SpendingTxID = spendingTxID
	t.st.utxos[outpoint] = u
	return nil
}

func (t *ledgerTx) DeleteUTXO(_ context.Context, outpoint model.Outpoint) error {
	delete(t.st.utxos, outpoint)
	return nil
}

func (t *ledgerTx) LockAddressBalances(_ context.Context, addresses []string) (map[string]int64, error) {
	out := make(map[string]int64, len(addresses))
	for _, address := range addresses {
		if b, ok := t.st.balances[address]; ok {
			out[address] = b.Balance
		}
	}
	return out, nil
}

func (t *ledgerTx) UpsertAddressBalances(_ context.Context, balances []model.AddressBalance) error {
	for _, b := range balances {
		if b.Balance < 0 {
			return fmt.Errorf("address %s: negative balance %d", b.Address, b.Balance)
		}
		t.st.balances[b.Address] = b
	}
	return nil
}

func (t *ledgerTx) UpsertBalanceHistory(_ context.Context, snapshots []model.BalanceSnapshot) error {
	for _, s := range snapshots {
		if s.Balance < 0 {
			return fmt.Errorf("address %s: negative balance %d at %d", s.Address, s.Balance, s.Height)
		}
		rows, ok := t.st.history[s.Address]
		if !ok {
			rows = make(map[int64]int64)
			t.st.history[s.Address] = rows
		}
		rows[s.Height] = s.Balance
	}
	return nil
}

func (t *ledgerTx) DeleteBalanceHistory(_ context.Context, height int64) error {
	for address, rows := range t.st.history {
		delete(rows, height)
		if len(rows) == 0 {
			delete(t.st.history, address)
		}
	}
	return nil
}

func (t *ledgerTx) SaveJobProgress(_ context.Context, jobID string, height int64) error {
	job, ok := t.st.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s: %w", jobID, model.ErrNotFound)
	}
	job.ProgressHeight = height
	job.UpdatedAt = t.now().UTC()
	t.st.jobs[jobID] = job
	return nil
}

func containsOutput(outputs []model.TxOutput, vout uint32) bool {
	for _, o := range outputs {
		if o.Vout == vout {
			return true
		}
	}
	return false
}

func containsInput(inputs []model.TxInput, vin uint32) bool {
	for _, in := range inputs {
		if in.Vin == vin {
			return true
		}
	}
	return false
}
