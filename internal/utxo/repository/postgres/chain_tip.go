package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

const (
	selectChainTipQuery = `SELECT height, hash, version FROM chain_tip WHERE id = 1`
	lockChainTipQuery   = selectChainTipQuery + ` FOR UPDATE`
	updateChainTipQuery = `UPDATE chain_tip SET height = $1, hash = $2, version = $3, updated_at = now() WHERE id = 1`
)

// ChainTip returns the versioned canonical tip.
func (e executor) ChainTip(ctx context.Context) (tip model.ChainTip, err error) {
	defer e.observe("chain_tip", time.Now(), &err)
	return e.chainTip(ctx, selectChainTipQuery)
}

// LockChainTip reads the tip and holds its row lock until the transaction ends.
func (t *ledgerTx) LockChainTip(ctx context.Context) (tip model.ChainTip, err error) {
	defer t.observe("lock_chain_tip", time.Now(), &err)
	return t.chainTip(ctx, lockChainTipQuery)
}

func (e executor) chainTip(ctx context.Context, query string) (model.ChainTip, error) {
	var tip model.ChainTip
	if err := e.q.QueryRowContext(ctx, query).Scan(&tip.Height, &tip.Hash, &tip.Version); err != nil {
		return model.ChainTip{}, fmt.Errorf("read chain tip: %w", err)
	}
	return tip, nil
}

func (t *ledgerTx) SetChainTip(ctx context.Context, tip model.ChainTip) (err error) {
	defer t.observe("set_chain_tip", time.Now(), &err)
	res, err := t.q.ExecContext(ctx, updateChainTipQuery, tip.Height, tip.Hash, tip.Version)
	if err != nil {
		return fmt.Errorf("update chain tip: %w", err)
	}
	return expectRows(res, 1, "chain tip")
}
