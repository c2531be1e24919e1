// Package utxoset maintains the unspent output projection of the canonical chain.
package utxoset

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

// Manager applies UTXO lifecycle transitions. Every operation is idempotent:
// repeating it with the same arguments reports changed=false and leaves the store untouched.
type Manager struct{}

// NewManager constructs a Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Create inserts an unspent entry for a new output.
// An existing entry with different contents is a *model.ConflictError.
func (m *Manager) Create(ctx context.Context, store Store, utxo model.UTXO) (changed bool, err error) {
	existing, err := store.LockUTXO(ctx, utxo.Outpoint)
	switch {
	case err == nil:
		if existing.Address != utxo.Address || existing.Value != utxo.Value {
			return false, &model.ConflictError{Outpoint: utxo.Outpoint}
		}
		return false, nil
	case !errors.Is(err, model.ErrNotFound):
		return false, fmt.Errorf("lock utxo %s: %w", utxo.Outpoint, err)
	}

	utxo.Status = model.UTXOUnspent
	utxo.SpendingTxID = ""
	if err := store.InsertUTXO(ctx, utxo); err != nil {
		return false, fmt.Errorf("insert utxo %s: %w", utxo.Outpoint, err)
	}
	return true, nil
}

// Spend marks an entry as consumed by spendingTxID and returns it.
func (m *Manager) Spend(ctx context.Context, store Store, outpoint model.Outpoint, spendingTxID string) (model.UTXO, bool, error) {
	utxo, err := m.lock(ctx, store, outpoint, "spend")
	if err != nil {
		return model.UTXO{}, false, err
	}
	if utxo.Status == model.UTXOSpent {
		if utxo.SpendingTxID == spendingTxID {
			return utxo, false, nil
		}
		return model.UTXO{}, false, model.Inconsistent("output %s spent by %s and %s", outpoint, utxo.SpendingTxID, spendingTxID)
	}

	if err := store.UpdateUTXOSpend(ctx, outpoint, model.UTXOSpent, spendingTxID); err != nil {
		return model.UTXO{}, false, fmt.Errorf("spend utxo %s: %w", outpoint, err)
	}
	utxo.Status = model.UTXOSpent
	utxo.SpendingTxID = spendingTxID
	return utxo, true, nil
}

// Unspend reverts a Spend made by spendingTxID.
func (m *Manager) Unspend(ctx context.Context, store Store, outpoint model.Outpoint, spendingTxID string) (model.UTXO, bool, error) {
	utxo, err := m.lock(ctx, store, outpoint, "unspend")
	if err != nil {
		return model.UTXO{}, false, err
	}
	if utxo.Status == model.UTXOUnspent {
		return utxo, false, nil
	}
	if utxo.SpendingTxID != spendingTxID {
		return model.UTXO{}, false, model.Inconsistent("unspend of %s by %s but spent by %s", outpoint, spendingTxID, utxo.SpendingTxID)
	}

	if err := store.UpdateUTXOSpend(ctx, outpoint, model.UTXOUnspent, ""); err != nil {
		return model.UTXO{}, false, fmt.Errorf("unspend utxo %s: %w", outpoint, err)
	}
	utxo.Status = model.UTXOUnspent
	utxo.SpendingTxID = ""
	return utxo, true, nil
}

// Remove deletes the entry created for an output whose block is being undone.
// The entry must be unspent; an absent entry is treated as already removed.
func (m *Manager) Remove(ctx context.Context, store Store, outpoint model.Outpoint) (model.UTXO, bool, error) {
	utxo, err := store.LockUTXO(ctx, outpoint)
	if errors.Is(err, model.ErrNotFound) {
		return model.UTXO{}, false, nil
	}
	if err != nil {
		return model.UTXO{}, false, fmt.Errorf("lock utxo %s: %w", outpoint, err)
	}
	if utxo.Status == model.UTXOSpent {
		return model.UTXO{}, false, model.Inconsistent("remove of %s still spent by %s", outpoint, utxo.SpendingTxID)
	}

	if err := store.DeleteUTXO(ctx, outpoint); err != nil {
		return model.UTXO{}, false, fmt.Errorf("delete utxo %s: %w", outpoint, err)
	}
	return utxo, true, nil
}

func (m *Manager) lock(ctx context.Context, store Store, outpoint model.Outpoint, op string) (model.UTXO, error) {
	utxo, err := store.LockUTXO(ctx, outpoint)
	if errors.Is(err, model.ErrNotFound) {
		return model.UTXO{}, model.Inconsistent("%s of unknown output %s", op, outpoint)
	}
	if err != nil {
		return model.UTXO{}, fmt.Errorf("lock utxo %s: %w", outpoint, err)
	}
	return utxo, nil
}
