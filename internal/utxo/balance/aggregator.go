// Package balance keeps per-address confirmed balances and their per-height history.
package balance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

// Deltas accumulates signed balance changes of one block keyed by address.
type Deltas map[string]int64

// Add records amount for address. Outputs without an address carry no balance.
func (d Deltas) Add(address string, amount int64) {
	if address == "" {
		return
	}
	d[address] += amount
}

// Addresses returns the touched addresses in a stable order.
func (d Deltas) Addresses() []string {
	out := make([]string, 0, len(d))
	for address := range d {
		out = append(out, address)
	}
	sort.Strings(out)
	return out
}

// Aggregator applies block deltas to address balances.
type Aggregator struct {
	now Clock
}

// NewAggregator constructs an Aggregator. A nil clock uses time.Now.
func NewAggregator(now Clock) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{now: now}
}

// Apply adds deltas of the block at height and records one history row per touched address.
func (a *Aggregator) Apply(ctx context.Context, store Store, height int64, deltas Deltas) error {
	balances, err := a.next(ctx, store, deltas, 1)
	if err != nil {
		return fmt.Errorf("apply balances at %d: %w", height, err)
	}
	if len(balances) == 0 {
		return nil
	}

	snapshots := make([]model.BalanceSnapshot, 0, len(balances))
	for _, b := range balances {
		snapshots = append(snapshots, model.BalanceSnapshot{Address: b.Address, Height: height, Balance: b.Balance})
	}
	if err := store.UpsertBalanceHistory(ctx, snapshots); err != nil {
		return fmt.Errorf("write balance history at %d: %w", height, err)
	}
	return nil
}

// Undo subtracts deltas of the block at height and drops the history rows written for it.
func (a *Aggregator) Undo(ctx context.Context, store Store, height int64, deltas Deltas) error {
	if _, err := a.next(ctx, store, deltas, -1); err != nil {
		return fmt.Errorf("undo balances at %d: %w", height, err)
	}
	if err := store.DeleteBalanceHistory(ctx, height); err != nil {
		return fmt.Errorf("delete balance history at %d: %w", height, err)
	}
	return nil
}

func (a *Aggregator) next(ctx context.Context, store Store, deltas Deltas, sign int64) ([]model.AddressBalance, error) {
	addresses := deltas.Addresses()
	if len(addresses) == 0 {
		return nil, nil
	}

	current, err := store.LockAddressBalances(ctx, addresses)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	balances := make([]model.AddressBalance, 0, len(addresses))
	for _, address := range addresses {
		value := current[address] + sign*deltas[address]
		if value < 0 {
			return nil, model.Inconsistent("balance of %s would become %d", address, value)
		}
		balances = append(balances, model.AddressBalance{Address: address, Balance: value, UpdatedAt: now})
	}

	if err := store.UpsertAddressBalances(ctx, balances); err != nil {
		return nil, err
	}
	return balances, nil
}
