package memory

import (
	"context"
	"sort"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

func (r *Repository) AddressBalance(_ context.Context, address string) (model.AddressBalance, error) {
	b, ok := r.read().balances[address]
	if !ok {
		return model.AddressBalance{}, model.ErrNotFound
	}
	return b, nil
}

func (r *Repository) AddressBalances(_ context.Context, addresses []string) ([]model.AddressBalance, error) {
	st := r.read()
	out := make([]model.AddressBalance, 0, len(addresses))
	for _, address := range addresses {
		if b, ok := st.balances[address]; ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (r *Repository) TopBalances(_ context.Context, limit int) ([]model.AddressBalance, error) {
	st := r.read()
	out := make([]model.AddressBalance, 0, len(st.balances))
	for _, b := range st.balances {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].Address < out[j].Address
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// BalanceAt returns the latest history row of address at or below height.
func (r *Repository) BalanceAt(_ context.Context, address string, height int64) (model.BalanceSnapshot, error) {
	rows := r.read().history[address]
	best := int64(-1)
	for h := range rows {
		if h <= height && h > best {
			best = h
		}
	}
	if best < 0 {
		return model.BalanceSnapshot{}, model.ErrNotFound
	}
	return model.BalanceSnapshot{Address: address, Height: best, Balance: rows[best]}, nil
}

func (r *Repository) UnspentOutputs(_ context.Context, address string) ([]model.UTXO, error) {
	out := make([]model.UTXO, 0)
	for _, u := range r.read().utxos {
		if u.Address == address && u.Status == model.UTXOUnspent {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedHeight != out[j].CreatedHeight {
			return out[i].CreatedHeight < out[j].CreatedHeight
		}
		if out[i].TxID != out[j].TxID {
			return out[i].TxID < out[j].TxID
		}
		return out[i].Vout < out[j].Vout
	})
	return out, nil
}

// Transaction returns a stored transaction by id.
func (r *Repository) Transaction(_ context.Context, txid string) (model.Transaction, error) {
	tx, ok := r.read().txs[txid]
	if !ok {
		return model.Transaction{}, model.ErrNotFound
	}
	return tx, nil
}

// UTXO returns the projection entry of an outpoint.
func (r *Repository) UTXO(_ context.Context, outpoint model.Outpoint) (model.UTXO, error) {
	u, ok := r.read().utxos[outpoint]
	if !ok {
		return model.UTXO{}, model.ErrNotFound
	}
	return u, nil
}

// AllUTXOs returns every projection entry.
func (r *Repository) AllUTXOs(_ context.Context) ([]model.UTXO, error) {
	st := r.read()
	out := make([]model.UTXO, 0, len(st.utxos))
	for _, u := range st.utxos {
		out = append(out, u)
	}
	return out, nil
}

// AllBalances returns every address balance.
func (r *Repository) AllBalances(_ context.Context) ([]model.AddressBalance, error) {
	return r.TopBalances(context.Background(), 0)
}

// BalanceHistory returns the history rows of address keyed by height.
func (r *Repository) BalanceHistory(_ context.Context, address string) (map[int64]int64, error) {
	return cloneMap(r.read().history[address]), nil
}

func (r *Repository) UpsertNodeHealth(_ context.Context, h model.NodeHealth) error {
	return r.write(func(st *state) error {
		st.health[h.NodeID] = h
		return nil
	})
}

func (r *Repository) NodeHealth(_ context.Context, nodeID string) (model.NodeHealth, error) {
	h, ok := r.read().health[nodeID]
	if !ok {
		return model.NodeHealth{}, model.ErrNotFound
	}
	return h, nil
}
