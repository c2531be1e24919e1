package memory

import (
	"sort"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

// state is one consistent version of the ledger. Slices stored in it are never mutated in place.
type state struct {
	tip          model.ChainTip
	blocks       map[string]model.Block
	canonical    map[int64]string
	txs          map[string]model.Transaction
	outputs      map[string][]model.TxOutput
	inputs       map[string][]model.TxInput
	utxos        map[model.Outpoint]model.UTXO
	balances     map[string]model.AddressBalance
	history      map[string]map[int64]int64
	jobs         map[string]model.Job
	jobAddresses map[string][]string
	health       map[string]model.NodeHealth
}

func newState() *state {
	return &state{
		tip:          model.ChainTip{Height: -1},
		blocks:       make(map[string]model.Block),
		canonical:    make(map[int64]string),
		txs:          make(map[string]model.Transaction),
		outputs:      make(map[string][]model.TxOutput),
		inputs:       make(map[string][]model.TxInput),
		utxos:        make(map[model.Outpoint]model.UTXO),
		balances:     make(map[string]model.AddressBalance),
		history:      make(map[string]map[int64]int64),
		jobs:         make(map[string]model.Job),
		jobAddresses: make(map[string][]string),
		health:       make(map[string]model.NodeHealth),
	}
}

func (s *state) clone() *state {
	c := &state{
		tip:          s.tip,
		blocks:       cloneMap(s.blocks),
		canonical:    cloneMap(s.canonical),
		txs:          cloneMap(s.txs),
		outputs:      cloneMap(s.outputs),
		inputs:       cloneMap(s.inputs),
		utxos:        cloneMap(s.utxos),
		balances:     cloneMap(s.balances),
		history:      make(map[string]map[int64]int64, len(s.history)),
		jobs:         cloneMap(s.jobs),
		jobAddresses: cloneMap(s.jobAddresses),
		health:       cloneMap(s.health),
	}
	for address, rows := range s.history {
		c.history[address] = cloneMap(rows)
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) blockByHash(hash string) (model.Block, error) {
	b, ok := s.blocks[hash]
	if !ok {
		return model.Block{}, model.ErrNotFound
	}
	return b, nil
}

func (s *state) canonicalBlocksAbove(height int64) []model.Block {
	out := make([]model.Block, 0)
	for h, hash := range s.canonical {
		if h > height {
			out = append(out, s.blocks[hash])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Height > out[j].Height })
	return out
}

func (s *state) blockTransactions(blockHash string) []model.Transaction {
	out := make([]model.Transaction, 0)
	for _, tx := range s.txs {
		if tx.Status == model.TxConfirmed && tx.BlockHash != nil && *tx.BlockHash == blockHash {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].Position < *out[j].Position })
	return out
}
