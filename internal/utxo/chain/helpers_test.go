package chain_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNode struct {
	mu      sync.Mutex
	blocks  map[string]*model.SourceBlock
	lookups map[string]model.TxLookup
}

func newFakeNode(blocks ...*model.SourceBlock) *fakeNode {
	n := &fakeNode{blocks: make(map[string]*model.SourceBlock), lookups: make(map[string]model.TxLookup)}
	n.add(blocks...)
	return n
}

func (n *fakeNode) add(blocks ...*model.SourceBlock) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, b := range blocks {
		n.blocks[b.Block.Hash] = b
	}
}

func (n *fakeNode) BlockByHash(_ context.Context, hash string) (*model.SourceBlock, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	b, ok := n.blocks[hash]
	if !ok {
		return nil, &model.TransientNodeError{Op: "getblock", Err: fmt.Errorf("block %s not found", hash)}
	}
	return b, nil
}

func (n *fakeNode) LookupTransaction(_ context.Context, txid string) (model.TxLookup, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lookups[txid], nil
}

type out struct {
	address string
	value   int64
}

func coinbase(txid string, outs ...out) model.DecodedTx {
	tx := model.DecodedTx{
		TxID:     txid,
		Coinbase: true,
		Inputs:   []model.TxInput{{TxID: txid, Vin: 0, Coinbase: true}},
	}
	tx.Outputs = outputs(txid, outs)
	return tx
}

func spend(txid string, prev []model.Outpoint, outs ...out) model.DecodedTx {
	tx := model.DecodedTx{TxID: txid}
	for i, p := range prev {
		tx.Inputs = append(tx.Inputs, model.TxInput{TxID: txid, Vin: uint32(i), PrevTxID: p.TxID, PrevVout: p.Vout})
	}
	tx.Outputs = outputs(txid, outs)
	return tx
}

func outputs(txid string, outs []out) []model.TxOutput {
	res := make([]model.TxOutput, 0, len(outs))
	for i, o := range outs {
		res = append(res, model.TxOutput{
			TxID:       txid,
			Vout:       uint32(i),
			Value:      o.value,
			ScriptType: "pubkeyhash",
			Address:    o.address,
			ScriptHex:  "76a914",
		})
	}
	return res
}

func op(txid string, vout uint32) model.Outpoint {
	return model.Outpoint{TxID: txid, Vout: vout}
}

func block(height int64, hash, prev string, txs ...model.DecodedTx) *model.SourceBlock {
	return &model.SourceBlock{
		Block: model.Block{Height: height, Hash: hash, PrevHash: prev, Time: 1_600_000_000 + height*600},
		Txs:   txs,
	}
}

func newTracker(repo chain.Store, node chain.Source, opts ...chain.Option) *chain.Tracker {
	return chain.NewTracker(repo, node, metrics.NewChainTracker(), zap.NewNop(), opts...)
}

func ingestAll(t *testing.T, tracker *chain.Tracker, blocks ...*model.SourceBlock) {
	t.Helper()
	for _, b := range blocks {
		_, err := tracker.Ingest(context.Background(), b)
		require.NoError(t, err, "ingest %s", b.Block.Hash)
	}
}

// ledgerView is the observable ledger state compared across scenarios.
type ledgerView struct {
	Tip      model.ChainTip
	UTXOs    []model.UTXO
	Balances map[string]int64
	History  map[string]map[int64]int64
}

func view(t *testing.T, repo *memory.Repository, addresses ...string) ledgerView {
	t.Helper()
	ctx := context.Background()

	tip, err := repo.ChainTip(ctx)
	require.NoError(t, err)
	utxos, err := repo.AllUTXOs(ctx)
	require.NoError(t, err)
	sort.Slice(utxos, func(i, j int) bool { return utxos[i].Outpoint.String() < utxos[j].Outpoint.String() })

	balances, err := repo.AllBalances(ctx)
	require.NoError(t, err)
	tip.Version = 0
	v := ledgerView{Tip: tip, UTXOs: utxos, Balances: map[string]int64{}, History: map[string]map[int64]int64{}}
	for _, b := range balances {
		if b.Balance != 0 {
			v.Balances[b.Address] = b.Balance
		}
	}
	for _, address := range addresses {
		h, err := repo.BalanceHistory(ctx, address)
		require.NoError(t, err)
		v.History[address] = h
	}
	return v
}

// requireConservation checks that per-address balances equal the unspent outputs they own.
func requireConservation(t *testing.T, repo *memory.Repository) {
	t.Helper()
	ctx := context.Background()

	utxos, err := repo.AllUTXOs(ctx)
	require.NoError(t, err)
	owned := map[string]int64{}
	for _, u := range utxos {
		if u.Status == model.UTXOUnspent && u.Address != "" {
			owned[u.Address] += u.Value
		}
	}

	balances, err := repo.AllBalances(ctx)
	require.NoError(t, err)
	for _, b := range balances {
		require.GreaterOrEqual(t, b.Balance, int64(0))
		require.Equal(t, owned[b.Address], b.Balance, "balance of %s", b.Address)
		delete(owned, b.Address)
	}
	for address, value := range owned {
		require.Zero(t, value, "address %s owns outputs without a balance row", address)
	}
}
