// Package chain decides canonical chain membership and applies or undoes block units.
package chain

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/balance"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/utxoset"
)

type (
	// Source is the node view needed to resolve forks.
	Source interface {
		BlockByHash(ctx context.Context, hash string) (*model.SourceBlock, error)
		LookupTransaction(ctx context.Context, txid string) (model.TxLookup, error)
	}

	// Reader exposes the ledger reads used while planning a block unit.
	Reader interface {
		ChainTip(ctx context.Context) (model.ChainTip, error)
		// BlockByHash returns model.ErrNotFound for unknown blocks.
		BlockByHash(ctx context.Context, hash string) (model.Block, error)
		// CanonicalBlocksAbove returns canonical blocks with height > height, highest first.
		CanonicalBlocksAbove(ctx context.Context, height int64) ([]model.Block, error)
		// BlockTransactions returns the confirmed transactions of a block in block order.
		BlockTransactions(ctx context.Context, blockHash string) ([]model.Transaction, error)
	}

	// Tx is one block unit transaction. Everything written through it commits or rolls back together.
	Tx interface {
		Reader
		utxoset.Store
		balance.Store

		// LockChainTip reads the tip and holds it until the transaction ends.
		LockChainTip(ctx context.Context) (model.ChainTip, error)
		SetChainTip(ctx context.Context, tip model.ChainTip) error
		UpsertBlock(ctx context.Context, block model.Block) error
		SetBlockStatus(ctx context.Context, hash string, status model.BlockStatus) error
		UpsertTransaction(ctx context.Context, tx model.Transaction) error
		// SetTransactionStatus moves a transaction off the chain, clearing its block linkage.
		SetTransactionStatus(ctx context.Context, txid string, status model.TxStatus) error
		InsertTransactionOutputs(ctx context.Context, outputs []model.TxOutput) error
		InsertTransactionInputs(ctx context.Context, inputs []model.TxInput) error
		TransactionOutputs(ctx context.Context, txid string) ([]model.TxOutput, error)
		TransactionInputs(ctx context.Context, txid string) ([]model.TxInput, error)
		SaveJobProgress(ctx context.Context, jobID string, height int64) error
	}

	// Store is the transactional ledger storage.
	Store interface {
		Reader
		// InTx runs fn in a transaction committed only when fn returns nil.
		InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	}

	// Metrics records tracker outcomes.
	Metrics interface {
		ObserveIngest(outcome string, err error, started time.Time)
		ObserveReorg(depth int64)
	}

	// CommitHook runs inside the block unit transaction after the tip is updated.
	CommitHook func(ctx context.Context, tx Tx, tip model.ChainTip) error
)

// OutcomeKind classifies how a block was handled.
type OutcomeKind string

const (
	OutcomeExtend    OutcomeKind = "extend"
	OutcomeReorg     OutcomeKind = "reorg"
	OutcomeDuplicate OutcomeKind = "duplicate"
)

// Outcome describes a committed block unit.
type Outcome struct {
	Kind       OutcomeKind
	Tip        model.ChainTip
	ForkHeight int64
	Undone     int
	Applied    int
}
