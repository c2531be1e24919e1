package utxoset

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Store is the UTXO table as seen from inside a block unit transaction.
	Store interface {
		// LockUTXO returns the entry and holds it for the rest of the transaction.
		LockUTXO(ctx context.Context, outpoint model.Outpoint) (model.UTXO, error)
		InsertUTXO(ctx context.Context, utxo model.UTXO) error
		UpdateUTXOSpend(ctx context.Context, outpoint model.Outpoint, status model.UTXOStatus, spendingTxID string) error
		DeleteUTXO(ctx context.Context, outpoint model.Outpoint) error
	}
)
