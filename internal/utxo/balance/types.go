package balance

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Store is the balance tables as seen from inside a block unit transaction.
	Store interface {
		// LockAddressBalances returns current balances for the addresses, holding their rows.
		// Addresses without a row are absent from the result.
		LockAddressBalances(ctx context.Context, addresses []string) (map[string]int64, error)
		UpsertAddressBalances(ctx context.Context, balances []model.AddressBalance) error
		UpsertBalanceHistory(ctx context.Context, snapshots []model.BalanceSnapshot) error
		DeleteBalanceHistory(ctx context.Context, height int64) error
	}
)

// Clock returns the current time.
type Clock func() time.Time
