// Package query answers balance and UTXO lookups from the ledger.
package query

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		ChainTip(ctx context.Context) (model.ChainTip, error)
		AddressBalance(ctx context.Context, address string) (model.AddressBalance, error)
		AddressBalances(ctx context.Context, addresses []string) ([]model.AddressBalance, error)
		TopBalances(ctx context.Context, limit int) ([]model.AddressBalance, error)
		// BalanceAt returns the latest history row at or below height, or model.ErrNotFound.
		BalanceAt(ctx context.Context, address string, height int64) (model.BalanceSnapshot, error)
		UnspentOutputs(ctx context.Context, address string) ([]model.UTXO, error)
		Transaction(ctx context.Context, txid string) (model.Transaction, error)
		GetJob(ctx context.Context, jobID string) (model.Job, error)
		JobAddresses(ctx context.Context, jobID string) ([]string, error)
	}
)
