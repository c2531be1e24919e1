package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

const defaultTopLimit = 100

// Service serves read-only ledger queries.
type Service struct {
	store    Store
	topLimit int
}

// NewService constructs a Service. topLimit bounds balances returned for all_addresses jobs.
func NewService(store Store, topLimit int) *Service {
	if topLimit <= 0 {
		topLimit = defaultTopLimit
	}
	return &Service{store: store, topLimit: topLimit}
}

// Tip returns the current canonical tip.
func (s *Service) Tip(ctx context.Context) (model.ChainTip, error) {
	return s.store.ChainTip(ctx)
}

// Balance returns the current balance of address. Unknown addresses have a zero balance.
func (s *Service) Balance(ctx context.Context, address string) (model.AddressBalance, error) {
	if address == "" {
		return model.AddressBalance{}, errors.New("address is required")
	}
	b, err := s.store.AddressBalance(ctx, address)
	if errors.Is(err, model.ErrNotFound) {
		return model.AddressBalance{Address: address}, nil
	}
	if err != nil {
		return model.AddressBalance{}, fmt.Errorf("balance of %s: %w", address, err)
	}
	return b, nil
}

// BalanceAt returns the balance of address as of the canonical block at height.
func (s *Service) BalanceAt(ctx context.Context, address string, height int64) (model.BalanceSnapshot, error) {
	if address == "" {
		return model.BalanceSnapshot{}, errors.New("address is required")
	}
	if height < 0 {
		return model.BalanceSnapshot{}, fmt.Errorf("negative height %d", height)
	}
	tip, err := s.store.ChainTip(ctx)
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("read chain tip: %w", err)
	}
	if tip.Empty() || height > tip.Height {
		return model.BalanceSnapshot{}, fmt.Errorf("height %d above chain tip %d: %w", height, tip.Height, model.ErrNotFound)
	}

	snapshot, err := s.store.BalanceAt(ctx, address, height)
	if errors.Is(err, model.ErrNotFound) {
		return model.BalanceSnapshot{Address: address, Height: height}, nil
	}
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("balance of %s at %d: %w", address, height, err)
	}
	snapshot.Height = height
	return snapshot, nil
}

// UTXOs returns the unspent outputs paying address.
func (s *Service) UTXOs(ctx context.Context, address string) ([]model.UTXO, error) {
	if address == "" {
		return nil, errors.New("address is required")
	}
	utxos, err := s.store.UnspentOutputs(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("utxos of %s: %w", address, err)
	}
	return utxos, nil
}

// Transaction returns a stored transaction.
func (s *Service) Transaction(ctx context.Context, txid string) (model.Transaction, error) {
	tx, err := s.store.Transaction(ctx, txid)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", txid, err)
	}
	return tx, nil
}

// JobBalances returns the balances in scope of a job: its address list, or the largest
// balances for all_addresses jobs.
func (s *Service) JobBalances(ctx context.Context, jobID string) ([]model.AddressBalance, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}

	if job.Mode == model.JobAllAddresses {
		balances, err := s.store.TopBalances(ctx, s.topLimit)
		if err != nil {
			return nil, fmt.Errorf("top balances: %w", err)
		}
		return balances, nil
	}

	addresses, err := s.store.JobAddresses(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("addresses of job %s: %w", jobID, err)
	}
	stored, err := s.store.AddressBalances(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("balances of job %s: %w", jobID, err)
	}

	byAddress := make(map[string]model.AddressBalance, len(stored))
	for _, b := range stored {
		byAddress[b.Address] = b
	}
	out := make([]model.AddressBalance, 0, len(addresses))
	for _, address := range addresses {
		b, ok := byAddress[address]
		if !ok {
			b = model.AddressBalance{Address: address}
		}
		out = append(out, b)
	}
	return out, nil
}
