// Package memory is an in-process ledger store for development and tests.
// It enforces the same constraints as the relational schema. Every block unit
// copies the whole state, so cost grows with ledger size; use postgres for real chains.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

// Repository holds the ledger in memory. Block units run against a private copy of the
// state that replaces the shared one on commit, so a failed unit leaves no trace.
type Repository struct {
	// writeMu serializes writers, standing in for the chain tip row lock.
	writeMu sync.Mutex
	mu      sync.RWMutex
	st      *state
	now     func() time.Time
}

// Option customizes a Repository.
type Option func(*Repository)

// WithNow sets the clock used for job timestamps.
func WithNow(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// New creates an empty Repository.
func New(opts ...Option) *Repository {
	r := &Repository{st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InTx runs fn against a copy of the ledger and publishes the copy when fn succeeds.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context, tx chain.Tx) error) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	work := r.st.clone()
	r.mu.RUnlock()

	if err := fn(ctx, &ledgerTx{st: work, now: r.now}); err != nil {
		return err
	}

	r.mu.Lock()
	r.st = work
	r.mu.Unlock()
	return nil
}

// write applies fn to the shared state outside a block unit.
func (r *Repository) write(fn func(st *state) error) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.RLock()
	work := r.st.clone()
	r.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}

	r.mu.Lock()
	r.st = work
	r.mu.Unlock()
	return nil
}

func (r *Repository) read() *state {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.st
}

func (r *Repository) ChainTip(_ context.Context) (model.ChainTip, error) {
	return r.read().tip, nil
}

func (r *Repository) BlockByHash(_ context.Context, hash string) (model.Block, error) {
	return r.read().blockByHash(hash)
}

func (r *Repository) CanonicalBlocksAbove(_ context.Context, height int64) ([]model.Block, error) {
	return r.read().canonicalBlocksAbove(height), nil
}

func (r *Repository) BlockTransactions(_ context.Context, blockHash string) ([]model.Transaction, error) {
	return r.read().blockTransactions(blockHash), nil
}
