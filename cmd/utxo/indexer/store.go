package main

import (
	"context"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/health"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/jobs"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/repository/memory"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/repository/postgres"
	"go.uber.org/zap"
)

const memoryDSN = "memory://"

type ledgerStore interface {
	chain.Store
	jobs.Store
	health.Store
}

// openStore returns the ledger for dsn and a function releasing it.
// The memory ledger copies its whole state per block unit and is meant for development only.
func openStore(ctx context.Context, dsn string, maxConns int, logger *zap.Logger) (ledgerStore, func() error, error) {
	if strings.HasPrefix(dsn, memoryDSN) {
		logger.Warn("using in-process memory ledger: development only, state is lost on exit and every block copies the whole ledger")
		return memory.New(), func() error { return nil }, nil
	}

	repo, err := postgres.NewRepository(ctx, dsn, metrics.NewPostgresRepository(), postgres.WithMaxOpenConns(maxConns))
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}
