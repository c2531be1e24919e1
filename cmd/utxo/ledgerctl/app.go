package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/jobs"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/query"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/repository/postgres"
	"go.uber.org/zap"
)

const dsnEnv = "LEDGERCTL_DATABASE_DSN"

type ledger interface {
	query.Store
	jobs.Store
}

type app struct {
	out      io.Writer
	dsn      string
	topLimit int
	verbose  bool
	open     func(ctx context.Context, dsn string) (ledger, func() error, error)

	engine *jobs.Engine
	query  *query.Service
	close  func() error
}

func newApp(out io.Writer) *app {
	return &app{
		out:  out,
		dsn:  os.Getenv(dsnEnv),
		open: openPostgres,
	}
}

func openPostgres(ctx context.Context, dsn string) (ledger, func() error, error) {
	repo, err := postgres.NewRepository(ctx, dsn, metrics.NewPostgresRepository(), postgres.WithMaxOpenConns(2))
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}

func (a *app) connect(ctx context.Context) error {
	if a.dsn == "" {
		return errors.New("database dsn is required (--database-dsn or " + dsnEnv + ")")
	}
	store, closeStore, err := a.open(ctx, a.dsn)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	logger := zap.NewNop()
	if a.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			_ = closeStore()
			return fmt.Errorf("init logger: %w", err)
		}
	}
	a.engine = jobs.NewEngine(store, logger)
	a.query = query.NewService(store, a.topLimit)
	a.close = closeStore
	return nil
}

func (a *app) disconnect() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
