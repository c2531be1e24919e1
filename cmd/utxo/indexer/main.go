// Package main runs the reorg-aware UTXO ledger indexer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/metrics"
	rpcclient2 "github.com/goodnatureofminers/blockinsight7000-ledger/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/health"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/jobs"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	DatabaseDSN  string        `long:"database-dsn" env:"UTXO_INDEXER_DATABASE_DSN" description:"PostgreSQL DSN, or memory:// for a development-only in-process ledger (not persisted, copies the whole ledger per block)" required:"true"`
	DBMaxConns   int           `long:"db-max-conns" env:"UTXO_INDEXER_DB_MAX_CONNS" description:"maximum open database connections" default:"16"`
	Network      model.Network `long:"network" env:"UTXO_INDEXER_NETWORK" description:"bitcoin network" default:"mainnet" choice:"mainnet" choice:"testnet" choice:"signet" choice:"regtest"`
	RPCURL       string        `long:"rpc-url" env:"UTXO_INDEXER_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser      string        `long:"rpc-user" env:"UTXO_INDEXER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword  string        `long:"rpc-password" env:"UTXO_INDEXER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	RPCTimeout   time.Duration `long:"rpc-timeout" env:"UTXO_INDEXER_RPC_TIMEOUT" description:"timeout of a single RPC request" default:"30s"`
	RPCRateLimit int           `long:"rpc-rate-limit" env:"UTXO_INDEXER_RPC_RATE_LIMIT" description:"maximum RPC requests per second, 0 for unlimited" default:"0"`
	ZMQAddr      string        `long:"zmq-addr" env:"UTXO_INDEXER_ZMQ_ADDR" description:"zmq hashblock endpoint used to wake idle jobs"`

	JobsFile       string        `long:"jobs-file" env:"UTXO_INDEXER_JOBS_FILE" description:"YAML file with job definitions" required:"true"`
	MaxJobs        int           `long:"max-jobs" env:"UTXO_INDEXER_MAX_JOBS" description:"maximum concurrently running jobs" default:"4"`
	RPCParallelism int           `long:"rpc-parallelism" env:"UTXO_INDEXER_RPC_PARALLELISM" description:"parallel block fetches per job" default:"8"`
	BlocksPerBatch int64         `long:"blocks-per-batch" env:"UTXO_INDEXER_BLOCKS_PER_BATCH" description:"blocks fetched per job step" default:"100"`
	TipInterval    time.Duration `long:"tip-interval" env:"UTXO_INDEXER_TIP_INTERVAL" description:"job table poll interval" default:"5s"`
	IdleInterval   time.Duration `long:"idle-interval" env:"UTXO_INDEXER_IDLE_INTERVAL" description:"wait of an idle job before polling the node again" default:"10s"`
	ReorgDepth     int64         `long:"reorg-depth" env:"UTXO_INDEXER_REORG_DEPTH" description:"deepest reorg applied automatically" default:"100"`

	NodeID           string        `long:"node-id" env:"UTXO_INDEXER_NODE_ID" description:"node identifier in node_health" default:"primary"`
	HealthInterval   time.Duration `long:"health-interval" env:"UTXO_INDEXER_HEALTH_INTERVAL" description:"node health probe interval" default:"15s"`
	LatencyThreshold time.Duration `long:"latency-threshold" env:"UTXO_INDEXER_LATENCY_THRESHOLD" description:"probe latency above which the node is degraded" default:"2s"`
	StaleAfter       time.Duration `long:"stale-after" env:"UTXO_INDEXER_STALE_AFTER" description:"unchanged tip age after which the node is degraded" default:"30m"`

	MetricsAddr string `long:"metrics-addr" env:"UTXO_INDEXER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	GRPCAddr    string `long:"grpc-addr" env:"UTXO_INDEXER_GRPC_ADDR" description:"address for the grpc health server, empty to disable" default:":8000"`
	LogJSON     bool   `long:"log-json" env:"UTXO_INDEXER_LOG_JSON" description:"emit production JSON logs"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("utxo indexer failed", zap.Error(err))
	}
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	jobConfigs, err := loadJobs(cfg.JobsFile)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg.DatabaseDSN, cfg.DBMaxConns, logger)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close repository", zap.Error(err))
		}
	}()

	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()

	decoder, err := bitcoin.NewDecoder(cfg.Network)
	if err != nil {
		return fmt.Errorf("init decoder: %w", err)
	}
	var limiter bitcoin.Limiter
	if cfg.RPCRateLimit > 0 {
		limiter = ratelimit.New(cfg.RPCRateLimit)
	}
	node := bitcoin.NewNodeClient(
		rpcclient2.NewObservedClient(rpcClient, metrics.NewRPCClient(cfg.Network)),
		decoder,
		limiter,
		cfg.RPCTimeout,
	)

	tracker := chain.NewTracker(store, node, metrics.NewChainTracker(), logger, chain.WithMaxReorgDepth(cfg.ReorgDepth))
	engine := jobs.NewEngine(store, logger)
	if err := engine.SyncFromConfig(ctx, jobConfigs); err != nil {
		return fmt.Errorf("sync jobs: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("init block signal: %w", err)
	}

	supervisor, err := jobs.NewSupervisor(engine, store, tracker, node, metrics.NewJobWorker(), logger, jobs.Config{
		MaxJobs:        cfg.MaxJobs,
		Parallelism:    cfg.RPCParallelism,
		BlocksPerBatch: cfg.BlocksPerBatch,
		PollInterval:   cfg.TipInterval,
		IdleInterval:   cfg.IdleInterval,
	}, blockSignal)
	if err != nil {
		return fmt.Errorf("init job supervisor: %w", err)
	}

	healthServer := newHealthServer()
	monitor := health.NewMonitor(store, node, metrics.NewNodeHealth(), healthServer, logger, health.Config{
		NodeID:           cfg.NodeID,
		Interval:         cfg.HealthInterval,
		LatencyThreshold: cfg.LatencyThreshold,
		StaleAfter:       cfg.StaleAfter,
		Service:          healthService,
	})

	g.Go(func() error {
		return ignoreCanceled(supervisor.Run(ctx))
	})
	g.Go(func() error {
		return ignoreCanceled(monitor.Run(ctx))
	})
	g.Go(func() error {
		return serveMetrics(ctx, cfg.MetricsAddr, logger)
	})
	if cfg.GRPCAddr != "" {
		g.Go(func() error {
			return serveGRPC(ctx, cfg.GRPCAddr, healthServer, logger)
		})
	}

	logger.Info("utxo indexer started",
		zap.String("network", string(cfg.Network)),
		zap.Int("jobs", len(jobConfigs)),
		zap.Int("max_jobs", cfg.MaxJobs),
	)
	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
