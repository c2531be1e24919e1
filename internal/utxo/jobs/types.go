// Package jobs owns the job lifecycle and drives the chain tracker for running jobs.
package jobs

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		ListJobs(ctx context.Context) ([]model.Job, error)
		GetJob(ctx context.Context, jobID string) (model.Job, error)
		// UpdateJobStatus sets status to `to` only while the job is still in `from`.
		UpdateJobStatus(ctx context.Context, jobID string, from, to model.JobStatus, lastError string) (bool, error)
		UpsertJob(ctx context.Context, job model.Job, addresses []string) error
		ChainTip(ctx context.Context) (model.ChainTip, error)
		BlockByHash(ctx context.Context, hash string) (model.Block, error)
	}
	Tracker interface {
		Ingest(ctx context.Context, block *model.SourceBlock, hooks ...chain.CommitHook) (chain.Outcome, error)
	}
	Source interface {
		Tip(ctx context.Context) (model.NodeTip, error)
		BlockByHeight(ctx context.Context, height int64) (*model.SourceBlock, error)
	}
	Metrics interface {
		ObserveBlock(jobID string, height int64, err error, started time.Time)
		ObserveFailure(jobID string)
		ObserveRetry(jobID, operation string)
	}
)
