package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"go.uber.org/zap"
)

// Engine is the only writer of job status. Every transition is validated against the
// lifecycle table and persisted with a compare-and-set on the status it was validated from.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine constructs an Engine.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.Named("job_engine"),
	}
}

// List returns all jobs together with the ledger tip height.
func (e *Engine) List(ctx context.Context) ([]model.JobSummary, error) {
	jobs, err := e.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	tip, err := e.store.ChainTip(ctx)
	if err != nil {
		return nil, fmt.Errorf("read chain tip: %w", err)
	}

	var tipHeight *int64
	if !tip.Empty() {
		height := tip.Height
		tipHeight = &height
	}

	out := make([]model.JobSummary, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, model.JobSummary{Job: job, TipHeight: tipHeight})
	}
	return out, nil
}

// Get returns one job.
func (e *Engine) Get(ctx context.Context, jobID string) (model.Job, error) {
	job, err := e.store.GetJob(ctx, jobID)
	if err != nil {
		return model.Job{}, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job, nil
}

func (e *Engine) Start(ctx context.Context, jobID string) (model.Job, error) {
	return e.transition(ctx, jobID, ActionStart, "")
}

func (e *Engine) Stop(ctx context.Context, jobID string) (model.Job, error) {
	return e.transition(ctx, jobID, ActionStop, "")
}

func (e *Engine) Pause(ctx context.Context, jobID string) (model.Job, error) {
	return e.transition(ctx, jobID, ActionPause, "")
}

func (e *Engine) Resume(ctx context.Context, jobID string) (model.Job, error) {
	return e.transition(ctx, jobID, ActionResume, "")
}

func (e *Engine) Retry(ctx context.Context, jobID string) (model.Job, error) {
	return e.transition(ctx, jobID, ActionRetry, "")
}

// Transition applies a lifecycle action by name.
func (e *Engine) Transition(ctx context.Context, jobID string, action Action) (model.Job, error) {
	switch action {
	case ActionStart, ActionStop, ActionPause, ActionResume, ActionRetry:
		return e.transition(ctx, jobID, action, "")
	default:
		job, err := e.Get(ctx, jobID)
		if err != nil {
			return model.Job{}, err
		}
		return model.Job{}, &model.TransitionError{JobID: jobID, From: job.Status, Action: string(action)}
	}
}

// MarkFailed moves a running job to failed and records cause. Committed progress is kept.
func (e *Engine) MarkFailed(ctx context.Context, jobID string, cause error) (model.Job, error) {
	return e.transition(ctx, jobID, actionFail, cause.Error())
}

// Complete moves a running job that reached its stop height to completed.
func (e *Engine) Complete(ctx context.Context, jobID string) (model.Job, error) {
	return e.transition(ctx, jobID, actionComplete, "")
}

func (e *Engine) transition(ctx context.Context, jobID string, action Action, lastError string) (model.Job, error) {
	job, err := e.Get(ctx, jobID)
	if err != nil {
		return model.Job{}, err
	}

	to, err := nextStatus(ctx, job.Status, action)
	if err != nil {
		return model.Job{}, &model.TransitionError{JobID: jobID, From: job.Status, Action: string(action)}
	}

	ok, err := e.store.UpdateJobStatus(ctx, jobID, job.Status, to, lastError)
	if err != nil {
		return model.Job{}, fmt.Errorf("update job %s status: %w", jobID, err)
	}
	if !ok {
		// The job changed status after it was read.
		return model.Job{}, &model.TransitionError{JobID: jobID, From: job.Status, Action: string(action)}
	}

	e.logger.Info("job transitioned",
		zap.String("job_id", jobID),
		zap.String("action", string(action)),
		zap.String("from", string(job.Status)),
		zap.String("to", string(to)),
	)
	return e.Get(ctx, jobID)
}

// SyncFromConfig creates or refreshes jobs from configuration. Existing status and progress
// are preserved; enabled jobs that were never started are started.
func (e *Engine) SyncFromConfig(ctx context.Context, configs []model.JobConfig) error {
	if err := ValidateConfigs(configs); err != nil {
		return err
	}

	for _, cfg := range configs {
		snapshot, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode job %s config: %w", cfg.JobID, err)
		}

		var addresses []string
		if cfg.Mode == model.JobAddressList {
			addresses = cfg.Addresses
		}
		job := model.Job{
			ID:             cfg.JobID,
			Mode:           cfg.Mode,
			Status:         model.JobCreated,
			ProgressHeight: model.NoProgress,
			ConfigSnapshot: snapshot,
		}
		if err := e.store.UpsertJob(ctx, job, addresses); err != nil {
			return fmt.Errorf("upsert job %s: %w", cfg.JobID, err)
		}

		if !cfg.Enabled {
			continue
		}
		_, err = e.Start(ctx, cfg.JobID)
		var transition *model.TransitionError
		switch {
		case errors.As(err, &transition):
			e.logger.Debug("enabled job not started", zap.String("job_id", cfg.JobID), zap.String("status", string(transition.From)))
		case err != nil:
			return err
		}
	}
	return nil
}

// ValidateConfigs checks job definitions before they are synced.
func ValidateConfigs(configs []model.JobConfig) error {
	seen := make(map[string]struct{}, len(configs))
	for i, cfg := range configs {
		if cfg.JobID == "" {
			return fmt.Errorf("job %d: job_id is required", i)
		}
		if _, dup := seen[cfg.JobID]; dup {
			return fmt.Errorf("job %s: duplicate job_id", cfg.JobID)
		}
		seen[cfg.JobID] = struct{}{}

		switch cfg.Mode {
		case model.JobAllAddresses:
		case model.JobAddressList:
			if len(cfg.Addresses) == 0 {
				return fmt.Errorf("job %s: address_list mode requires addresses", cfg.JobID)
			}
			for _, address := range cfg.Addresses {
				if address == "" {
					return fmt.Errorf("job %s: empty address", cfg.JobID)
				}
			}
		default:
			return fmt.Errorf("job %s: unknown mode %q", cfg.JobID, cfg.Mode)
		}
		if cfg.StopHeight < 0 {
			return fmt.Errorf("job %s: negative stop_height", cfg.JobID)
		}
	}
	return nil
}
