package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config tunes the supervisor and its workers.
type Config struct {
	MaxJobs        int
	Parallelism    int
	BlocksPerBatch int64
	PollInterval   time.Duration
	IdleInterval   time.Duration
	Retry          RetryPolicy
}

func (c Config) withDefaults() Config {
	if c.MaxJobs <= 0 {
		c.MaxJobs = defaultMaxJobs
	}
	if c.Parallelism <= 0 {
		c.Parallelism = defaultParallelism
	}
	if c.BlocksPerBatch <= 0 {
		c.BlocksPerBatch = defaultBlocksPerBatch
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = defaultIdleInterval
	}
	if c.Retry == (RetryPolicy{}) {
		c.Retry = DefaultRetryPolicy()
	}
	return c
}

type runner interface {
	Run(ctx context.Context) error
}

// Supervisor polls the job table and keeps one worker per running job, up to MaxJobs.
type Supervisor struct {
	engine  *Engine
	store   Store
	tracker Tracker
	source  Source
	metrics Metrics
	logger  *zap.Logger
	cfg     Config
	sleep   func(context.Context, time.Duration) error
	signal  <-chan struct{}

	newWorker func(jobID string, wake <-chan struct{}) runner

	mu     sync.Mutex
	active map[string]chan struct{}
}

// NewSupervisor builds a Supervisor. blockSignal may be nil; when set, each receive wakes idle workers.
func NewSupervisor(
	engine *Engine,
	store Store,
	tracker Tracker,
	source Source,
	metrics Metrics,
	logger *zap.Logger,
	cfg Config,
	blockSignal <-chan struct{},
) (*Supervisor, error) {
	if metrics == nil {
		return nil, errors.New("job worker metrics is required")
	}
	s := &Supervisor{
		engine:  engine,
		store:   store,
		tracker: tracker,
		source:  source,
		metrics: metrics,
		logger:  logger.Named("job_supervisor"),
		cfg:     cfg.withDefaults(),
		sleep:   clock.SleepWithContext,
		signal:  blockSignal,
		active:  make(map[string]chan struct{}),
	}
	s.newWorker = s.worker
	return s, nil
}

func (s *Supervisor) worker(jobID string, wake <-chan struct{}) runner {
	return &Worker{
		jobID:          jobID,
		engine:         s.engine,
		store:          s.store,
		tracker:        s.tracker,
		source:         s.source,
		metrics:        s.metrics,
		logger:         s.logger.With(zap.String("job_id", jobID)),
		policy:         s.cfg.Retry,
		blocksPerBatch: s.cfg.BlocksPerBatch,
		parallelism:    s.cfg.Parallelism,
		idleInterval:   s.cfg.IdleInterval,
		sleep:          clock.Waiter(wake),
	}
}

// Run supervises workers until ctx is canceled, then waits for them to finish their current block unit.
func (s *Supervisor) Run(ctx context.Context) error {
	var workers errgroup.Group
	workers.SetLimit(s.cfg.MaxJobs)
	defer func() {
		_ = workers.Wait()
	}()

	if s.signal != nil {
		go s.fanOut(ctx)
	}

	for {
		if err := s.reconcile(ctx, &workers); err != nil {
			s.logger.Warn("reconcile jobs failed", zap.Error(err))
		}
		if err := s.sleep(ctx, s.cfg.PollInterval); err != nil {
			return err
		}
	}
}

func (s *Supervisor) reconcile(ctx context.Context, workers *errgroup.Group) error {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if job.Status != model.JobRunning || s.isActive(job.ID) {
			continue
		}

		jobID := job.ID
		wake := make(chan struct{}, 1)
		s.setActive(jobID, wake)
		w := s.newWorker(jobID, wake)
		started := workers.TryGo(func() error {
			defer s.clearActive(jobID)
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Warn("job worker exited", zap.String("job_id", jobID), zap.Error(err))
			}
			return nil
		})
		if !started {
			s.clearActive(jobID)
			s.logger.Debug("worker limit reached", zap.String("job_id", jobID), zap.Int("max_jobs", s.cfg.MaxJobs))
			return nil
		}
		s.logger.Info("job worker scheduled", zap.String("job_id", jobID))
	}
	return nil
}

// fanOut forwards block signals to every active worker without blocking.
func (s *Supervisor) fanOut(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-s.signal:
			if !ok {
				return
			}
			s.mu.Lock()
			for _, wake := range s.active {
				select {
				case wake <- struct{}{}:
				default:
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *Supervisor) isActive(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[jobID]
	return ok
}

func (s *Supervisor) setActive(jobID string, wake chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[jobID] = wake
}

func (s *Supervisor) clearActive(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, jobID)
}

// ActiveJobs returns the number of running workers.
func (s *Supervisor) ActiveJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
