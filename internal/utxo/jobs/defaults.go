package jobs

import "time"

const (
	defaultMaxJobs        = 4
	defaultParallelism    = 8
	defaultBlocksPerBatch = 100

	defaultPollInterval = 5 * time.Second
	defaultIdleInterval = 10 * time.Second

	defaultRetryInitial = 500 * time.Millisecond
	defaultRetryMax     = 30 * time.Second
	defaultRetries      = 8
)
