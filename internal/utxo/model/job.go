package model

import (
	"encoding/json"
	"time"
)

// JobMode selects which addresses a job reports on.
type JobMode string

var (
	JobAllAddresses JobMode = "all_addresses"
	JobAddressList  JobMode = "address_list"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

var (
	JobCreated   JobStatus = "created"
	JobRunning   JobStatus = "running"
	JobPaused    JobStatus = "paused"
	JobFailed    JobStatus = "failed"
	JobCompleted JobStatus = "completed"
)

// NoProgress is the progress height of a job that has not applied any block.
const NoProgress int64 = -1

// Job is a persisted indexing job.
type Job struct {
	ID             string
	Mode           JobMode
	Status         JobStatus
	ProgressHeight int64
	LastError      string
	ConfigSnapshot json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NextHeight returns the first height the job has not processed.
func (j Job) NextHeight() int64 {
	return j.ProgressHeight + 1
}

// JobConfig is a job definition loaded from configuration.
type JobConfig struct {
	JobID     string   `yaml:"job_id" json:"job_id"`
	Mode      JobMode  `yaml:"mode" json:"mode"`
	Enabled   bool     `yaml:"enabled" json:"enabled"`
	Addresses []string `yaml:"addresses,omitempty" json:"addresses,omitempty"`
	// StopHeight completes the job once reached. Zero means follow the tip forever.
	StopHeight int64 `yaml:"stop_height,omitempty" json:"stop_height,omitempty"`
}

// JobSummary pairs a job with the current ledger tip height.
type JobSummary struct {
	Job
	TipHeight *int64
}

// Config decodes the configuration snapshot the job was last synced with.
func (j Job) Config() (JobConfig, error) {
	var cfg JobConfig
	if len(j.ConfigSnapshot) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(j.ConfigSnapshot, &cfg); err != nil {
		return JobConfig{}, err
	}
	return cfg, nil
}
