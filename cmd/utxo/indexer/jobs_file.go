package main

import (
	"fmt"
	"os"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/jobs"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"gopkg.in/yaml.v3"
)

type jobsFile struct {
	Jobs []model.JobConfig `yaml:"jobs"`
}

func loadJobs(path string) ([]model.JobConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}
	return parseJobs(raw)
}

func parseJobs(raw []byte) ([]model.JobConfig, error) {
	var file jobsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode jobs file: %w", err)
	}
	if err := jobs.ValidateConfigs(file.Jobs); err != nil {
		return nil, fmt.Errorf("invalid jobs file: %w", err)
	}
	return file.Jobs, nil
}
