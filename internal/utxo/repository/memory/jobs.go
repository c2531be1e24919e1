package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

func (r *Repository) ListJobs(_ context.Context) ([]model.Job, error) {
	st := r.read()
	out := make([]model.Job, 0, len(st.jobs))
	for _, job := range st.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) GetJob(_ context.Context, jobID string) (model.Job, error) {
	job, ok := r.read().jobs[jobID]
	if !ok {
		return model.Job{}, model.ErrNotFound
	}
	return job, nil
}

// UpdateJobStatus moves a job from one status to another only if it is still in from.
func (r *Repository) UpdateJobStatus(_ context.Context, jobID string, from, to model.JobStatus, lastError string) (bool, error) {
	var updated bool
	err := r.write(func(st *state) error {
		job, ok := st.jobs[jobID]
		if !ok {
			return model.ErrNotFound
		}
		if job.Status != from {
			return nil
		}
		job.Status = to
		job.LastError = lastError
		job.UpdatedAt = r.now().UTC()
		st.jobs[jobID] = job
		updated = true
		return nil
	})
	return updated, err
}

// UpsertJob creates the job or refreshes its mode and configuration, keeping status and progress.
func (r *Repository) UpsertJob(_ context.Context, job model.Job, addresses []string) error {
	return r.write(func(st *state) error {
		now := r.now().UTC()
		existing, ok := st.jobs[job.ID]
		if ok {
			existing.Mode = job.Mode
			existing.ConfigSnapshot = job.ConfigSnapshot
			existing.UpdatedAt = now
			job = existing
		} else {
			if job.Status == "" {
				job.Status = model.JobCreated
			}
			job.CreatedAt = now
			job.UpdatedAt = now
		}
		st.jobs[job.ID] = job

		unique := make(map[string]struct{}, len(addresses))
		list := make([]string, 0, len(addresses))
		for _, address := range addresses {
			if address == "" {
				return fmt.Errorf("job %s: empty address", job.ID)
			}
			if _, dup := unique[address]; dup {
				continue
			}
			unique[address] = struct{}{}
			list = append(list, address)
		}
		sort.Strings(list)
		st.jobAddresses[job.ID] = list
		return nil
	})
}

func (r *Repository) JobAddresses(_ context.Context, jobID string) ([]string, error) {
	st := r.read()
	if _, ok := st.jobs[jobID]; !ok {
		return nil, model.ErrNotFound
	}
	return append([]string(nil), st.jobAddresses[jobID]...), nil
}
