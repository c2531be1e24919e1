package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/lib/pq"
)

const (
	jobColumns = `job_id, mode, status, progress_height, last_error, config_snapshot, created_at, updated_at`

	selectJobsQuery = `SELECT ` + jobColumns + ` FROM jobs ORDER BY job_id`

	selectJobQuery = `SELECT ` + jobColumns + ` FROM jobs WHERE job_id = $1`

	updateJobStatusQuery = `UPDATE jobs
SET status = $3, last_error = $4, updated_at = now()
WHERE job_id = $1 AND status = $2`

	jobExistsQuery = `SELECT EXISTS (SELECT 1 FROM jobs WHERE job_id = $1)`

	upsertJobQuery = `INSERT INTO jobs (job_id, mode, status, progress_height, config_snapshot)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (job_id) DO UPDATE SET mode = EXCLUDED.mode, config_snapshot = EXCLUDED.config_snapshot, updated_at = now()`

	deleteJobAddressesQuery = `DELETE FROM job_addresses WHERE job_id = $1`

	insertJobAddressesQuery = `INSERT INTO job_addresses (job_id, address)
SELECT $1, a FROM unnest($2::text[]) AS a
ON CONFLICT DO NOTHING`

	selectJobAddressesQuery = `SELECT address FROM job_addresses WHERE job_id = $1 ORDER BY address`

	saveJobProgressQuery = `UPDATE jobs SET progress_height = $2, updated_at = now() WHERE job_id = $1`
)

func (r *Repository) ListJobs(ctx context.Context) (jobs []model.Job, err error) {
	defer r.observe("list_jobs", time.Now(), &err)

	rows, err := r.q.QueryContext(ctx, selectJobsQuery)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	return collect(rows, func(rows *sql.Rows) (model.Job, error) {
		return scanJob(rows)
	})
}

func (r *Repository) GetJob(ctx context.Context, jobID string) (job model.Job, err error) {
	defer r.observe("get_job", time.Now(), &err)

	job, err = scanJob(r.q.QueryRowContext(ctx, selectJobQuery, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Job{}, model.ErrNotFound
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("query job %s: %w", jobID, err)
	}
	return job, nil
}

// UpdateJobStatus moves a job from one status to another only if it is still in from.
func (r *Repository) UpdateJobStatus(ctx context.Context, jobID string, from, to model.JobStatus, lastError string) (updated bool, err error) {
	defer r.observe("update_job_status", time.Now(), &err)

	res, err := r.q.ExecContext(ctx, updateJobStatusQuery, jobID, string(from), string(to), nullString(lastError))
	if err != nil {
		return false, fmt.Errorf("update job %s status: %w", jobID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update job %s status: rows affected: %w", jobID, err)
	}
	if n == 1 {
		return true, nil
	}

	var exists bool
	if err = r.q.QueryRowContext(ctx, jobExistsQuery, jobID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check job %s: %w", jobID, err)
	}
	if !exists {
		return false, model.ErrNotFound
	}
	return false, nil
}

// UpsertJob creates the job or refreshes its mode and configuration, keeping status and progress.
// The address list is replaced.
func (r *Repository) UpsertJob(ctx context.Context, job model.Job, addresses []string) (err error) {
	defer r.observe("upsert_job", time.Now(), &err)

	list, err := normalizeAddresses(job.ID, addresses)
	if err != nil {
		return err
	}
	status := job.Status
	if status == "" {
		status = model.JobCreated
	}
	snapshot := []byte(job.ConfigSnapshot)
	if len(snapshot) == 0 {
		snapshot = []byte("{}")
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertJobQuery,
			job.ID, string(job.Mode), string(status), job.ProgressHeight, snapshot,
		); err != nil {
			return fmt.Errorf("upsert job %s: %w", job.ID, err)
		}
		if _, err := tx.ExecContext(ctx, deleteJobAddressesQuery, job.ID); err != nil {
			return fmt.Errorf("clear job %s addresses: %w", job.ID, err)
		}
		if len(list) == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, insertJobAddressesQuery, job.ID, pq.Array(list)); err != nil {
			return fmt.Errorf("insert job %s addresses: %w", job.ID, err)
		}
		return nil
	})
}

func (r *Repository) JobAddresses(ctx context.Context, jobID string) (addresses []string, err error) {
	defer r.observe("job_addresses", time.Now(), &err)

	var exists bool
	if err = r.q.QueryRowContext(ctx, jobExistsQuery, jobID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check job %s: %w", jobID, err)
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	rows, err := r.q.QueryContext(ctx, selectJobAddressesQuery, jobID)
	if err != nil {
		return nil, fmt.Errorf("query job %s addresses: %w", jobID, err)
	}
	return collect(rows, func(rows *sql.Rows) (string, error) {
		var address string
		if err := rows.Scan(&address); err != nil {
			return "", fmt.Errorf("scan job address: %w", err)
		}
		return address, nil
	})
}

func (t *ledgerTx) SaveJobProgress(ctx context.Context, jobID string, height int64) (err error) {
	defer t.observe("save_job_progress", time.Now(), &err)

	res, err := t.q.ExecContext(ctx, saveJobProgressQuery, jobID, height)
	if err != nil {
		return fmt.Errorf("save job %s progress: %w", jobID, err)
	}
	return expectRows(res, 1, "job "+jobID)
}

func normalizeAddresses(jobID string, addresses []string) ([]string, error) {
	seen := make(map[string]struct{}, len(addresses))
	list := make([]string, 0, len(addresses))
	for _, address := range addresses {
		if address == "" {
			return nil, fmt.Errorf("job %s: empty address", jobID)
		}
		if _, dup := seen[address]; dup {
			continue
		}
		seen[address] = struct{}{}
		list = append(list, address)
	}
	sort.Strings(list)
	return list, nil
}

func scanJob(row scanner) (model.Job, error) {
	var (
		job       model.Job
		mode      string
		status    string
		lastError sql.NullString
		snapshot  []byte
	)
	if err := row.Scan(&job.ID, &mode, &status, &job.ProgressHeight, &lastError, &snapshot, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return model.Job{}, err
	}
	job.Mode = model.JobMode(mode)
	job.Status = model.JobStatus(status)
	job.LastError = lastError.String
	job.ConfigSnapshot = snapshot
	return job, nil
}
