package repository

import (
	"context"
	"time"

	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

// Jobs that keep failing stop being retried once they hit this.
const maxJobAttempts = 5

type OutboxRepository struct{}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

const createCompletionJobSQL = `
INSERT INTO completion_jobs (topic, payload, status, run_at)
VALUES ($1, $2, 'queued', $3)
RETURNING id`

func (r *OutboxRepository) CreateJob(ctx context.Context, dbtx db.DBTX, topic string, payload []byte, runAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createCompletionJobSQL, topic, payload, runAt).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create completion job", err)
	}
	return id, nil
}

// SKIP LOCKED lets concurrent relays drain the queue without blocking on
// each other's claims.
const claimDueCompletionJobsSQL = `
SELECT id, topic, payload, attempts
FROM completion_jobs
WHERE status = 'queued' AND run_at <= $1
ORDER BY run_at
LIMIT $2
FOR UPDATE SKIP LOCKED`

func (r *OutboxRepository) ClaimDue(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]shared.CompletionJob, error) {
	rows, err := dbtx.Query(ctx, claimDueCompletionJobsSQL, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim completion jobs", err)
	}
	defer rows.Close()

	var jobs []shared.CompletionJob
	for rows.Next() {
		var job shared.CompletionJob
		if err := rows.Scan(&job.ID, &job.Topic, &job.Payload, &job.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan completion job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read completion jobs", err)
	}
	return jobs, nil
}

const markCompletionJobPublishedSQL = `
UPDATE completion_jobs SET
    status = 'published',
    last_error = NULL,
    updated_at = now()
WHERE id = $1`

func (r *OutboxRepository) MarkPublished(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, markCompletionJobPublishedSQL, jobID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark completion job published", err)
	}
	return nil
}

const markCompletionJobFailedSQL = `
UPDATE completion_jobs SET
    attempts = attempts + 1,
    last_error = $2,
    status = CASE WHEN attempts + 1 >= $4 THEN 'failed' ELSE 'queued' END,
    run_at = $3,
    updated_at = now()
WHERE id = $1`

func (r *OutboxRepository) MarkFailed(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID, cause string, retryAt time.Time) error {
	_, err := dbtx.Exec(ctx, markCompletionJobFailedSQL, jobID, cause, retryAt, maxJobAttempts)
	if err != nil {
		return infra.WrapRepoErr("failed to mark completion job failed", err)
	}
	return nil
}
