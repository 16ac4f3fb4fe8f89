package writerepo

import (
	"context"
	"time"

	"groomdesk/internal/infra"
	"groomdesk/internal/infra/db"

	"github.com/google/uuid"
)

const enqueueJobQuery = `
INSERT INTO notification_jobs (id, kind, payload, run_at, attempts, status, created_at)
VALUES ($1, $2, $3, $4, 0, 'pending', now())
`

const markJobDispatchedQuery = `
UPDATE notification_jobs SET status = 'dispatched', attempts = attempts + 1 WHERE id = $1
`

const markJobFailedQuery = `
UPDATE notification_jobs
SET attempts = attempts + 1,
    status = CASE WHEN attempts + 1 >= $2 THEN 'dead' ELSE 'pending' END,
    run_at = $3
WHERE id = $1
`

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, dbtx db.DBTX, kind string, payload []byte, runAt time.Time) error {
	if _, err := dbtx.Exec(ctx, enqueueJobQuery, uuid.New(), kind, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}

func (r *NotificationRepository) MarkDispatched(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, markJobDispatchedQuery, id); err != nil {
		return infra.WrapRepoErr("failed to mark job dispatched", err)
	}
	return nil
}

// MarkFailed bumps the attempt count and either reschedules the job or, at
// maxAttempts, parks it as dead.
func (r *NotificationRepository) MarkFailed(ctx context.Context, dbtx db.DBTX, id uuid.UUID, maxAttempts int, nextRun time.Time) error {
	if _, err := dbtx.Exec(ctx, markJobFailedQuery, id, maxAttempts, nextRun); err != nil {
		return infra.WrapRepoErr("failed to mark job failed", err)
	}
	return nil
}
