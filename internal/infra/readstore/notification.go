package readstore

import (
	"context"
	"time"

	"groomdesk/internal/infra"
	"groomdesk/internal/infra/db"
	"groomdesk/internal/usecase/queries"
)

const dueNotificationJobsQuery = `
SELECT id, kind, payload, run_at, attempts, status, created_at
FROM notification_jobs
WHERE status = 'pending' AND run_at <= $1
ORDER BY run_at
LIMIT $2
`

type NotificationReadStore struct {
	db db.DBTX
}

func NewNotificationReadStore(db db.DBTX) *NotificationReadStore {
	return &NotificationReadStore{db: db}
}

func (r *NotificationReadStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*queries.NotificationJobView, error) {
	rows, err := r.db.Query(ctx, dueNotificationJobsQuery, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query due notification jobs", err)
	}
	defer rows.Close()

	var views []*queries.NotificationJobView
	for rows.Next() {
		var v queries.NotificationJobView
		if err := rows.Scan(&v.ID, &v.Kind, &v.Payload, &v.RunAt, &v.Attempts, &v.Status, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}
	return views, nil
}
