package shared

import (
	"context"

	"groomdesk/internal/infra/db"
)

// UnitOfWork runs a function inside a database transaction. The booking
// commit path relies on Within for its re-check-and-write discipline: the
// appointment snapshot is re-fetched and the overlap guard re-run inside the
// same transaction that persists the booking.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
	WithDB(ctx context.Context, fn func(ctx context.Context, dbx db.DBTX) error) error
}
