package queries

import (
	"context"
	"time"

	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/infra"
	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type GetSlotsInput struct {
	LocationID    uuid.UUID
	ServiceItemID uuid.UUID
	Date          time.Time
	StaffID       *uuid.UUID
	Limit         int
}

type AvailabilityQueries interface {
	GetSlots(ctx context.Context, in GetSlotsInput) ([]SlotView, error)
}

type availabilityQueriesImpl struct {
	engine    *scheduling.Engine
	snapshots SnapshotReader
	services  ServiceItemReader
	maxSlots  int
}

func NewAvailabilityQueries(
	engine *scheduling.Engine,
	snapshots SnapshotReader,
	services ServiceItemReader,
	maxSlots int,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		engine:    engine,
		snapshots: snapshots,
		services:  services,
		maxSlots:  maxSlots,
	}
}

func (q *availabilityQueriesImpl) GetSlots(ctx context.Context, in GetSlotsInput) ([]SlotView, error) {
	item, err := q.services.FindByID(ctx, in.ServiceItemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrServiceItemNotFound)
		}
		return nil, errs.Wrap(err, "failed to load service item")
	}

	snap, err := q.snapshots.Snapshot(ctx, in.LocationID, in.Date)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrLocationNotFound)
		}
		return nil, errs.Wrap(err, "failed to load scheduling snapshot")
	}

	iter, err := q.engine.EnumerateSlots(in.Date, snap, item, in.StaffID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to enumerate slots")
	}

	limit := q.maxSlots
	if in.Limit > 0 && in.Limit < limit {
		limit = in.Limit
	}

	slots := iter.Collect(limit)
	views := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, SlotView{StaffID: s.StaffID, Start: s.Start, End: s.End})
	}
	return views, nil
}
