package commands

import (
	"context"
	"encoding/json"
	"time"

	"groomdesk/internal/domain/appointment"
	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/infra"
	"groomdesk/internal/infra/db"
	"groomdesk/internal/pkg/clock"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/queries"
	"groomdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	notificationKindConfirmation = "appointment_confirmation"
	notificationKindCancellation = "appointment_cancellation"
)

type BookInput struct {
	CompanyID     uuid.UUID
	LocationID    uuid.UUID
	ServiceItemID uuid.UUID
	StaffID       *uuid.UUID
	CustomerRef   string
	Date          time.Time
	Start         scheduling.MinuteOfDay
}

type BookOutput struct {
	AppointmentID uuid.UUID
	StaffID       uuid.UUID
	Start         time.Time
	End           time.Time
}

type BookingCommands interface {
	Book(ctx context.Context, in BookInput) (*BookOutput, error)
	CheckIn(ctx context.Context, id uuid.UUID) error
	StartService(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
}

type bookingCommandsImpl struct {
	engine        *scheduling.Engine
	guard         *scheduling.Guard
	uow           shared.UnitOfWork
	snapshots     queries.SnapshotReader
	services      queries.ServiceItemReader
	appointments  AppointmentWriter
	notifications NotificationWriter
	clk           clock.Clock
}

func NewBookingCommands(
	engine *scheduling.Engine,
	guard *scheduling.Guard,
	uow shared.UnitOfWork,
	snapshots queries.SnapshotReader,
	services queries.ServiceItemReader,
	appointments AppointmentWriter,
	notifications NotificationWriter,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		engine:        engine,
		guard:         guard,
		uow:           uow,
		snapshots:     snapshots,
		services:      services,
		appointments:  appointments,
		notifications: notifications,
		clk:           clk,
	}
}

// Book runs the optimistic two-phase flow: a pre-check against a fresh
// snapshot outside the transaction, then a locked re-check and insert inside
// it. A conflict that appears between the two phases surfaces as
// CommitConflictError rather than a double booking.
func (c *bookingCommandsImpl) Book(ctx context.Context, in BookInput) (*BookOutput, error) {
	item, err := c.services.FindByID(ctx, in.ServiceItemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrServiceItemNotFound)
		}
		return nil, errs.Wrap(err, "failed to load service item")
	}

	snap, err := c.snapshots.Snapshot(ctx, in.LocationID, in.Date)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrLocationNotFound)
		}
		return nil, errs.Wrap(err, "failed to load scheduling snapshot")
	}

	decision, err := c.engine.Validate(scheduling.SlotRequest{
		StaffID:       in.StaffID,
		LocationID:    in.LocationID,
		ServiceItemID: in.ServiceItemID,
		Date:          in.Date,
		Start:         in.Start,
	}, snap, item)
	if err != nil {
		return nil, errs.Wrap(err, "slot validation failed")
	}
	if !decision.Accepted {
		return nil, errs.Mark(&SlotRejectedError{Decision: decision}, errs.ErrBookingConflict)
	}

	claims := item.Claims()
	var out *BookOutput
	err = c.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		existing, err := c.lockDayAppointments(ctx, dbtx, decision.StaffID, in.LocationID, in.Date, claims)
		if err != nil {
			return err
		}

		_, conflict, err := c.guard.Reserve(decision.StaffID, decision.Start, decision.End, claims, existing, snap.Capacities)
		if err != nil {
			return errs.Wrap(err, "commit-time reserve failed")
		}
		if conflict != nil {
			return errs.Mark(&CommitConflictError{Conflict: *conflict}, errs.ErrBookingConflict)
		}

		entity, err := appointment.NewAppointment(
			in.CompanyID, in.LocationID, decision.StaffID, in.ServiceItemID,
			in.CustomerRef, decision.Start, decision.End, claims,
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := c.appointments.Create(ctx, dbtx, entity); err != nil {
			return errs.Wrap(err, "failed to create appointment")
		}

		if err := c.enqueueNotification(ctx, dbtx, notificationKindConfirmation, entity); err != nil {
			return err
		}

		out = &BookOutput{
			AppointmentID: entity.ID(),
			StaffID:       entity.StaffID(),
			Start:         entity.StartTime(),
			End:           entity.EndTime(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockDayAppointments re-reads, with row locks, every appointment that could
// conflict with the candidate interval: the staff member's day plus any
// appointment holding one of the requested resource types.
func (c *bookingCommandsImpl) lockDayAppointments(
	ctx context.Context,
	dbtx db.DBTX,
	staffID uuid.UUID,
	locationID uuid.UUID,
	day time.Time,
	claims []scheduling.ResourceClaim,
) ([]scheduling.Appointment, error) {
	existing, err := c.appointments.ListStaffDayForUpdate(ctx, dbtx, staffID, day)
	if err != nil {
		return nil, errs.Wrap(err, "failed to re-read staff appointments")
	}
	if len(claims) == 0 {
		return existing, nil
	}

	typeIDs := make([]uuid.UUID, 0, len(claims))
	for _, cl := range claims {
		typeIDs = append(typeIDs, cl.ResourceTypeID)
	}
	holders, err := c.appointments.ListResourceDayForUpdate(ctx, dbtx, locationID, day, typeIDs)
	if err != nil {
		return nil, errs.Wrap(err, "failed to re-read resource appointments")
	}

	seen := make(map[uuid.UUID]struct{}, len(existing))
	for _, a := range existing {
		seen[a.ID] = struct{}{}
	}
	for _, a := range holders {
		if _, ok := seen[a.ID]; !ok {
			seen[a.ID] = struct{}{}
			existing = append(existing, a)
		}
	}
	return existing, nil
}

func (c *bookingCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, (*appointment.Appointment).CheckIn, "")
}

func (c *bookingCommandsImpl) StartService(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, (*appointment.Appointment).Start, "")
}

func (c *bookingCommandsImpl) Complete(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, (*appointment.Appointment).Complete, "")
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, (*appointment.Appointment).Cancel, notificationKindCancellation)
}

func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*appointment.Appointment) error,
	notifyKind string,
) error {
	return c.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		entity, err := c.appointments.FindForUpdate(ctx, dbtx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrAppointmentNotFound)
			}
			return errs.Wrap(err, "failed to load appointment")
		}
		if err := apply(entity); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := c.appointments.UpdateStatus(ctx, dbtx, id, entity.Status(), c.clk.Now()); err != nil {
			return errs.Wrap(err, "failed to update appointment status")
		}
		if notifyKind != "" {
			if err := c.enqueueNotification(ctx, dbtx, notifyKind, entity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *bookingCommandsImpl) enqueueNotification(ctx context.Context, dbtx db.DBTX, kind string, entity *appointment.Appointment) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": entity.ID(),
		"customer_ref":   entity.CustomerRef(),
		"staff_id":       entity.StaffID(),
		"start":          entity.StartTime(),
		"end":            entity.EndTime(),
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode notification payload")
	}
	if err := c.notifications.Enqueue(ctx, dbtx, kind, payload, c.clk.Now()); err != nil {
		return errs.Wrap(err, "failed to enqueue notification")
	}
	return nil
}
