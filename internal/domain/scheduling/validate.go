package scheduling

import (
	"time"

	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

// Validate checks one booking request against the snapshot and returns a
// tagged Decision. Business-rule rejections come back inside the Decision;
// the error return is reserved for snapshot invariant violations, which
// indicate a bug in the calling layer.
func (e *Engine) Validate(req SlotRequest, snap Snapshot, item ServiceItem) (Decision, error) {
	durMin, err := item.Duration()
	if err != nil {
		return rejected(ReasonInvalidDuration), nil
	}
	if err := checkSnapshot(snap); err != nil {
		return Decision{}, err
	}
	claims := item.Claims()
	if err := checkCapacities(snap.Capacities, claims); err != nil {
		return Decision{}, err
	}
	if req.LocationID != snap.LocationID {
		return Decision{}, errs.Mark(errs.New("request location does not match snapshot"), ErrInvariantViolation)
	}

	start := req.Start.At(req.Date)
	end := start.Add(time.Duration(durMin) * time.Minute)

	if req.StaffID != nil {
		sa, ok := findStaff(snap.Roster, *req.StaffID)
		if !ok || !sa.WorksAt(snap.LocationID) {
			return rejected(ReasonNoEligibleStaff), nil
		}
		if !sa.Permits(item.CategoryID) {
			return rejected(ReasonStaffNotPermitted), nil
		}
		return e.evaluate(sa, snap, claims, start, end), nil
	}

	return e.pickAnyStaff(snap, item, claims, start, end), nil
}

// evaluate applies the per-staff rules in order: working hours, staff
// timeline, resource availability.
func (e *Engine) evaluate(sa StaffAvailability, snap Snapshot, claims []ResourceClaim, start, end time.Time) Decision {
	if !withinWorkingHours(sa, start, end) {
		return rejected(ReasonOutsideWorkingHours)
	}
	if conflict := e.staffConflict(snap.Appointments, sa.StaffID, start, end); conflict != nil {
		return rejectedWith(ReasonTimeConflict, conflict)
	}
	if conflict, _ := e.resourceShortage(snap, claims, start, end); conflict != nil {
		return rejectedWith(ReasonResourceConflict, conflict)
	}
	return accepted(sa.StaffID, start, end)
}

// pickAnyStaff resolves an "any staff" request: among staff that can take the
// slot, prefer the one with the fewest occupying appointments that day, then
// ascending staff ID for a stable outcome.
func (e *Engine) pickAnyStaff(snap Snapshot, item ServiceItem, claims []ResourceClaim, start, end time.Time) Decision {
	var (
		best        *StaffAvailability
		bestLoad    int
		bestReject  Decision
		anyEligible bool
	)

	for i := range snap.Roster {
		sa := snap.Roster[i]
		if !sa.WorksAt(snap.LocationID) || !sa.Permits(item.CategoryID) {
			continue
		}
		anyEligible = true

		d := e.evaluate(sa, snap, claims, start, end)
		if !d.Accepted {
			bestReject = preferReject(bestReject, d)
			continue
		}

		load := e.dayLoad(snap.Appointments, sa.StaffID)
		if best == nil || load < bestLoad ||
			(load == bestLoad && lessStaff(sa.StaffID, best.StaffID)) {
			best = &snap.Roster[i]
			bestLoad = load
		}
	}

	if best != nil {
		return accepted(best.StaffID, start, end)
	}
	if !anyEligible {
		return rejected(ReasonNoEligibleStaff)
	}
	return bestReject
}

func (e *Engine) dayLoad(appointments []Appointment, staffID uuid.UUID) int {
	n := 0
	for _, a := range appointments {
		if a.StaffID == staffID && e.isOccupying(a.Status) {
			n++
		}
	}
	return n
}

// preferReject keeps the rejection most useful to surface when every staff
// member failed: an actual conflict beats an hours mismatch.
func preferReject(cur, next Decision) Decision {
	if cur.Reason == "" {
		return next
	}
	rank := map[RejectReason]int{
		ReasonTimeConflict:        3,
		ReasonResourceConflict:    2,
		ReasonOutsideWorkingHours: 1,
	}
	if rank[next.Reason] > rank[cur.Reason] {
		return next
	}
	return cur
}

func withinWorkingHours(sa StaffAvailability, start, end time.Time) bool {
	day := start.UTC().Weekday()
	startMin := MinuteOfDay(start.UTC().Hour()*60 + start.UTC().Minute())
	endMin := startMin + MinuteOfDay(end.Sub(start)/time.Minute)
	for _, w := range sa.IntervalsOn(day) {
		if w.Start <= startMin && endMin <= w.End {
			return true
		}
	}
	return false
}

func findStaff(roster []StaffAvailability, staffID uuid.UUID) (StaffAvailability, bool) {
	for _, sa := range roster {
		if sa.StaffID == staffID {
			return sa, true
		}
	}
	return StaffAvailability{}, false
}
