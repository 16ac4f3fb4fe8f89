package scheduling

import (
	"bytes"
	"sort"
	"time"

	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

const DefaultStepMinutes = 30

// Engine computes bookable slots and validates booking requests against a
// snapshot. It is pure computation: no I/O, no retained state between calls.
type Engine struct {
	step      int
	occupying map[Status]struct{}
}

type Option func(*Engine)

func WithStepMinutes(step int) Option {
	return func(e *Engine) {
		if step > 0 {
			e.step = step
		}
	}
}

func WithOccupyingStatuses(statuses []Status) Option {
	return func(e *Engine) {
		if len(statuses) == 0 {
			return
		}
		e.occupying = make(map[Status]struct{}, len(statuses))
		for _, s := range statuses {
			e.occupying[s] = struct{}{}
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{step: DefaultStepMinutes}
	e.occupying = make(map[Status]struct{})
	for _, s := range DefaultOccupyingStatuses() {
		e.occupying[s] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StatusesFromStrings converts configured status names, dropping unknown ones.
func StatusesFromStrings(names []string) []Status {
	var out []Status
	for _, n := range names {
		s := Status(n)
		if s.IsValid() {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) isOccupying(s Status) bool {
	_, ok := e.occupying[s]
	return ok
}

// Slot is one bookable candidate.
type Slot struct {
	StaffID uuid.UUID
	Start   time.Time
	End     time.Time
}

// EnumerateSlots returns a lazy iterator over the day's valid slots at the
// location, ordered by (start time, staff ID) ascending. staffFilter narrows
// the roster to one staff member when non-nil. The iterator is finite and
// restartable; callers may take the first N candidates without materializing
// the rest.
func (e *Engine) EnumerateSlots(date time.Time, snap Snapshot, item ServiceItem, staffFilter *uuid.UUID) (*SlotIter, error) {
	durMin, err := item.Duration()
	if err != nil {
		return nil, err
	}
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}
	claims := item.Claims()
	if err := checkCapacities(snap.Capacities, claims); err != nil {
		return nil, err
	}

	weekday := date.UTC().Weekday()
	var cursors []*staffCursor
	for _, sa := range snap.Roster {
		if staffFilter != nil && sa.StaffID != *staffFilter {
			continue
		}
		if !sa.WorksAt(snap.LocationID) || !sa.Permits(item.CategoryID) {
			continue
		}
		windows := sa.IntervalsOn(weekday)
		if len(windows) == 0 {
			continue
		}
		sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
		cursors = append(cursors, newStaffCursor(sa.StaffID, windows, durMin, e.step))
	}

	return &SlotIter{
		engine:  e,
		snap:    snap,
		date:    date,
		durMin:  durMin,
		claims:  claims,
		cursors: cursors,
	}, nil
}

// SlotIter lazily walks valid slots in (start, staffID) order.
type SlotIter struct {
	engine  *Engine
	snap    Snapshot
	date    time.Time
	durMin  int
	claims  []ResourceClaim
	cursors []*staffCursor
}

// Next yields the next valid slot. The second return is false when exhausted.
func (it *SlotIter) Next() (Slot, bool) {
	for {
		cur := it.minCursor()
		if cur == nil {
			return Slot{}, false
		}
		startMin, _ := cur.peek()
		cur.advance()

		start := MinuteOfDay(startMin).At(it.date)
		end := start.Add(time.Duration(it.durMin) * time.Minute)

		if it.engine.staffConflict(it.snap.Appointments, cur.staffID, start, end) != nil {
			continue
		}
		if conflict, _ := it.engine.resourceShortage(it.snap, it.claims, start, end); conflict != nil {
			continue
		}
		return Slot{StaffID: cur.staffID, Start: start, End: end}, true
	}
}

// Reset rewinds the iterator to the first candidate.
func (it *SlotIter) Reset() {
	for _, c := range it.cursors {
		c.reset()
	}
}

// Collect drains up to limit slots (all remaining when limit <= 0).
func (it *SlotIter) Collect(limit int) []Slot {
	var out []Slot
	for {
		if limit > 0 && len(out) >= limit {
			return out
		}
		s, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

// minCursor picks the cursor holding the earliest candidate, breaking start
// ties by ascending staff ID for a stable enumeration order.
func (it *SlotIter) minCursor() *staffCursor {
	var best *staffCursor
	bestStart := 0
	for _, c := range it.cursors {
		start, ok := c.peek()
		if !ok {
			continue
		}
		if best == nil || start < bestStart ||
			(start == bestStart && lessStaff(c.staffID, best.staffID)) {
			best = c
			bestStart = start
		}
	}
	return best
}

// staffCursor generates window-aligned candidate start minutes for one staff
// member. Discretization aligns to each window's own start, not to midnight.
type staffCursor struct {
	staffID uuid.UUID
	windows []WorkInterval
	durMin  int
	step    int

	wIdx   int
	offset int
}

func newStaffCursor(staffID uuid.UUID, windows []WorkInterval, durMin, step int) *staffCursor {
	return &staffCursor{staffID: staffID, windows: windows, durMin: durMin, step: step}
}

func (c *staffCursor) peek() (int, bool) {
	for c.wIdx < len(c.windows) {
		w := c.windows[c.wIdx]
		start := int(w.Start) + c.offset
		if start+c.durMin <= int(w.End) {
			return start, true
		}
		c.wIdx++
		c.offset = 0
	}
	return 0, false
}

func (c *staffCursor) advance() {
	c.offset += c.step
}

func (c *staffCursor) reset() {
	c.wIdx = 0
	c.offset = 0
}

func lessStaff(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// staffConflict returns the first occupying appointment of the staff member
// that intersects [start, end), or nil.
func (e *Engine) staffConflict(appointments []Appointment, staffID uuid.UUID, start, end time.Time) *Appointment {
	for i := range appointments {
		a := &appointments[i]
		if a.StaffID != staffID || !e.isOccupying(a.Status) {
			continue
		}
		if overlaps(normalize(a.Start), normalize(a.End), start, end) {
			return a
		}
	}
	return nil
}

// resourceShortage checks whether every claim can be satisfied in [start, end)
// given the snapshot's capacities and the units already held by overlapping
// occupying appointments (across all staff). On shortage it returns one of the
// holding appointments and the contended resource type.
func (e *Engine) resourceShortage(snap Snapshot, claims []ResourceClaim, start, end time.Time) (*Appointment, uuid.UUID) {
	for _, claim := range claims {
		used := 0
		var holder *Appointment
		for i := range snap.Appointments {
			a := &snap.Appointments[i]
			if !e.isOccupying(a.Status) {
				continue
			}
			if !overlaps(normalize(a.Start), normalize(a.End), start, end) {
				continue
			}
			for _, held := range a.Claims {
				if held.ResourceTypeID == claim.ResourceTypeID {
					used += held.Quantity
					holder = a
				}
			}
		}
		if used+claim.Quantity > snap.Capacities[claim.ResourceTypeID] {
			return holder, claim.ResourceTypeID
		}
	}
	return nil, uuid.Nil
}

func checkSnapshot(snap Snapshot) error {
	if snap.LocationID == uuid.Nil {
		return errs.Mark(errs.New("snapshot missing location"), ErrInvariantViolation)
	}
	for _, sa := range snap.Roster {
		if sa.StaffID == uuid.Nil {
			return errs.Mark(errs.New("roster entry missing staff id"), ErrInvariantViolation)
		}
		for _, w := range sa.Intervals {
			if !w.IsValid() {
				return errs.Mark(errs.New("work interval start must precede end"), ErrInvariantViolation)
			}
		}
	}
	for _, a := range snap.Appointments {
		if !a.End.After(a.Start) {
			return errs.Mark(errs.New("appointment end must follow start"), ErrInvariantViolation)
		}
		if !a.Status.IsValid() {
			return errs.Mark(errs.New("appointment has unknown status"), ErrInvariantViolation)
		}
	}
	return nil
}

func checkCapacities(capacities map[uuid.UUID]int, claims []ResourceClaim) error {
	for _, c := range claims {
		if c.Quantity <= 0 {
			return errs.Mark(errs.New("resource claim quantity must be positive"), ErrInvariantViolation)
		}
		if _, ok := capacities[c.ResourceTypeID]; !ok {
			return errs.Mark(errs.New("snapshot missing capacity for required resource"), ErrInvariantViolation)
		}
	}
	return nil
}
