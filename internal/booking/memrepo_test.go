package booking

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"fitclub/internal/capacity"

	"github.com/google/uuid"
)

// memState is a transactional in-memory store. A transaction holds the
// mutex for its whole duration and restores a snapshot on error, which
// gives serializable semantics.
type memState struct {
	mu        sync.Mutex
	schedules map[int64]*capacity.Schedule
	bookings  map[int64]*Booking
	nextID    int64

	// raceOnInsert makes the next insert fail as if a concurrent request
	// had won the partial unique index.
	raceOnInsert bool
}

type memRepo struct {
	st   *memState
	inTx bool
}

func newMemRepo(schedules ...capacity.Schedule) *memRepo {
	st := &memState{
		schedules: make(map[int64]*capacity.Schedule),
		bookings:  make(map[int64]*Booking),
	}
	for i := range schedules {
		s := schedules[i]
		st.schedules[s.ID] = &s
	}
	return &memRepo{st: st}
}

func (r *memRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.st.mu.Lock()
	return r.st.mu.Unlock
}

func (st *memState) snapshot() (map[int64]capacity.Schedule, map[int64]Booking, int64) {
	schedules := make(map[int64]capacity.Schedule, len(st.schedules))
	for id, s := range st.schedules {
		schedules[id] = *s
	}
	bookings := make(map[int64]Booking, len(st.bookings))
	for id, b := range st.bookings {
		bookings[id] = *b
	}
	return schedules, bookings, st.nextID
}

func (st *memState) restore(schedules map[int64]capacity.Schedule, bookings map[int64]Booking, nextID int64) {
	st.schedules = make(map[int64]*capacity.Schedule, len(schedules))
	for id, s := range schedules {
		s := s
		st.schedules[id] = &s
	}
	st.bookings = make(map[int64]*Booking, len(bookings))
	for id, b := range bookings {
		b := b
		st.bookings[id] = &b
	}
	st.nextID = nextID
}

func (r *memRepo) WithinTx(ctx context.Context, fn func(tx Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	schedules, bookings, nextID := r.st.snapshot()
	if err := fn(&memRepo{st: r.st, inTx: true}); err != nil {
		r.st.restore(schedules, bookings, nextID)
		return err
	}
	return nil
}

func (r *memRepo) GetSchedule(_ context.Context, id int64) (*capacity.Schedule, error) {
	defer r.lock()()
	s, ok := r.st.schedules[id]
	if !ok {
		return nil, capacity.ErrScheduleNotFound
	}
	cp := *s
	return &cp, nil
}

// LockSchedule is GetSchedule here: a transaction already holds the state mutex.
func (r *memRepo) LockSchedule(ctx context.Context, id int64) (*capacity.Schedule, error) {
	return r.GetSchedule(ctx, id)
}

func (r *memRepo) DecrementSpots(_ context.Context, id int64) (bool, error) {
	defer r.lock()()
	s, ok := r.st.schedules[id]
	if !ok || s.SpotsRemaining <= 0 {
		return false, nil
	}
	s.SpotsRemaining--
	return true, nil
}

func (r *memRepo) IncrementSpots(_ context.Context, id int64) (bool, error) {
	defer r.lock()()
	s, ok := r.st.schedules[id]
	if !ok || s.SpotsRemaining >= s.Capacity {
		return false, nil
	}
	s.SpotsRemaining++
	return true, nil
}

func (r *memRepo) HasActiveBooking(_ context.Context, userID uuid.UUID, scheduleID int64) (bool, error) {
	defer r.lock()()
	for _, b := range r.st.bookings {
		if b.UserID == userID && b.ScheduleID == scheduleID && b.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) InsertBooking(_ context.Context, b *Booking) error {
	defer r.lock()()
	if r.st.raceOnInsert {
		r.st.raceOnInsert = false
		return ErrAlreadyBooked
	}
	for _, existing := range r.st.bookings {
		if existing.UserID == b.UserID && existing.ScheduleID == b.ScheduleID && existing.Active() {
			return ErrAlreadyBooked
		}
	}
	r.st.nextID++
	b.ID = r.st.nextID
	cp := *b
	r.st.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) GetBooking(_ context.Context, id int64) (*Booking, error) {
	defer r.lock()()
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) LockBooking(ctx context.Context, id int64) (*Booking, error) {
	return r.GetBooking(ctx, id)
}

func (r *memRepo) UpdateStatus(_ context.Context, id int64, from, to Status, cancelledAt *time.Time) (bool, error) {
	defer r.lock()()
	b, ok := r.st.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	if cancelledAt != nil {
		at := *cancelledAt
		b.CancelledAt = &at
	}
	return true, nil
}

func (r *memRepo) OldestWaitlisted(_ context.Context, scheduleID int64) (*Booking, error) {
	defer r.lock()()
	var oldest *Booking
	for _, b := range r.st.bookings {
		if b.ScheduleID != scheduleID || b.Status != StatusWaitlist {
			continue
		}
		if oldest == nil || b.BookedAt.Before(oldest.BookedAt) || (b.BookedAt.Equal(oldest.BookedAt) && b.ID < oldest.ID) {
			oldest = b
		}
	}
	if oldest == nil {
		return nil, ErrNoWaitlist
	}
	cp := *oldest
	return &cp, nil
}

func (r *memRepo) GetBookingWithDetails(_ context.Context, id int64) (*BookingWithDetails, error) {
	defer r.lock()()
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return r.detail(b), nil
}

func (r *memRepo) detail(b *Booking) *BookingWithDetails {
	d := &BookingWithDetails{Booking: *b, ClassName: "Spin", GymName: "Downtown"}
	if s, ok := r.st.schedules[b.ScheduleID]; ok {
		d.GymID = s.GymID
		d.ClassID = s.ClassID
		d.ScheduledAt = s.ScheduledAt
	}
	return d
}

func (r *memRepo) ListUserBookings(_ context.Context, userID uuid.UUID, filter ListFilter, now time.Time) ([]BookingWithDetails, error) {
	defer r.lock()()
	out := []BookingWithDetails{}
	for _, b := range r.st.bookings {
		if b.UserID != userID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		d := r.detail(b)
		if filter.Upcoming && (!b.Active() || !d.ScheduledAt.After(now)) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.After(out[j].BookedAt) })
	return out, nil
}

func (r *memRepo) ListScheduleBookings(_ context.Context, scheduleID int64) ([]Booking, error) {
	defer r.lock()()
	out := []Booking{}
	for _, b := range r.st.bookings {
		if b.ScheduleID == scheduleID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// spots and counts read the committed state.
func (r *memRepo) spots(scheduleID int64) int {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.schedules[scheduleID].SpotsRemaining
}

func (r *memRepo) count(scheduleID int64, status Status) int {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	n := 0
	for _, b := range r.st.bookings {
		if b.ScheduleID == scheduleID && b.Status == status {
			n++
		}
	}
	return n
}

func (r *memRepo) statusOf(id int64) Status {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.bookings[id].Status
}

// steppingClock advances one second per call so booked_at orders inserts.
func steppingClock(start time.Time) func() time.Time {
	var ticks int64
	return func() time.Time {
		n := atomic.AddInt64(&ticks, 1)
		return start.Add(time.Duration(n) * time.Second)
	}
}
