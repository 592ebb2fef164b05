package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// MemoryStore implements the same persistence surface as Store using
// in-memory state.  It is useful for development and testing.  Claim
// contention is scoped to the individual seat: the map mutex only
// guards structure (insert, iteration) while each seat carries its own
// lock for the test-and-set, so claims on different seats never block
// each other.
type MemoryStore struct {
	mu       sync.RWMutex
	seats    map[string]*memSeat // keyed by seat number
	order    []string            // seat numbers in insertion order
	nextSeat uint64

	bmu         sync.Mutex
	bookings    []model.Booking
	nextBooking uint64
}

type memSeat struct {
	mu   sync.Mutex
	seat model.Seat
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seats: make(map[string]*memSeat)}
}

// ListAll returns a snapshot of every seat in insertion order.
func (m *MemoryStore) ListAll(ctx context.Context) ([]model.Seat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]model.Seat, 0, len(m.order))
	for _, num := range m.order {
		ms := m.seats[num]
		ms.mu.Lock()
		result = append(result, ms.seat)
		ms.mu.Unlock()
	}
	return result, nil
}

// FindBySeatNumber looks a seat up by its public label.
func (m *MemoryStore) FindBySeatNumber(ctx context.Context, seatNumber string) (model.Seat, error) {
	m.mu.RLock()
	ms, ok := m.seats[seatNumber]
	m.mu.RUnlock()
	if !ok {
		return model.Seat{}, ErrSeatNotFound
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.seat, nil
}

// TryClaim performs the atomic test-and-set on the seat's booked flag.
// Exactly one of any number of concurrent callers for the same seat
// number observes success.
func (m *MemoryStore) TryClaim(ctx context.Context, seatNumber string) (model.Seat, error) {
	m.mu.RLock()
	ms, ok := m.seats[seatNumber]
	m.mu.RUnlock()
	if !ok {
		return model.Seat{}, ErrSeatNotFound
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.seat.IsBooked {
		return model.Seat{}, ErrSeatAlreadyBooked
	}
	ms.seat.IsBooked = true
	return ms.seat, nil
}

// BulkInsert populates the pool, refusing to run twice.
func (m *MemoryStore) BulkInsert(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.seats) > 0 {
		return ErrAlreadyInitialized
	}
	now := time.Now().UTC()
	for _, st := range seats {
		m.nextSeat++
		st.ID = m.nextSeat
		st.IsBooked = false
		st.CreatedAt = now
		m.seats[st.SeatNumber] = &memSeat{seat: st}
		m.order = append(m.order, st.SeatNumber)
	}
	return nil
}

// Stats aggregates availability counters from the current seat state.
func (m *MemoryStore) Stats(ctx context.Context) (model.SeatStats, error) {
	seats, _ := m.ListAll(ctx)
	var st model.SeatStats
	for _, s := range seats {
		st.Total++
		if s.IsWindow {
			st.Window.Total++
		}
		if s.IsBooked {
			st.Booked++
			continue
		}
		if s.IsWindow {
			st.Window.Available++
		}
		switch s.Position {
		case model.PositionUpper:
			st.Positions.Upper++
		case model.PositionMiddle:
			st.Positions.Middle++
		case model.PositionLower:
			st.Positions.Lower++
		}
	}
	st.Available = st.Total - st.Booked
	return st, nil
}

// BookSeat claims the seat and appends the booking record.  The claim
// itself is the only contended step; the ledger append happens under a
// separate lock and never fails, so the pairing invariant holds.
func (m *MemoryStore) BookSeat(ctx context.Context, userID uint64, seatNumber string) (model.Booking, error) {
	seat, err := m.TryClaim(ctx, seatNumber)
	if err != nil {
		return model.Booking{}, err
	}
	m.bmu.Lock()
	defer m.bmu.Unlock()
	m.nextBooking++
	b := model.Booking{
		ID:       m.nextBooking,
		UserID:   userID,
		SeatID:   seat.ID,
		BookedAt: time.Now().UTC(),
	}
	m.bookings = append(m.bookings, b)
	return b, nil
}

// ListByUser returns the user's bookings joined with seat state, newest first.
func (m *MemoryStore) ListByUser(ctx context.Context, userID uint64) ([]model.BookingView, error) {
	m.bmu.Lock()
	mine := make([]model.Booking, 0)
	for _, b := range m.bookings {
		if b.UserID == userID {
			mine = append(mine, b)
		}
	}
	m.bmu.Unlock()

	seats, _ := m.ListAll(ctx)
	byID := make(map[uint64]model.Seat, len(seats))
	for _, s := range seats {
		byID[s.ID] = s
	}

	views := make([]model.BookingView, 0, len(mine))
	for _, b := range mine {
		views = append(views, model.BookingView{
			ID:       b.ID,
			Seat:     byID[b.SeatID],
			BookedAt: b.BookedAt,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID > views[j].ID })
	return views, nil
}

// Bookings returns a snapshot of the whole ledger.  Test helper.
func (m *MemoryStore) Bookings() []model.Booking {
	m.bmu.Lock()
	defer m.bmu.Unlock()
	out := make([]model.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out
}

// MemoryUserDirectory is an in-memory identity collaborator for
// development and tests.
type MemoryUserDirectory struct {
	mu     sync.Mutex
	users  map[uint64]model.UserInfo
	nextID uint64
}

// NewMemoryUserDirectory creates an empty directory.
func NewMemoryUserDirectory() *MemoryUserDirectory {
	return &MemoryUserDirectory{users: make(map[uint64]model.UserInfo)}
}

// Add registers a user and returns the assigned id.
func (d *MemoryUserDirectory) Add(name, email string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.users[d.nextID] = model.UserInfo{Name: name, Email: email}
	return d.nextID
}

// DisplayInfo returns the name/email pair for the given user id.
func (d *MemoryUserDirectory) DisplayInfo(ctx context.Context, id uint64) (model.UserInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	info, ok := d.users[id]
	if !ok {
		return model.UserInfo{}, ErrUserNotFound
	}
	return info, nil
}
