package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// newTestService builds a coordinator over the in-memory store with a
// freshly initialized 40-seat pool.
func newTestService(t *testing.T) (*ReservationService, *repository.MemoryStore, *repository.MemoryUserDirectory) {
	t.Helper()
	store := repository.NewMemoryStore()
	users := repository.NewMemoryUserDirectory()
	svc := NewReservationService(store, users, nil)
	if err := svc.InitializeSeats(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return svc, store, users
}

func TestBookOneEndToEnd(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()
	userA := users.Add("Alice", "alice@example.com")
	userB := users.Add("Bob", "bob@example.com")

	b, err := svc.BookOne(ctx, userA, "S5")
	if err != nil {
		t.Fatalf("BookOne(S5): %v", err)
	}
	seats, _ := svc.ListSeats(ctx)
	var s5 model.Seat
	for _, s := range seats {
		if s.SeatNumber == "S5" {
			s5 = s
		}
	}
	if !s5.IsBooked || b.SeatID != s5.ID {
		t.Fatalf("S5 not claimed by booking %+v (seat %+v)", b, s5)
	}

	if _, err := svc.BookOne(ctx, userB, "S5"); !errors.Is(err, repository.ErrSeatAlreadyBooked) {
		t.Fatalf("second booking of S5: expected ErrSeatAlreadyBooked, got %v", err)
	}
	if _, err := svc.BookOne(ctx, userB, "S99"); !errors.Is(err, repository.ErrSeatNotFound) {
		t.Fatalf("booking S99: expected ErrSeatNotFound, got %v", err)
	}

	stats, err := svc.SeatStats(ctx)
	if err != nil {
		t.Fatalf("SeatStats: %v", err)
	}
	if stats.Booked != 1 || stats.Available != 39 {
		t.Fatalf("stats after one booking: booked=%d available=%d", stats.Booked, stats.Available)
	}
}

func TestBookOneConcurrentSingleWinner(t *testing.T) {
	svc, store, users := newTestService(t)
	userID := users.Add("Racer", "racer@example.com")

	const callers = 48
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.BookOne(context.Background(), userID, "S7")
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !errors.Is(err, repository.ErrSeatAlreadyBooked) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner for S7, got %d", wins)
	}
	// Atomic pairing: the ledger holds exactly one entry for the seat.
	refs := 0
	for _, b := range store.Bookings() {
		refs++
		_ = b
	}
	if refs != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", refs)
	}
}

func TestBookManyPartialSuccess(t *testing.T) {
	svc, _, users := newTestService(t)
	userID := users.Add("Batch", "batch@example.com")

	result, err := svc.BookMany(context.Background(), userID, []string{"S1", "S1", "S2", "S99"})
	if err != nil {
		t.Fatalf("BookMany: %v", err)
	}
	if result.BookedCount != 2 {
		t.Fatalf("expected 2 booked, got %d", result.BookedCount)
	}
	if len(result.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(result.Bookings))
	}
	if len(result.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(result.Failures))
	}
	byNumber := make(map[string]string, len(result.Failures))
	for _, f := range result.Failures {
		byNumber[f.SeatNumber] = f.Reason
	}
	if byNumber["S1"] != model.ReasonAlreadyBooked {
		t.Errorf("duplicate S1: expected %s, got %s", model.ReasonAlreadyBooked, byNumber["S1"])
	}
	if byNumber["S99"] != model.ReasonNotFound {
		t.Errorf("S99: expected %s, got %s", model.ReasonNotFound, byNumber["S99"])
	}
}

func TestBookManyEmptyBatchFailsFast(t *testing.T) {
	svc, store, users := newTestService(t)
	userID := users.Add("Empty", "empty@example.com")

	for _, input := range [][]string{nil, {}, {"", "  "}} {
		if _, err := svc.BookMany(context.Background(), userID, input); !errors.Is(err, ErrEmptyBatch) {
			t.Fatalf("input %q: expected ErrEmptyBatch, got %v", input, err)
		}
	}
	if got := len(store.Bookings()); got != 0 {
		t.Fatalf("empty batches must not persist anything, ledger has %d entries", got)
	}
}

func TestBookManyAllFailuresReportsZeroBooked(t *testing.T) {
	svc, _, users := newTestService(t)
	first := users.Add("First", "first@example.com")
	second := users.Add("Second", "second@example.com")

	if _, err := svc.BookMany(context.Background(), first, []string{"S1", "S2"}); err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	result, err := svc.BookMany(context.Background(), second, []string{"S1", "S2"})
	if err != nil {
		t.Fatalf("BookMany: %v", err)
	}
	if result.BookedCount != 0 || len(result.Failures) != 2 {
		t.Fatalf("expected fully failed batch, got %+v", result)
	}
}

func TestListMyBookingsJoinsIdentity(t *testing.T) {
	svc, _, users := newTestService(t)
	userID := users.Add("Carol", "carol@example.com")
	ctx := context.Background()

	if _, err := svc.BookMany(ctx, userID, []string{"S3", "S10"}); err != nil {
		t.Fatalf("BookMany: %v", err)
	}
	views, err := svc.ListMyBookings(ctx, userID)
	if err != nil {
		t.Fatalf("ListMyBookings: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	for _, v := range views {
		if v.User.Name != "Carol" || v.User.Email != "carol@example.com" {
			t.Fatalf("view missing display identity: %+v", v.User)
		}
		if !v.Seat.IsBooked {
			t.Fatalf("view seat should be booked: %+v", v.Seat)
		}
	}
	if views[0].Seat.SeatNumber != "S10" {
		t.Fatalf("expected newest booking first, got %s", views[0].Seat.SeatNumber)
	}
}

func TestSeatStatsConsistency(t *testing.T) {
	svc, _, users := newTestService(t)
	userID := users.Add("Window", "window@example.com")
	ctx := context.Background()

	stats, _ := svc.SeatStats(ctx)
	if stats.Total != TotalSeats || stats.Window.Total != 13 {
		t.Fatalf("fresh stats: %+v", stats)
	}
	if stats.Positions.Lower != 14 || stats.Positions.Middle != 13 || stats.Positions.Upper != 13 {
		t.Fatalf("fresh position stats: %+v", stats.Positions)
	}

	// Book every window seat (S3, S6, ..., S39).
	for i := 3; i <= TotalSeats; i += 3 {
		if _, err := svc.BookOne(ctx, userID, SeatPlan()[i-1].SeatNumber); err != nil {
			t.Fatalf("booking window seat %d: %v", i, err)
		}
	}

	stats, _ = svc.SeatStats(ctx)
	if stats.Window.Available != 0 {
		t.Fatalf("window seats exhausted but available=%d", stats.Window.Available)
	}
	if stats.Available != stats.Total-stats.Booked {
		t.Fatalf("available/booked mismatch: %+v", stats)
	}
	if stats.Positions.Upper != 0 {
		t.Fatalf("all upper berths are windows, expected 0 available, got %d", stats.Positions.Upper)
	}
	if stats.Window.Available > stats.Window.Total {
		t.Fatalf("window available exceeds total: %+v", stats.Window)
	}
}
