// Package service implements the reservation coordinator: the only
// entry point for claiming seats, recording bookings and producing
// read-side views of the pool.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// SeatStore is the durable source of truth for seat availability.
// TryClaim is the single mutation primitive: an atomic test-and-set on
// the booked flag keyed by seat number.
type SeatStore interface {
	ListAll(ctx context.Context) ([]model.Seat, error)
	FindBySeatNumber(ctx context.Context, seatNumber string) (model.Seat, error)
	TryClaim(ctx context.Context, seatNumber string) (model.Seat, error)
	BulkInsert(ctx context.Context, seats []model.Seat) error
	Stats(ctx context.Context) (model.SeatStats, error)
}

// BookingLedger exposes the read side of the booking records.
type BookingLedger interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.BookingView, error)
}

// Store is the persistence boundary consumed by the coordinator.
// BookSeat pairs the claim with the ledger append atomically, so a
// claimed seat and its booking record never diverge.
type Store interface {
	SeatStore
	BookingLedger
	BookSeat(ctx context.Context, userID uint64, seatNumber string) (model.Booking, error)
}

// IdentityProvider supplies the display identity of an authenticated
// user.  The coordinator never performs credential checks itself.
type IdentityProvider interface {
	DisplayInfo(ctx context.Context, userID uint64) (model.UserInfo, error)
}

// EventPublisher broadcasts booking confirmations to interested
// consumers.  Publish failures must not fail the booking.
type EventPublisher interface {
	PublishSeatBooked(ctx context.Context, event queue.SeatBookedEvent) error
}

// ErrEmptyBatch is returned when a batch request names no seats.
var ErrEmptyBatch = errors.New("no seat numbers provided")

// ReservationService coordinates seat claims and booking records over
// the injected store.  It is safe for concurrent use; all
// synchronization lives in the store's claim primitive.
type ReservationService struct {
	store     Store
	identity  IdentityProvider
	publisher EventPublisher // optional
}

// NewReservationService constructs the coordinator.  The publisher may
// be nil when no broker is configured.
func NewReservationService(store Store, identity IdentityProvider, publisher EventPublisher) *ReservationService {
	if store == nil || identity == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{store: store, identity: identity, publisher: publisher}
}

// ListSeats returns every seat with its current availability.
func (s *ReservationService) ListSeats(ctx context.Context) ([]model.Seat, error) {
	return s.store.ListAll(ctx)
}

// BookOne claims a single seat for the user and returns the booking.
// On repository.ErrSeatNotFound or repository.ErrSeatAlreadyBooked
// nothing is persisted.
func (s *ReservationService) BookOne(ctx context.Context, userID uint64, seatNumber string) (model.Booking, error) {
	seatNumber = strings.TrimSpace(seatNumber)
	if seatNumber == "" {
		return model.Booking{}, ErrEmptyBatch
	}
	b, err := s.store.BookSeat(ctx, userID, seatNumber)
	if err != nil {
		return model.Booking{}, err
	}
	s.announce(ctx, b, seatNumber)
	return b, nil
}

// BookMany claims each requested seat independently and accumulates
// successes and failures.  It is explicitly best effort: seats already
// booked or unknown are reported per seat and never roll back earlier
// claims.  Persistence failures abort the batch and are returned as-is,
// alongside whatever was already booked.
func (s *ReservationService) BookMany(ctx context.Context, userID uint64, seatNumbers []string) (model.BatchResult, error) {
	requested := make([]string, 0, len(seatNumbers))
	for _, num := range seatNumbers {
		if trimmed := strings.TrimSpace(num); trimmed != "" {
			requested = append(requested, trimmed)
		}
	}
	if len(requested) == 0 {
		return model.BatchResult{}, ErrEmptyBatch
	}

	result := model.BatchResult{
		Bookings: make([]model.Booking, 0, len(requested)),
		Failures: make([]model.BatchFailure, 0),
	}
	for _, num := range requested {
		b, err := s.store.BookSeat(ctx, userID, num)
		switch {
		case err == nil:
			result.BookedCount++
			result.Bookings = append(result.Bookings, b)
			s.announce(ctx, b, num)
		case errors.Is(err, repository.ErrSeatNotFound):
			result.Failures = append(result.Failures, model.BatchFailure{SeatNumber: num, Reason: model.ReasonNotFound})
		case errors.Is(err, repository.ErrSeatAlreadyBooked):
			result.Failures = append(result.Failures, model.BatchFailure{SeatNumber: num, Reason: model.ReasonAlreadyBooked})
		default:
			// Store outage: stop here, surface the error with the partial result.
			return result, err
		}
	}
	return result, nil
}

// ListMyBookings returns the user's bookings joined with seat state and
// the requester's display identity.
func (s *ReservationService) ListMyBookings(ctx context.Context, userID uint64) ([]model.BookingView, error) {
	views, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return views, nil
	}
	info, err := s.identity.DisplayInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].User = info
	}
	return views, nil
}

// SeatStats computes availability statistics fresh from the store.
func (s *ReservationService) SeatStats(ctx context.Context) (model.SeatStats, error) {
	return s.store.Stats(ctx)
}

// announce publishes the booking event when a publisher is configured.
// Failures are logged only; the booking is already durable.
func (s *ReservationService) announce(ctx context.Context, b model.Booking, seatNumber string) {
	if s.publisher == nil {
		return
	}
	seat, err := s.store.FindBySeatNumber(ctx, seatNumber)
	if err != nil {
		log.Printf("reservation: load seat %s for event failed: %v", seatNumber, err)
		return
	}
	ev := queue.SeatBookedEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		SeatNumber: seat.SeatNumber,
		Position:   string(seat.Position),
		IsWindow:   seat.IsWindow,
		BookedAt:   b.BookedAt.UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishSeatBooked(ctx, ev); err != nil {
		log.Printf("reservation: publish seat booked event failed: %v", err)
	}
}
