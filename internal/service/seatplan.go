package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// TotalSeats is the fixed size of the coach.
const TotalSeats = 40

// SeatPlan generates the deterministic layout of the coach: seats
// S1..S40 in repeating triplets where every third seat is an upper
// window berth.
//
//	i mod 3 == 1 -> lower, aisle
//	i mod 3 == 2 -> middle, aisle
//	i mod 3 == 0 -> upper, window
func SeatPlan() []model.Seat {
	seats := make([]model.Seat, 0, TotalSeats)
	for i := 1; i <= TotalSeats; i++ {
		var pos model.SeatPosition
		switch i % 3 {
		case 1:
			pos = model.PositionLower
		case 2:
			pos = model.PositionMiddle
		default:
			pos = model.PositionUpper
		}
		seats = append(seats, model.Seat{
			SeatNumber: fmt.Sprintf("S%d", i),
			Position:   pos,
			IsWindow:   i%3 == 0,
		})
	}
	return seats
}

// InitializeSeats populates the seat store with the 40-seat plan.  It
// fails with repository.ErrAlreadyInitialized when the store already
// holds seats; a repeated call never appends a second pool.
func (s *ReservationService) InitializeSeats(ctx context.Context) error {
	return s.store.BulkInsert(ctx, SeatPlan())
}
