package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// BookSeat atomically claims the seat and appends the booking ledger
// row for it.  Both writes share one transaction so that a claimed seat
// without a booking (or the reverse) is never observable: when the
// insert fails the claim rolls back with it.  Claim losers surface
// ErrSeatAlreadyBooked, unknown labels ErrSeatNotFound.
func (s *Store) BookSeat(ctx context.Context, userID uint64, seatNumber string) (model.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, fmt.Errorf("book seat %s: %w", seatNumber, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seat, err := s.claimTx(ctx, tx, seatNumber)
	if err != nil {
		return model.Booking{}, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, seat_id) VALUES (?, ?)`,
		userID, seat.ID)
	if err != nil {
		return model.Booking{}, fmt.Errorf("record booking for %s: %w", seatNumber, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, fmt.Errorf("record booking for %s: %w", seatNumber, err)
	}

	// Read the row back so the returned booking carries the DB-assigned
	// booked_at timestamp.
	var b model.Booking
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, seat_id, booked_at FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.SeatID, &b.BookedAt)
	if err != nil {
		return model.Booking{}, fmt.Errorf("record booking for %s: %w", seatNumber, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Booking{}, fmt.Errorf("book seat %s: %w", seatNumber, err)
	}
	committed = true
	return b, nil
}

// ListByUser returns the user's bookings joined with the current seat
// attributes, newest first.  The requester's display identity is left
// for the caller to attach.
func (s *Store) ListByUser(ctx context.Context, userID uint64) ([]model.BookingView, error) {
	const q = `SELECT b.id, b.booked_at,
	                  se.id, se.seat_number, se.is_booked, se.position, se.is_window, se.created_at
	           FROM bookings b
	           JOIN seats se ON se.id = b.seat_id
	           WHERE b.user_id = ?
	           ORDER BY b.booked_at DESC, b.id DESC`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	views := make([]model.BookingView, 0)
	for rows.Next() {
		var v model.BookingView
		if err := rows.Scan(
			&v.ID, &v.BookedAt,
			&v.Seat.ID, &v.Seat.SeatNumber, &v.Seat.IsBooked, &v.Seat.Position, &v.Seat.IsWindow, &v.Seat.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return views, nil
}
