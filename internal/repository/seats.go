package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// Store provides data access to the seats and bookings tables.  Seats
// and bookings are deliberately served by a single type because the
// booking path must claim a seat and append the ledger row inside one
// transaction.
type Store struct {
	db *sql.DB
}

// NewStore constructs a Store with the given DB handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListAll retrieves every seat ordered by id, which preserves the
// generation order S1..S40.
func (s *Store) ListAll(ctx context.Context) ([]model.Seat, error) {
	const q = `SELECT id, seat_number, is_booked, position, is_window, created_at
	           FROM seats
	           ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var st model.Seat
		if err := rows.Scan(&st.ID, &st.SeatNumber, &st.IsBooked, &st.Position, &st.IsWindow, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	return result, nil
}

// FindBySeatNumber looks a seat up by its public label.
func (s *Store) FindBySeatNumber(ctx context.Context, seatNumber string) (model.Seat, error) {
	const q = `SELECT id, seat_number, is_booked, position, is_window, created_at
	           FROM seats WHERE seat_number = ?`
	var st model.Seat
	err := s.db.QueryRowContext(ctx, q, seatNumber).
		Scan(&st.ID, &st.SeatNumber, &st.IsBooked, &st.Position, &st.IsWindow, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Seat{}, ErrSeatNotFound
		}
		return model.Seat{}, fmt.Errorf("find seat %s: %w", seatNumber, err)
	}
	return st, nil
}

// TryClaim flips is_booked from 0 to 1 for the given seat number.  The
// conditional UPDATE is the atomicity boundary: under concurrent claims
// for the same seat exactly one statement reports an affected row.  When
// no row was affected a follow-up read disambiguates a missing seat from
// a lost race.
func (s *Store) TryClaim(ctx context.Context, seatNumber string) (model.Seat, error) {
	seat, err := s.claimTx(ctx, s.db, seatNumber)
	if err != nil {
		return model.Seat{}, err
	}
	return seat, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx so the claim can run
// standalone or inside the booking transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *Store) claimTx(ctx context.Context, ex execer, seatNumber string) (model.Seat, error) {
	res, err := ex.ExecContext(ctx,
		`UPDATE seats SET is_booked = 1 WHERE seat_number = ? AND is_booked = 0`,
		seatNumber)
	if err != nil {
		return model.Seat{}, fmt.Errorf("claim seat %s: %w", seatNumber, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Seat{}, fmt.Errorf("claim seat %s: %w", seatNumber, err)
	}
	if n == 0 {
		// Either the seat does not exist or someone else holds it.
		var booked bool
		err := ex.QueryRowContext(ctx,
			`SELECT is_booked FROM seats WHERE seat_number = ?`, seatNumber).Scan(&booked)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Seat{}, ErrSeatNotFound
		}
		if err != nil {
			return model.Seat{}, fmt.Errorf("claim seat %s: %w", seatNumber, err)
		}
		return model.Seat{}, ErrSeatAlreadyBooked
	}
	var st model.Seat
	err = ex.QueryRowContext(ctx,
		`SELECT id, seat_number, is_booked, position, is_window, created_at FROM seats WHERE seat_number = ?`,
		seatNumber).
		Scan(&st.ID, &st.SeatNumber, &st.IsBooked, &st.Position, &st.IsWindow, &st.CreatedAt)
	if err != nil {
		return model.Seat{}, fmt.Errorf("claim seat %s: %w", seatNumber, err)
	}
	return st, nil
}

// BulkInsert populates the seat pool in a single statement.  It refuses
// to run against a non-empty store so that a repeated initialization can
// never append a second pool on top of the first.  The count check and
// the insert share a transaction.
func (s *Store) BulkInsert(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bulk insert seats: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats FOR UPDATE`).Scan(&count); err != nil {
		return fmt.Errorf("bulk insert seats: %w", err)
	}
	if count > 0 {
		return ErrAlreadyInitialized
	}

	query := `INSERT INTO seats (seat_number, position, is_window) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, st := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, st.SeatNumber, st.Position, st.IsWindow)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk insert seats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bulk insert seats: %w", err)
	}
	committed = true
	return nil
}

// Stats aggregates availability counters in one pass over the table.
func (s *Store) Stats(ctx context.Context) (model.SeatStats, error) {
	const q = `SELECT
	             COUNT(*),
	             COALESCE(SUM(is_booked), 0),
	             COALESCE(SUM(is_window), 0),
	             COALESCE(SUM(is_window AND NOT is_booked), 0),
	             COALESCE(SUM(position = 'upper' AND NOT is_booked), 0),
	             COALESCE(SUM(position = 'middle' AND NOT is_booked), 0),
	             COALESCE(SUM(position = 'lower' AND NOT is_booked), 0)
	           FROM seats`
	var st model.SeatStats
	err := s.db.QueryRowContext(ctx, q).Scan(
		&st.Total, &st.Booked,
		&st.Window.Total, &st.Window.Available,
		&st.Positions.Upper, &st.Positions.Middle, &st.Positions.Lower,
	)
	if err != nil {
		return model.SeatStats{}, fmt.Errorf("seat stats: %w", err)
	}
	st.Available = st.Total - st.Booked
	return st, nil
}
