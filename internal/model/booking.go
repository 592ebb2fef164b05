package model

import "time"

// Booking is the durable record linking a user to a claimed seat.  A
// booking row exists only when the seat transition to booked succeeded
// in the same operation; rows are never updated or deleted.
//
// Fields:
//  ID       – primary key identifier.
//  UserID   – user who claimed the seat.
//  SeatID   – seat that was claimed.
//  BookedAt – when the claim happened.
type Booking struct {
	ID       uint64    `json:"id"`        // bookings.id
	UserID   uint64    `json:"user_id"`   // bookings.user_id
	SeatID   uint64    `json:"seat_id"`   // bookings.seat_id
	BookedAt time.Time `json:"booked_at"` // bookings.booked_at
}

// BookingView joins a booking with the seat it references and the
// display identity of the user who made it.  It is the shape returned
// by the "my bookings" listing.
type BookingView struct {
	ID       uint64    `json:"id"`
	Seat     Seat      `json:"seat"`
	User     UserInfo  `json:"user"`
	BookedAt time.Time `json:"booked_at"`
}

// BatchResult reports the outcome of a multi-seat booking request.
// Batches are best effort: every requested seat is claimed
// independently and failures never roll back earlier successes.
type BatchResult struct {
	BookedCount int            `json:"booked_count"`
	Bookings    []Booking      `json:"bookings"`
	Failures    []BatchFailure `json:"failures"`
}

// BatchFailure names one seat of a batch that could not be claimed.
type BatchFailure struct {
	SeatNumber string `json:"seat_number"`
	Reason     string `json:"reason"` // "not_found" | "already_booked"
}

// Failure reason strings used in BatchFailure.Reason.
const (
	ReasonNotFound      = "not_found"
	ReasonAlreadyBooked = "already_booked"
)
