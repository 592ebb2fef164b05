// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatBookedEvent is published after a seat claim and its booking record
// are durably committed.  It carries enough context for downstream
// consumers to log or notify without querying the primary database.
type SeatBookedEvent struct {
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	SeatNumber string `json:"seat_number"`
	Position   string `json:"position"`
	IsWindow   bool   `json:"is_window"`
	BookedAt   string `json:"booked_at"`
}
