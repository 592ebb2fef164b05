package model

import "time"

// SeatPosition is the berth level of a seat within its triplet.
type SeatPosition string

const (
	PositionLower  SeatPosition = "lower"
	PositionMiddle SeatPosition = "middle"
	PositionUpper  SeatPosition = "upper"
)

// Seat describes a single bookable unit of the coach. All attributes
// except IsBooked are fixed at initialization time; IsBooked may only
// transition from false to true through the store's claim primitive.
//
// Fields:
//  ID         – primary key identifier.
//  SeatNumber – unique human-facing label (S1..S40).
//  IsBooked   – whether the seat has been claimed.
//  Position   – berth level (lower, middle, upper).
//  IsWindow   – whether the seat is next to a window.
//  CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64       `json:"id"`          // seats.id
	SeatNumber string       `json:"seat_number"` // seats.seat_number
	IsBooked   bool         `json:"is_booked"`   // seats.is_booked
	Position   SeatPosition `json:"position"`    // seats.position
	IsWindow   bool         `json:"is_window"`   // seats.is_window
	CreatedAt  time.Time    `json:"created_at"`  // seats.created_at
}

// SeatStats aggregates availability counters for the whole coach.  The
// values are computed from the seat store at request time and are never
// cached; Available is always Total minus Booked.
type SeatStats struct {
	Total     int           `json:"total"`
	Booked    int           `json:"booked"`
	Available int           `json:"available"`
	Window    WindowStats   `json:"window"`
	Positions PositionStats `json:"positions"`
}

// WindowStats counts window seats overall and still available.
type WindowStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// PositionStats counts available seats per berth level.
type PositionStats struct {
	Upper  int `json:"upper"`
	Middle int `json:"middle"`
	Lower  int `json:"lower"`
}
