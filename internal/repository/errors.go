// Package repository implements the persistence layer for seats,
// bookings and users.  Sentinel errors defined here let higher layers
// distinguish domain outcomes (seat missing, seat taken, pool already
// populated) from genuine persistence failures, which are returned
// wrapped and untranslated.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat number does not exist in the store.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatAlreadyBooked is returned when a claim loses to an earlier booking.
// Booked is a terminal state; there is no release path.
var ErrSeatAlreadyBooked = errors.New("seat already booked")

// ErrAlreadyInitialized is returned by BulkInsert when the seat store is
// non-empty.  Initialization is idempotent-reject, never idempotent-merge.
var ErrAlreadyInitialized = errors.New("seats already initialized")

// ErrEmailExists is returned when registering a user with a taken email.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")
