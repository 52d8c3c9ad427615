// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios and map them onto HTTP responses.
package repository

import "errors"

// ErrFilmNotFound is returned when a film lookup fails.
var ErrFilmNotFound = errors.New("film not found")

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrHallNumExists is returned when creating a hall whose number is
// already taken.
var ErrHallNumExists = errors.New("hall number already exists")
