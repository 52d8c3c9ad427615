package model

import "time"

// Reservation status values.  A reservation starts PENDING, becomes
// CONFIRMED when the booking completes inside the release window, or
// RELEASED when the window expires first and its seats are returned
// to the pool.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationReleased  = "RELEASED"
)

// Reservation records a user's purchase of specific seats for one
// showtime.  The seat set is fixed at creation time and must have
// been unreserved in the showtime's inventory at that moment.
//
// Fields:
//  ID         – opaque reservation identifier.
//  UserID     – user who made the booking.
//  FilmID     – film being screened.
//  HallID     – hall of the screening.
//  Showtime   – when the screening starts.
//  Seats      – seat numbers purchased.
//  TotalPrice – computed price including any glasses surcharge.
//  Glasses    – whether 3D glasses were requested.
//  Status     – PENDING, CONFIRMED or RELEASED.
//  CreatedAt  – creation timestamp.
type Reservation struct {
	ID         string    // reservations.id
	UserID     uint64    // reservations.user_id
	FilmID     uint64    // reservations.film_id
	HallID     uint64    // reservations.hall_id
	Showtime   time.Time // reservations.showtime
	Seats      []string  // reservations.seats (JSON document)
	TotalPrice int64     // reservations.total_price
	Glasses    bool      // reservations.glasses
	Status     string    // reservations.status
	CreatedAt  time.Time // reservations.created_at
}
