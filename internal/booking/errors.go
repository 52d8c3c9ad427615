// Package booking implements the coordinator that turns seat
// requests into reservations while guaranteeing no seat is ever
// double-booked.
package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSeatsRequested is returned when the requested seat set is
// empty after trimming and deduplication.
var ErrNoSeatsRequested = errors.New("no seats requested")

// ErrReleaseWindowExpired is returned when the release timer fired
// before the booking could be confirmed.  The seats have been (or
// are about to be) returned to the pool by the timer and the caller
// must restart the booking.
var ErrReleaseWindowExpired = errors.New("release window expired, seats released")

// ErrInventoryCorrupted signals that a rollback could not restore
// the inventory to its pre-attempt state.  The attempt is fatal and
// the condition is logged; partial state is never knowingly applied.
var ErrInventoryCorrupted = errors.New("inventory state inconsistent after rollback")

// SeatConflictError reports the requested seats that do not exist in
// the inventory or are already reserved.  The booking is rejected as
// a whole; no seat is reserved on partial success.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("invalid or already reserved seats: %s", strings.Join(e.Seats, ", "))
}
