// Package inventory owns the showtime seat inventories: the pure
// generators that build them, the store that coordinates concurrent
// access to them, and the job that rebuilds them for the rolling
// horizon of upcoming days.
package inventory

import (
	"errors"
	"math"
	"strconv"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// ErrInvalidCapacity is returned when a hall capacity below 1 is
// passed to Layout.  This is a configuration error, not a runtime
// fault of the booking engine.
var ErrInvalidCapacity = errors.New("hall capacity must be at least 1")

// ErrRowLabelsExhausted is returned when the capacity needs more rows
// than single letters A..Z can label.  Also a configuration error.
var ErrRowLabelsExhausted = errors.New("hall capacity exceeds row labels A..Z")

// Layout builds the seat map for a hall of the given capacity.  The
// layout is a near-square grid: with n = floor(sqrt(capacity)) it
// produces n rows of n seats, rows labeled 'A', 'B', ... and columns
// numbered 1..n, seat number = "{col}{row}" (e.g. "3B").  Any
// remainder beyond n*n is appended as one partial row with columns
// 1..remainder.  The result is deterministic for a given capacity:
// same capacity, same ordered seat numbers, all unreserved.
func Layout(capacity int) ([]model.Seat, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	n := int(math.Sqrt(float64(capacity)))
	remainder := capacity - n*n

	rows := n
	if remainder > 0 {
		rows++
	}
	if rows > 26 {
		return nil, ErrRowLabelsExhausted
	}

	seats := make([]model.Seat, 0, capacity)
	label := byte('A')
	for row := 0; row < n; row++ {
		for col := 1; col <= n; col++ {
			seats = append(seats, model.Seat{SeatNum: seatNum(col, label)})
		}
		label++
	}
	for col := 1; col <= remainder; col++ {
		seats = append(seats, model.Seat{SeatNum: seatNum(col, label)})
	}
	return seats, nil
}

func seatNum(col int, row byte) string {
	return strconv.Itoa(col) + string(row)
}
