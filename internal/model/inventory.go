package model

import "time"

// Seat is a single seat inside one showtime inventory.  The seat
// number is its display identifier (column then row, e.g. "3B") and
// is unique within the inventory.  Only the reserved flag mutates.
type Seat struct {
	SeatNum    string `json:"seatNum"`
	IsReserved bool   `json:"isReserved"`
}

// ShowtimeInventory is the seat map for one (hall, film, showtime)
// screening.  It is created by the refresh job with every seat
// unreserved and is the unit of serialization for bookings: all
// reads and writes of Seats happen under the inventory store's
// per-record lock.
//
// Fields:
//  ID       – opaque identifier assigned when the inventory is built.
//  FilmID   – film being screened.
//  HallID   – hall the seats belong to.
//  Showtime – when the screening starts.
//  Seats    – ordered seat map in generation order.
type ShowtimeInventory struct {
	ID       string    // showtime_inventories.id
	FilmID   uint64    // showtime_inventories.film_id
	HallID   uint64    // showtime_inventories.hall_id
	Showtime time.Time // showtime_inventories.showtime
	Seats    []Seat    // showtime_inventories.seats (JSON document)
}

// Seat returns a pointer to the seat with the given number, or nil
// when the inventory has no such seat.
func (inv *ShowtimeInventory) Seat(seatNum string) *Seat {
	for i := range inv.Seats {
		if inv.Seats[i].SeatNum == seatNum {
			return &inv.Seats[i]
		}
	}
	return nil
}

// AvailableSeatNums returns the seat numbers that are currently
// unreserved, in inventory order.
func (inv *ShowtimeInventory) AvailableSeatNums() []string {
	out := make([]string, 0, len(inv.Seats))
	for _, s := range inv.Seats {
		if !s.IsReserved {
			out = append(out, s.SeatNum)
		}
	}
	return out
}

// Clone returns a deep copy of the inventory.  Callers that need a
// snapshot outside the store's lock must work on a clone.
func (inv *ShowtimeInventory) Clone() *ShowtimeInventory {
	cp := *inv
	cp.Seats = make([]Seat, len(inv.Seats))
	copy(cp.Seats, inv.Seats)
	return &cp
}
