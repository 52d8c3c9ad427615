package model

import "time"

// Hall represents a screening hall.  Halls are read-only inputs to
// the booking core: capacity drives seat layout generation and Price
// is the per-seat ticket price.
//
// Fields:
//  ID        – primary key identifier.
//  HallNum   – unique human-facing hall number.
//  Capacity  – total number of seats in the hall.
//  Imax      – whether the hall has an Imax screen.
//  Price     – per-seat ticket price.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Hall struct {
	ID        uint64    // halls.id
	HallNum   uint32    // halls.hall_num
	Capacity  uint32    // halls.capacity
	Imax      bool      // halls.imax
	Price     int64     // halls.price
	CreatedAt time.Time // halls.created_at
	UpdatedAt time.Time // halls.updated_at
}
