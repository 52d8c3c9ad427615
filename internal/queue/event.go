// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation is successfully
// confirmed.  It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	ReservationID string   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	FilmID        uint64   `json:"film_id"`
	HallID        uint64   `json:"hall_id"`
	Showtime      string   `json:"showtime"`
	Seats         []string `json:"seats"`
	TotalPrice    int64    `json:"total_price"`
	Glasses       bool     `json:"glasses"`
	Message       string   `json:"message,omitempty"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

// BookingTimeoutEvent is published when a pending reservation's release
// window expires before confirmation and its seats are returned to the
// pool.  It is delivered exactly once per expired attempt.
type BookingTimeoutEvent struct {
	ReservationID string   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	FilmID        uint64   `json:"film_id"`
	Showtime      string   `json:"showtime"`
	Seats         []string `json:"seats"`
	ExpiredAt     string   `json:"expired_at"`
}
