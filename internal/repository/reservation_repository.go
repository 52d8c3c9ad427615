package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// ReservationRepo persists reservation records.  Seat numbers are
// stored as a JSON document alongside the reservation row.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo constructs a ReservationRepo with the given DB
// handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

const reservationColumns = `id, user_id, film_id, hall_id, showtime, seats, total_price, glasses, status, created_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	res := new(model.Reservation)
	var seats []byte
	err := row.Scan(&res.ID, &res.UserID, &res.FilmID, &res.HallID, &res.Showtime,
		&seats, &res.TotalPrice, &res.Glasses, &res.Status, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(seats, &res.Seats); err != nil {
		return nil, fmt.Errorf("unmarshal seats for %s: %w", res.ID, err)
	}
	return res, nil
}

// Create inserts a reservation row.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	seats, err := json.Marshal(res.Seats)
	if err != nil {
		return fmt.Errorf("marshal seats: %w", err)
	}
	const q = `INSERT INTO reservations (id, user_id, film_id, hall_id, showtime, seats, total_price, glasses, status, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q, res.ID, res.UserID, res.FilmID, res.HallID,
		res.Showtime.UTC(), seats, res.TotalPrice, res.Glasses, res.Status, res.CreatedAt.UTC())
	return err
}

// SetStatus transitions a reservation to the given status.  Returns
// ErrReservationNotFound when the reservation does not exist.
func (r *ReservationRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// GetByID retrieves one reservation.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY created_at DESC`)
}

// ListByUser returns a user's reservations, newest first (the "past
// purchases" view).
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
