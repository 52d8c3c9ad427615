package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// HallRepo provides methods to create and retrieve halls.  Halls are
// read-only inputs to the booking core: capacity drives seat layout
// generation and price drives the ticket total.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallColumns = `id, hall_num, capacity, imax, price, created_at, updated_at`

func scanHall(row interface{ Scan(...any) error }) (model.Hall, error) {
	var h model.Hall
	err := row.Scan(&h.ID, &h.HallNum, &h.Capacity, &h.Imax, &h.Price, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

// Create inserts a new hall.  HallNum must be unique; a duplicate
// yields ErrHallNumExists.  The ID field is populated after insert.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (hall_num, capacity, imax, price) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.HallNum, h.Capacity, h.Imax, h.Price)
	if err != nil {
		// 1062 is the MySQL duplicate-key error code.
		if strings.Contains(err.Error(), "1062") {
			return ErrHallNumExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID retrieves a hall by its ID.  It returns ErrHallNotFound
// when no row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.Hall, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+hallColumns+` FROM halls WHERE id = ?`, id)
	h, err := scanHall(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Hall{}, ErrHallNotFound
		}
		return model.Hall{}, err
	}
	return h, nil
}

// List returns all halls ordered by hall number.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+hallColumns+` FROM halls ORDER BY hall_num`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Hall
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update overwrites a hall's capacity, imax flag and price.  Returns
// ErrHallNotFound when the hall does not exist.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
	const q = `UPDATE halls SET capacity = ?, imax = ?, price = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Capacity, h.Imax, h.Price, h.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHallNotFound
	}
	return nil
}

// Delete removes a hall by id.  Returns ErrHallNotFound when no row
// was deleted.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHallNotFound
	}
	return nil
}
