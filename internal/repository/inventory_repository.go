package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// InventoryRepo persists showtime inventories.  The in-process
// inventory store owns all coordination; this repository is its
// write-through durability layer, so every call happens while the
// caller holds the relevant store lock.  Seats are stored as one
// JSON document per inventory, matching the logical persisted shape
// {hallId, filmId, showtime, seats:[{seatNum, isReserved}]}.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo constructs an InventoryRepo with the given DB
// handle.
func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// ReplaceAll deletes every persisted inventory and inserts the given
// set inside one transaction, so readers of the table see either the
// previous window or the new one.
func (r *InventoryRepo) ReplaceAll(ctx context.Context, invs []*model.ShowtimeInventory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM showtime_inventories`); err != nil {
		return err
	}
	if len(invs) > 0 {
		// Build one multi-row INSERT; each row needs five values.
		query := `INSERT INTO showtime_inventories (id, film_id, hall_id, showtime, seats) VALUES `
		args := make([]interface{}, 0, len(invs)*5)
		for i, inv := range invs {
			seats, err := json.Marshal(inv.Seats)
			if err != nil {
				return fmt.Errorf("marshal seats for %s: %w", inv.ID, err)
			}
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, inv.ID, inv.FilmID, inv.HallID, inv.Showtime.UTC(), seats)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Save overwrites the seat document of one inventory.
func (r *InventoryRepo) Save(ctx context.Context, inv *model.ShowtimeInventory) error {
	seats, err := json.Marshal(inv.Seats)
	if err != nil {
		return fmt.Errorf("marshal seats for %s: %w", inv.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `UPDATE showtime_inventories SET seats = ? WHERE id = ?`, seats, inv.ID)
	return err
}

// LoadAll reads every persisted inventory.  Used once at process
// start to warm the store before the first rebuild.
func (r *InventoryRepo) LoadAll(ctx context.Context) ([]*model.ShowtimeInventory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, film_id, hall_id, showtime, seats FROM showtime_inventories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.ShowtimeInventory
	for rows.Next() {
		inv := new(model.ShowtimeInventory)
		var seats []byte
		if err := rows.Scan(&inv.ID, &inv.FilmID, &inv.HallID, &inv.Showtime, &seats); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(seats, &inv.Seats); err != nil {
			return nil, fmt.Errorf("unmarshal seats for %s: %w", inv.ID, err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
