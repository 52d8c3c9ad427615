package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error comparisons
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// FilmRepo provides methods to create, query and update films.  It
// also doubles as the booking core's catalog collaborator: the
// refresh job uses ActiveOn and the coordinator uses GetByID and
// AddTotals.
type FilmRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewFilmRepo constructs a FilmRepo with the given DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

const filmColumns = `id, title, description, genre, duration_min, type, release_date, remove_date, total_audience, total_revenue, hall_id, created_at, updated_at`

func scanFilm(row interface{ Scan(...any) error }) (model.Film, error) {
	var f model.Film
	err := row.Scan(&f.ID, &f.Title, &f.Description, &f.Genre, &f.DurationMin, &f.Type,
		&f.ReleaseDate, &f.RemoveDate, &f.TotalAudience, &f.TotalRevenue, &f.HallID,
		&f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// Create inserts a new film.  Title, Type, ReleaseDate, RemoveDate
// and HallID must be set.  The ID field of the film is populated
// after insert.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) error {
	const q = `INSERT INTO films (title, description, genre, duration_min, type, release_date, remove_date, hall_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.Title, f.Description, f.Genre, f.DurationMin, f.Type,
		f.ReleaseDate, f.RemoveDate, f.HallID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID retrieves a film by its ID.  It returns ErrFilmNotFound
// when no row is found.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+filmColumns+` FROM films WHERE id = ?`, id)
	f, err := scanFilm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Film{}, ErrFilmNotFound
		}
		return model.Film{}, err
	}
	return f, nil
}

// List returns all films ordered by id.
func (r *FilmRepo) List(ctx context.Context) ([]model.Film, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+filmColumns+` FROM films ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ActiveOn returns the films whose [release_date, remove_date]
// window covers the given calendar day.  This feeds the daily
// inventory rebuild.
func (r *FilmRepo) ActiveOn(ctx context.Context, day time.Time) ([]model.Film, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	const q = `SELECT ` + filmColumns + ` FROM films WHERE release_date < ? AND remove_date >= ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Update overwrites the mutable catalog fields of a film.  Returns
// ErrFilmNotFound when the film does not exist.
func (r *FilmRepo) Update(ctx context.Context, f *model.Film) error {
	const q = `UPDATE films SET title = ?, description = ?, genre = ?, duration_min = ?, type = ?,
	           release_date = ?, remove_date = ?, hall_id = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, f.Title, f.Description, f.Genre, f.DurationMin, f.Type,
		f.ReleaseDate, f.RemoveDate, f.HallID, f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFilmNotFound
	}
	return nil
}

// Delete removes a film by id.  Returns ErrFilmNotFound when no row
// was deleted.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM films WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFilmNotFound
	}
	return nil
}

// AddTotals increments (or, with negative arguments, decrements) the
// film's running audience and revenue counters.  The increment is a
// single UPDATE so concurrent bookings for different showtimes of
// the same film never lose updates.
func (r *FilmRepo) AddTotals(ctx context.Context, filmID uint64, audience int, revenue int64) error {
	const q = `UPDATE films SET total_audience = total_audience + ?, total_revenue = total_revenue + ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, audience, revenue, filmID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFilmNotFound
	}
	return nil
}
