package model

import "time"

// Film type values.  3D screenings carry a per-seat glasses
// surcharge when the customer asks for glasses.
const (
	FilmType2D = "2D"
	FilmType3D = "3D"
)

// Film represents a catalog entry for a screening run.  A film is
// assigned to a single hall and screens daily between ReleaseDate
// and RemoveDate.  TotalAudience and TotalRevenue are running
// counters incremented on every booking attempt that reaches the
// pricing step.
//
// Fields:
//  ID            – primary key identifier.
//  Title         – display title.
//  Description   – free-form synopsis.
//  Genre         – genre label.
//  DurationMin   – running time in minutes.
//  Type          – "2D" or "3D".
//  ReleaseDate   – first day the film screens.
//  RemoveDate    – last day the film screens (inclusive).
//  TotalAudience – cumulative seats sold.
//  TotalRevenue  – cumulative revenue.
//  HallID        – hall the film screens in.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Film struct {
	ID            uint64    // films.id
	Title         string    // films.title
	Description   string    // films.description
	Genre         string    // films.genre
	DurationMin   uint32    // films.duration_min
	Type          string    // films.type
	ReleaseDate   time.Time // films.release_date
	RemoveDate    time.Time // films.remove_date
	TotalAudience uint64    // films.total_audience
	TotalRevenue  int64     // films.total_revenue
	HallID        uint64    // films.hall_id
	CreatedAt     time.Time // films.created_at
	UpdatedAt     time.Time // films.updated_at
}

// ActiveOn reports whether the film screens on the given calendar
// day, i.e. the day falls inside [ReleaseDate, RemoveDate].
func (f Film) ActiveOn(day time.Time) bool {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return f.ReleaseDate.Before(end) && !f.RemoveDate.Before(start)
}
