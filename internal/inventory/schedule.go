package inventory

import "time"

// SlotsPerDay is the fixed number of screenings scheduled per day.
const SlotsPerDay = 8

// Slots returns the showtime instants for the given calendar day.
// The first slot starts at 10:00 local time and each successive slot
// advances by a fixed 2 hour film assumption plus a 30 minute
// changeover: slot i starts at hour 10 + i*2 + (i*30)/60 with minutes
// (i*30) % 60.  Late slots roll past midnight into the next day,
// which time.Date normalizes.  No film-specific duration is
// consulted; every day uses the same rhythm, so the output depends
// only on the date.
func Slots(day time.Time) []time.Time {
	const (
		startHour    = 10
		durationH    = 2
		changeoverMn = 30
	)
	slots := make([]time.Time, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		hour := startHour + i*durationH + i*changeoverMn/60
		minute := (i * changeoverMn) % 60
		slots = append(slots, time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()))
	}
	return slots
}
