package booking

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-ticketing/internal/inventory"
	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// GlassesSurcharge is the flat price added when 3D glasses are
// requested for a 3D film.
const GlassesSurcharge = 50

// DefaultReleaseWindow is how long a pending reservation has to be
// confirmed before its seats are returned to the pool.
const DefaultReleaseWindow = 10 * time.Second

// glassesAdvisory is attached to successful 3D bookings that did not
// request glasses.  The booking still succeeds.
const glassesAdvisory = "This is a 3D film, please include glasses."

// CatalogService supplies film and hall lookups and persists the
// film sale counters.  Film and hall records are read without the
// showtime lock; AddFilmTotals must be atomic on the catalog side
// because bookings for different showtimes of one film run in
// parallel.
type CatalogService interface {
	Film(ctx context.Context, id uint64) (model.Film, error)
	Hall(ctx context.Context, id uint64) (model.Hall, error)
	AddFilmTotals(ctx context.Context, filmID uint64, audience int, revenue int64) error
}

// ReservationStore persists reservation records.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	SetStatus(ctx context.Context, id, status string) error
}

// Notifier receives booking outcomes.  Confirmed and timeout
// notifications are delivered at most once per attempt; the timeout
// notification is delivered exactly once for an attempt whose window
// expired.  Implementations must not block the caller for long.
type Notifier interface {
	ReservationConfirmed(res *model.Reservation, message string)
	ReservationTimedOut(res *model.Reservation)
}

// Coordinator executes booking attempts against the inventory store.
// Each attempt is a single atomic unit under the showtime's record
// lock: validation, seat flipping, pricing, film totals, reservation
// creation and confirmation all happen inside one session, and any
// failure rolls back every mutation the attempt performed.
type Coordinator struct {
	store        *inventory.Store
	catalog      CatalogService
	reservations ReservationStore
	notifier     Notifier // may be nil
	window       time.Duration
}

// NewCoordinator builds a coordinator with the default release
// window.  notifier may be nil.
func NewCoordinator(store *inventory.Store, catalog CatalogService, reservations ReservationStore, notifier Notifier) *Coordinator {
	return &Coordinator{
		store:        store,
		catalog:      catalog,
		reservations: reservations,
		notifier:     notifier,
		window:       DefaultReleaseWindow,
	}
}

// SetReleaseWindow overrides the confirmation window.  Must be
// called before the coordinator handles traffic.
func (co *Coordinator) SetReleaseWindow(d time.Duration) { co.window = d }

// attempt states: the release timer and the confirming goroutine
// race on a single CAS, so exactly one of them wins the attempt.
const (
	stateArmed int32 = iota
	stateConfirmed
	stateCancelled
	stateExpired
)

// attempt carries the mutable state shared between a booking call
// and its release timer.  res and rolledBack are guarded by mu; the
// timer goroutine reads them only after winning the expiry CAS.
type attempt struct {
	state      atomic.Int32
	timer      *time.Timer
	showtimeID string
	seats      []string

	mu         sync.Mutex
	res        *model.Reservation
	rolledBack bool
}

func (a *attempt) setReservation(res *model.Reservation) {
	a.mu.Lock()
	a.res = res
	a.mu.Unlock()
}

func (a *attempt) markRolledBack() {
	a.mu.Lock()
	a.rolledBack = true
	a.mu.Unlock()
}

func (a *attempt) snapshot() (*model.Reservation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.res, a.rolledBack
}

// AttemptBooking reserves the requested seats for the user on the
// given showtime.  On success it returns the confirmed reservation
// and an optional advisory message.  On failure the showtime
// inventory is returned to its pre-attempt state and one of the
// taxonomy errors is returned: inventory.ErrShowtimeNotFound, a
// *SeatConflictError, a wrapped catalog not-found error, or
// ErrReleaseWindowExpired when the release timer won the race.
func (co *Coordinator) AttemptBooking(ctx context.Context, userID uint64, showtimeID string, seatNums []string, glasses bool) (*model.Reservation, string, error) {
	seats := dedupe(seatNums)
	if len(seats) == 0 {
		return nil, "", ErrNoSeatsRequested
	}

	// Serialization point: everything below runs under the
	// showtime's record lock.
	sess, err := co.store.Acquire(showtimeID)
	if err != nil {
		return nil, "", err
	}
	defer sess.Release()
	inv := sess.Inventory()

	// All-or-nothing validation: collect every offending seat.
	var conflict []string
	for _, num := range seats {
		seat := inv.Seat(num)
		if seat == nil || seat.IsReserved {
			conflict = append(conflict, num)
		}
	}
	if len(conflict) > 0 {
		return nil, "", &SeatConflictError{Seats: conflict}
	}

	markSeats(inv, seats, true)
	if err := sess.Save(ctx); err != nil {
		markSeats(inv, seats, false)
		return nil, "", fmt.Errorf("persist inventory: %w", err)
	}

	att := &attempt{showtimeID: showtimeID, seats: seats}
	att.timer = time.AfterFunc(co.window, func() { co.releaseExpired(att) })

	film, err := co.catalog.Film(ctx, inv.FilmID)
	if err != nil {
		co.rollback(ctx, sess, att, 0, 0, false)
		return nil, "", fmt.Errorf("load film: %w", err)
	}
	hall, err := co.catalog.Hall(ctx, inv.HallID)
	if err != nil {
		co.rollback(ctx, sess, att, 0, 0, false)
		return nil, "", fmt.Errorf("load hall: %w", err)
	}

	price := int64(len(seats)) * hall.Price
	message := ""
	if film.Type == model.FilmType3D {
		if glasses {
			price += GlassesSurcharge
		} else {
			message = glassesAdvisory
		}
	}

	if err := co.catalog.AddFilmTotals(ctx, film.ID, len(seats), price); err != nil {
		co.rollback(ctx, sess, att, 0, 0, false)
		return nil, "", fmt.Errorf("update film totals: %w", err)
	}

	res := &model.Reservation{
		ID:         uuid.NewString(),
		UserID:     userID,
		FilmID:     film.ID,
		HallID:     hall.ID,
		Showtime:   inv.Showtime,
		Seats:      seats,
		TotalPrice: price,
		Glasses:    glasses,
		Status:     model.ReservationPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := co.reservations.Create(ctx, res); err != nil {
		co.rollback(ctx, sess, att, len(seats), price, true)
		return nil, "", fmt.Errorf("create reservation: %w", err)
	}
	att.setReservation(res)

	// Confirmation races the release timer on the attempt state.
	if !att.state.CompareAndSwap(stateArmed, stateConfirmed) {
		// Timer expired first.  Leave the seats and the pending
		// reservation to the timer goroutine, which is blocked on
		// this showtime's lock and will reverse them.  Film totals
		// stay: an expired attempt still counts as interest.
		return nil, "", ErrReleaseWindowExpired
	}
	att.timer.Stop()

	if err := co.reservations.SetStatus(ctx, res.ID, model.ReservationConfirmed); err != nil {
		co.undoSeats(ctx, sess, seats)
		co.undoTotals(ctx, film.ID, len(seats), price)
		if derr := co.reservations.SetStatus(ctx, res.ID, model.ReservationReleased); derr != nil {
			log.Printf("booking: release reservation %s after failed confirm: %v", res.ID, derr)
		}
		att.markRolledBack()
		return nil, "", fmt.Errorf("confirm reservation: %w", err)
	}
	res.Status = model.ReservationConfirmed

	if co.notifier != nil {
		co.notifier.ReservationConfirmed(res, message)
	}
	return res, message, nil
}

// rollback undoes the attempt's mutations while the session lock is
// still held.  totalsApplied reports whether film totals were
// incremented before the failure.  When the release timer already
// fired, seat reversal is left to the timer goroutine (it performs
// the same idempotent unmark once it gets the lock).
func (co *Coordinator) rollback(ctx context.Context, sess *inventory.Session, att *attempt, seatCount int, price int64, totalsApplied bool) {
	if att.state.CompareAndSwap(stateArmed, stateCancelled) {
		att.timer.Stop()
	}
	co.undoSeats(ctx, sess, att.seats)
	if totalsApplied {
		co.undoTotals(ctx, sess.Inventory().FilmID, seatCount, price)
	}
	att.markRolledBack()
}

func (co *Coordinator) undoSeats(ctx context.Context, sess *inventory.Session, seats []string) {
	inv := sess.Inventory()
	for _, num := range seats {
		seat := inv.Seat(num)
		if seat == nil {
			log.Printf("booking: %v: seat %s vanished from showtime %s", ErrInventoryCorrupted, num, inv.ID)
			continue
		}
		seat.IsReserved = false
	}
	if err := sess.Save(ctx); err != nil {
		log.Printf("booking: persist rollback for showtime %s: %v", inv.ID, err)
	}
}

func (co *Coordinator) undoTotals(ctx context.Context, filmID uint64, seatCount int, price int64) {
	if err := co.catalog.AddFilmTotals(ctx, filmID, -seatCount, -price); err != nil {
		log.Printf("booking: revert totals for film %d: %v", filmID, err)
	}
}

// releaseExpired runs on the release timer.  It competes for the
// showtime's lock exactly like a normal booking attempt, reverses
// the seat marks, releases the pending reservation, and reports the
// timeout outcome exactly once.
func (co *Coordinator) releaseExpired(att *attempt) {
	if !att.state.CompareAndSwap(stateArmed, stateExpired) {
		return
	}
	ctx := context.Background()
	sess, err := co.store.Acquire(att.showtimeID)
	if err != nil {
		// The refresh job replaced the inventory while the attempt
		// was pending; the seats no longer exist to free.
		log.Printf("booking: release after expiry: %v", err)
	} else {
		// The attempt held this lock until it returned, so the
		// snapshot below sees its final writes.
		if _, rolledBack := att.snapshot(); rolledBack {
			sess.Release()
			return
		}
		co.undoSeats(ctx, sess, att.seats)
		sess.Release()
	}
	res, rolledBack := att.snapshot()
	if res == nil || rolledBack {
		return
	}
	if err := co.reservations.SetStatus(ctx, res.ID, model.ReservationReleased); err != nil {
		log.Printf("booking: release reservation %s: %v", res.ID, err)
	}
	res.Status = model.ReservationReleased
	if co.notifier != nil {
		co.notifier.ReservationTimedOut(res)
	}
}

func markSeats(inv *model.ShowtimeInventory, seats []string, reserved bool) {
	for _, num := range seats {
		if seat := inv.Seat(num); seat != nil {
			seat.IsReserved = reserved
		}
	}
}

// dedupe trims and deduplicates seat numbers preserving order.
func dedupe(seatNums []string) []string {
	seen := make(map[string]struct{}, len(seatNums))
	out := make([]string, 0, len(seatNums))
	for _, num := range seatNums {
		if num == "" {
			continue
		}
		if _, ok := seen[num]; ok {
			continue
		}
		seen[num] = struct{}{}
		out = append(out, num)
	}
	return out
}
