package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticketing/internal/inventory"
	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

// fakeCatalog serves one film and one hall and tracks the running
// film totals like the SQL increment does.
type fakeCatalog struct {
	mu       sync.Mutex
	film     model.Film
	hall     model.Hall
	audience int
	revenue  int64
}

func (c *fakeCatalog) Film(_ context.Context, id uint64) (model.Film, error) {
	if id != c.film.ID {
		return model.Film{}, repository.ErrFilmNotFound
	}
	return c.film, nil
}

func (c *fakeCatalog) Hall(_ context.Context, id uint64) (model.Hall, error) {
	if id != c.hall.ID {
		return model.Hall{}, repository.ErrHallNotFound
	}
	return c.hall, nil
}

func (c *fakeCatalog) AddFilmTotals(_ context.Context, _ uint64, audience int, revenue int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audience += audience
	c.revenue += revenue
	return nil
}

func (c *fakeCatalog) totals() (int, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.audience, c.revenue
}

// fakeReservations keeps reservations in memory.  createDelay
// simulates a slow persistence layer so tests can force the release
// timer to win.
type fakeReservations struct {
	mu          sync.Mutex
	created     []*model.Reservation
	statuses    map[string]string
	createDelay time.Duration
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{statuses: make(map[string]string)}
}

func (r *fakeReservations) Create(_ context.Context, res *model.Reservation) error {
	if r.createDelay > 0 {
		time.Sleep(r.createDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *res
	r.created = append(r.created, &cp)
	r.statuses[res.ID] = res.Status
	return nil
}

func (r *fakeReservations) SetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.statuses[id]; !ok {
		return repository.ErrReservationNotFound
	}
	r.statuses[id] = status
	return nil
}

func (r *fakeReservations) status(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statuses[id]
}

func (r *fakeReservations) all() []*model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Reservation, len(r.created))
	copy(out, r.created)
	return out
}

// fakeNotifier counts outcome notifications.
type fakeNotifier struct {
	mu        sync.Mutex
	confirmed int
	timedOut  int
}

func (n *fakeNotifier) ReservationConfirmed(_ *model.Reservation, _ string) {
	n.mu.Lock()
	n.confirmed++
	n.mu.Unlock()
}

func (n *fakeNotifier) ReservationTimedOut(_ *model.Reservation) {
	n.mu.Lock()
	n.timedOut++
	n.mu.Unlock()
}

func (n *fakeNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.confirmed, n.timedOut
}

type testRig struct {
	co         *Coordinator
	store      *inventory.Store
	catalog    *fakeCatalog
	res        *fakeReservations
	notif      *fakeNotifier
	showtimeID string
}

func newTestRig(t *testing.T, capacity int, price int64, filmType string) *testRig {
	t.Helper()
	seats, err := inventory.Layout(capacity)
	require.NoError(t, err)

	store := inventory.NewStore(nil)
	store.Restore([]*model.ShowtimeInventory{{
		ID:       "st-1",
		FilmID:   1,
		HallID:   1,
		Showtime: time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC),
		Seats:    seats,
	}})

	catalog := &fakeCatalog{
		film: model.Film{ID: 1, Title: "Arrival", Type: filmType, HallID: 1},
		hall: model.Hall{ID: 1, Capacity: uint32(capacity), Price: price},
	}
	res := newFakeReservations()
	notif := &fakeNotifier{}
	return &testRig{
		co:         NewCoordinator(store, catalog, res, notif),
		store:      store,
		catalog:    catalog,
		res:        res,
		notif:      notif,
		showtimeID: "st-1",
	}
}

func TestBookingEndToEnd(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType2D)

	res, message, err := rig.co.AttemptBooking(context.Background(), 42, rig.showtimeID, []string{"1A", "2A"}, false)
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Equal(t, []string{"1A", "2A"}, res.Seats)
	assert.Equal(t, int64(20), res.TotalPrice)
	assert.Equal(t, model.ReservationConfirmed, res.Status)
	assert.Equal(t, uint64(42), res.UserID)

	avail, err := rig.store.AvailableSeats(rig.showtimeID)
	require.NoError(t, err)
	assert.Len(t, avail, 14)
	assert.NotContains(t, avail, "1A")
	assert.NotContains(t, avail, "2A")

	audience, revenue := rig.catalog.totals()
	assert.Equal(t, 2, audience)
	assert.Equal(t, int64(20), revenue)
	assert.Equal(t, model.ReservationConfirmed, rig.res.status(res.ID))

	confirmed, timedOut := rig.notif.counts()
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 0, timedOut)
}

func TestBookingConflictListsAllOffendingSeats(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType2D)
	_, _, err := rig.co.AttemptBooking(context.Background(), 1, rig.showtimeID, []string{"2A"}, false)
	require.NoError(t, err)

	_, _, err = rig.co.AttemptBooking(context.Background(), 2, rig.showtimeID, []string{"1A", "2A", "9Z"}, false)
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ElementsMatch(t, []string{"2A", "9Z"}, conflict.Seats)

	// All-or-nothing: the valid seat from the rejected request stays free.
	avail, err := rig.store.AvailableSeats(rig.showtimeID)
	require.NoError(t, err)
	assert.Contains(t, avail, "1A")
}

func TestBookingRejectsEmptyAndUnknown(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType2D)

	_, _, err := rig.co.AttemptBooking(context.Background(), 1, rig.showtimeID, nil, false)
	assert.ErrorIs(t, err, ErrNoSeatsRequested)

	_, _, err = rig.co.AttemptBooking(context.Background(), 1, rig.showtimeID, []string{"", ""}, false)
	assert.ErrorIs(t, err, ErrNoSeatsRequested)

	_, _, err = rig.co.AttemptBooking(context.Background(), 1, "nope", []string{"1A"}, false)
	assert.ErrorIs(t, err, inventory.ErrShowtimeNotFound)
}

func TestBookingDeduplicatesSeats(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType2D)
	res, _, err := rig.co.AttemptBooking(context.Background(), 1, rig.showtimeID, []string{"1A", "1A", "2A"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "2A"}, res.Seats)
	assert.Equal(t, int64(20), res.TotalPrice)
}

func TestBookingGlassesSurcharge(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType3D)
	res, message, err := rig.co.AttemptBooking(context.Background(), 1, rig.showtimeID, []string{"1A", "2A"}, true)
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Equal(t, int64(2*10+GlassesSurcharge), res.TotalPrice)
	assert.True(t, res.Glasses)
}

func TestBookingGlassesAdvisory(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType3D)
	res, message, err := rig.co.AttemptBooking(context.Background(), 1, rig.showtimeID, []string{"1A"}, false)
	require.NoError(t, err)
	assert.Equal(t, "This is a 3D film, please include glasses.", message)
	assert.Equal(t, int64(10), res.TotalPrice, "advisory must not change the price")
}

func TestConcurrentDisjointBookingsBothSucceed(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType2D)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	seatSets := [][]string{{"1A", "2A"}, {"3A", "4A"}}
	for i := range seatSets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = rig.co.AttemptBooking(context.Background(), uint64(i+1), rig.showtimeID, seatSets[i], false)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	avail, err := rig.store.AvailableSeats(rig.showtimeID)
	require.NoError(t, err)
	assert.Len(t, avail, 12)
	audience, revenue := rig.catalog.totals()
	assert.Equal(t, 4, audience)
	assert.Equal(t, int64(40), revenue)
}

func TestConcurrentOverlappingBookingsOneWins(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType2D)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = rig.co.AttemptBooking(context.Background(), uint64(i+1), rig.showtimeID, []string{"1A"}, false)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var conflict *SeatConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{"1A"}, conflict.Seats)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	// The losing attempt must not have touched totals.
	audience, revenue := rig.catalog.totals()
	assert.Equal(t, 1, audience)
	assert.Equal(t, int64(10), revenue)
}

func TestReleaseWindowExpiryFreesSeats(t *testing.T) {
	rig := newTestRig(t, 16, 10, model.FilmType2D)
	rig.co.SetReleaseWindow(20 * time.Millisecond)
	rig.res.createDelay = 80 * time.Millisecond

	_, _, err := rig.co.AttemptBooking(context.Background(), 1, rig.showtimeID, []string{"1A", "2A"}, false)
	require.ErrorIs(t, err, ErrReleaseWindowExpired)

	// The timer goroutine reverses the seats after the attempt
	// releases the showtime lock.
	require.Eventually(t, func() bool {
		avail, err := rig.store.AvailableSeats(rig.showtimeID)
		return err == nil && len(avail) == 16
	}, time.Second, 5*time.Millisecond, "expired seats never returned to the pool")

	created := rig.res.all()
	require.Len(t, created, 1)
	require.Eventually(t, func() bool {
		return rig.res.status(created[0].ID) == model.ReservationReleased
	}, time.Second, 5*time.Millisecond)

	// Film totals deliberately survive an expiry.
	audience, revenue := rig.catalog.totals()
	assert.Equal(t, 2, audience)
	assert.Equal(t, int64(20), revenue)

	require.Eventually(t, func() bool {
		confirmed, timedOut := rig.notif.counts()
		return confirmed == 0 && timedOut == 1
	}, time.Second, 5*time.Millisecond, "timeout must be reported exactly once")

	// The freed seats are immediately bookable again.
	rig.res.createDelay = 0
	rig.co.SetReleaseWindow(DefaultReleaseWindow)
	res, _, err := rig.co.AttemptBooking(context.Background(), 2, rig.showtimeID, []string{"1A", "2A"}, false)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, res.Status)
}

func TestReservedSeatsMatchSuccessfulReservations(t *testing.T) {
	rig := newTestRig(t, 25, 5, model.FilmType2D)

	// Many goroutines fight over a small seat pool; afterwards the
	// reserved set must equal the union of the winners' seats.
	requests := [][]string{
		{"1A", "2A"}, {"2A", "3A"}, {"3A", "4A"}, {"1B"}, {"1B", "2B"},
		{"5A"}, {"5A", "1C"}, {"2C", "3C"}, {"3C"}, {"4C", "5C"},
	}
	var wg sync.WaitGroup
	results := make([]*model.Reservation, len(requests))
	for i, seats := range requests {
		wg.Add(1)
		go func(i int, seats []string) {
			defer wg.Done()
			res, _, err := rig.co.AttemptBooking(context.Background(), uint64(i+1), rig.showtimeID, seats, false)
			if err == nil {
				results[i] = res
			}
		}(i, seats)
	}
	wg.Wait()

	won := make(map[string]int)
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, seat := range res.Seats {
			won[seat]++
		}
	}
	for seat, n := range won {
		assert.Equal(t, 1, n, "seat %s sold more than once", seat)
	}

	inv, err := rig.store.Get(rig.showtimeID)
	require.NoError(t, err)
	reserved := make(map[string]bool)
	for _, s := range inv.Seats {
		if s.IsReserved {
			reserved[s.SeatNum] = true
		}
	}
	assert.Len(t, reserved, len(won))
	for seat := range won {
		assert.True(t, reserved[seat], "winner seat %s not reserved in inventory", seat)
	}
}
