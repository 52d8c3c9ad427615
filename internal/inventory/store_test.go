package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// fakePersister records write-through calls and can be told to fail.
type fakePersister struct {
	mu          sync.Mutex
	saves       int
	replaceAlls int
	failReplace bool
}

func (p *fakePersister) ReplaceAll(_ context.Context, _ []*model.ShowtimeInventory) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failReplace {
		return errors.New("persister down")
	}
	p.replaceAlls++
	return nil
}

func (p *fakePersister) Save(_ context.Context, _ *model.ShowtimeInventory) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	return nil
}

func testInventory(t *testing.T, id string, capacity int) *model.ShowtimeInventory {
	t.Helper()
	seats, err := Layout(capacity)
	require.NoError(t, err)
	return &model.ShowtimeInventory{
		ID:       id,
		FilmID:   1,
		HallID:   1,
		Showtime: time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC),
		Seats:    seats,
	}
}

func TestAcquireUnknownShowtime(t *testing.T) {
	store := NewStore(nil)
	_, err := store.Acquire("missing")
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestSessionMutatesAndSaves(t *testing.T) {
	repo := &fakePersister{}
	store := NewStore(repo)
	store.Restore([]*model.ShowtimeInventory{testInventory(t, "st-1", 9)})

	sess, err := store.Acquire("st-1")
	require.NoError(t, err)
	sess.Inventory().Seat("2B").IsReserved = true
	require.NoError(t, sess.Save(context.Background()))
	sess.Release()

	assert.Equal(t, 1, repo.saves)
	avail, err := store.AvailableSeats("st-1")
	require.NoError(t, err)
	assert.Len(t, avail, 8)
	assert.NotContains(t, avail, "2B")
}

func TestGetReturnsDeepCopy(t *testing.T) {
	store := NewStore(nil)
	store.Restore([]*model.ShowtimeInventory{testInventory(t, "st-1", 4)})

	cp, err := store.Get("st-1")
	require.NoError(t, err)
	cp.Seat("1A").IsReserved = true

	avail, err := store.AvailableSeats("st-1")
	require.NoError(t, err)
	assert.Contains(t, avail, "1A", "mutating a copy must not touch the store")
}

func TestSameShowtimeSerializes(t *testing.T) {
	store := NewStore(nil)
	store.Restore([]*model.ShowtimeInventory{testInventory(t, "st-1", 4)})

	first, err := store.Acquire("st-1")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		sess, err := store.Acquire("st-1")
		assert.NoError(t, err)
		close(acquired)
		sess.Release()
	}()

	select {
	case <-acquired:
		t.Fatal("second session started while first still held the lock")
	case <-time.After(50 * time.Millisecond):
	}

	first.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second session never started after release")
	}
}

func TestDifferentShowtimesRunInParallel(t *testing.T) {
	store := NewStore(nil)
	store.Restore([]*model.ShowtimeInventory{
		testInventory(t, "st-1", 4),
		testInventory(t, "st-2", 4),
	})

	first, err := store.Acquire("st-1")
	require.NoError(t, err)
	defer first.Release()

	acquired := make(chan struct{})
	go func() {
		sess, err := store.Acquire("st-2")
		assert.NoError(t, err)
		sess.Release()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("session for a different showtime blocked")
	}
}

func TestReplaceAllWaitsForSessions(t *testing.T) {
	store := NewStore(nil)
	store.Restore([]*model.ShowtimeInventory{testInventory(t, "st-old", 4)})

	sess, err := store.Acquire("st-old")
	require.NoError(t, err)

	swapped := make(chan struct{})
	go func() {
		err := store.ReplaceAll(context.Background(), []*model.ShowtimeInventory{testInventory(t, "st-new", 4)})
		assert.NoError(t, err)
		close(swapped)
	}()

	select {
	case <-swapped:
		t.Fatal("rebuild swapped while a session was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	sess.Release()
	select {
	case <-swapped:
	case <-time.After(time.Second):
		t.Fatal("rebuild never completed after session release")
	}

	_, err = store.Acquire("st-old")
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
	_, err = store.AvailableSeats("st-new")
	assert.NoError(t, err)
}

func TestReplaceAllPersisterFailureKeepsOldWindow(t *testing.T) {
	repo := &fakePersister{failReplace: true}
	store := NewStore(repo)
	store.Restore([]*model.ShowtimeInventory{testInventory(t, "st-old", 4)})

	err := store.ReplaceAll(context.Background(), []*model.ShowtimeInventory{testInventory(t, "st-new", 4)})
	require.Error(t, err)

	_, err = store.AvailableSeats("st-old")
	assert.NoError(t, err, "old window must survive a failed swap")
	_, err = store.Acquire("st-new")
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestRestoreSkipsPersister(t *testing.T) {
	repo := &fakePersister{}
	store := NewStore(repo)
	store.Restore([]*model.ShowtimeInventory{testInventory(t, "st-1", 4)})
	assert.Equal(t, 0, repo.replaceAlls)
	assert.Equal(t, 1, store.Len())
}

func TestListOmitsSeatsAndSorts(t *testing.T) {
	store := NewStore(nil)
	early := testInventory(t, "st-early", 4)
	late := testInventory(t, "st-late", 4)
	late.Showtime = early.Showtime.Add(2 * time.Hour)
	store.Restore([]*model.ShowtimeInventory{late, early})

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "st-early", list[0].ID)
	assert.Equal(t, "st-late", list[1].ID)
	for _, inv := range list {
		assert.Nil(t, inv.Seats)
	}
}
