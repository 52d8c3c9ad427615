package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// ErrShowtimeNotFound is returned when a showtime id does not
// reference a materialized inventory.
var ErrShowtimeNotFound = errors.New("showtime not found")

// Persister is the durability collaborator for the store.  The store
// owns coordination in-process and writes through to the persister
// while holding the relevant lock, so persisted state never runs
// ahead of or behind another writer for the same record.
type Persister interface {
	// ReplaceAll atomically replaces every persisted inventory with
	// the given set.
	ReplaceAll(ctx context.Context, invs []*model.ShowtimeInventory) error
	// Save persists the current seat state of one inventory.
	Save(ctx context.Context, inv *model.ShowtimeInventory) error
}

type record struct {
	mu  sync.Mutex
	inv *model.ShowtimeInventory
}

// Store holds the showtime inventories and enforces the locking
// discipline around them.  Bookings targeting different showtimes
// proceed in parallel; bookings targeting the same showtime
// serialize on that record's mutex.  The store-wide RWMutex is the
// rebuild barrier: every per-record session holds a read lock for
// its whole duration, and ReplaceAll takes the write lock, so a
// rebuild waits for in-flight bookings to finish and no booking ever
// observes a half-rebuilt window.
type Store struct {
	mu      sync.RWMutex
	records map[string]*record
	repo    Persister // may be nil
}

// NewStore returns an empty store.  repo may be nil when durability
// is not required (tests).
func NewStore(repo Persister) *Store {
	return &Store{records: make(map[string]*record), repo: repo}
}

// Session is an exclusive multi-step read-modify-write session on a
// single inventory record.  The caller must Release it exactly once;
// until then no other session for the same showtime can start and no
// store-wide rebuild can begin.
type Session struct {
	store    *Store
	rec      *record
	released bool
}

// Acquire locks the inventory for the given showtime and returns a
// session for it.  It blocks while another session for the same
// showtime is active.  Returns ErrShowtimeNotFound when the showtime
// is not materialized.
func (s *Store) Acquire(showtimeID string) (*Session, error) {
	s.mu.RLock()
	rec, ok := s.records[showtimeID]
	if !ok {
		s.mu.RUnlock()
		return nil, ErrShowtimeNotFound
	}
	rec.mu.Lock()
	return &Session{store: s, rec: rec}, nil
}

// Inventory returns the locked inventory record.  The pointer must
// not be retained after Release.
func (sess *Session) Inventory() *model.ShowtimeInventory {
	return sess.rec.inv
}

// Save writes the current state of the locked inventory through to
// the persister, if one is configured.
func (sess *Session) Save(ctx context.Context) error {
	if sess.store.repo == nil {
		return nil
	}
	return sess.store.repo.Save(ctx, sess.rec.inv)
}

// Release ends the session.  Safe to call only once.
func (sess *Session) Release() {
	if sess.released {
		return
	}
	sess.released = true
	sess.rec.mu.Unlock()
	sess.store.mu.RUnlock()
}

// AvailableSeats returns the seat numbers currently unreserved for
// the showtime, as one consistent snapshot taken under the record
// lock.
func (s *Store) AvailableSeats(showtimeID string) ([]string, error) {
	sess, err := s.Acquire(showtimeID)
	if err != nil {
		return nil, err
	}
	defer sess.Release()
	return sess.Inventory().AvailableSeatNums(), nil
}

// Get returns a deep copy of one inventory.
func (s *Store) Get(showtimeID string) (*model.ShowtimeInventory, error) {
	sess, err := s.Acquire(showtimeID)
	if err != nil {
		return nil, err
	}
	defer sess.Release()
	return sess.Inventory().Clone(), nil
}

// List returns copies of every inventory without seat payloads,
// sorted by showtime then film.  Used by the listing endpoint, which
// mirrors the catalog view ("all showtimes, seats omitted").
func (s *Store) List() []*model.ShowtimeInventory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.ShowtimeInventory, 0, len(s.records))
	for _, rec := range s.records {
		rec.mu.Lock()
		cp := *rec.inv
		cp.Seats = nil
		rec.mu.Unlock()
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Showtime.Equal(out[j].Showtime) {
			return out[i].Showtime.Before(out[j].Showtime)
		}
		return out[i].FilmID < out[j].FilmID
	})
	return out
}

// Len returns the number of materialized inventories.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ReplaceAll swaps the entire inventory set for a freshly built one
// and persists it.  It takes the store-wide write lock, which waits
// for every in-flight session to release: callers see either the old
// complete window or the new complete window, never a mix.  When the
// persister fails the in-memory swap is abandoned and the previous
// snapshot remains in place.
func (s *Store) ReplaceAll(ctx context.Context, invs []*model.ShowtimeInventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		if err := s.repo.ReplaceAll(ctx, invs); err != nil {
			return err
		}
	}
	s.swap(invs)
	return nil
}

// Restore loads inventories into the store without writing them back
// to the persister.  Used at process start to warm the store from
// previously persisted state.
func (s *Store) Restore(invs []*model.ShowtimeInventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swap(invs)
}

func (s *Store) swap(invs []*model.ShowtimeInventory) {
	records := make(map[string]*record, len(invs))
	for _, inv := range invs {
		records[inv.ID] = &record{inv: inv}
	}
	s.records = records
}
