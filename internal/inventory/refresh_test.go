package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// fakeCatalog serves a fixed film/hall set and can fail on demand.
type fakeCatalog struct {
	films     map[uint64]model.Film
	halls     map[uint64]model.Hall
	failFilms bool
	daysAsked []time.Time
}

func (c *fakeCatalog) FilmsActiveOn(_ context.Context, day time.Time) ([]model.Film, error) {
	c.daysAsked = append(c.daysAsked, day)
	if c.failFilms {
		return nil, errors.New("catalog down")
	}
	var out []model.Film
	for _, f := range c.films {
		if f.ActiveOn(day) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (c *fakeCatalog) Hall(_ context.Context, id uint64) (model.Hall, error) {
	h, ok := c.halls[id]
	if !ok {
		return model.Hall{}, errors.New("hall not found")
	}
	return h, nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.June, 10, 14, 0, 0, 0, time.UTC)
}

func newTestRefresh(store *Store, catalog *fakeCatalog) *RefreshJob {
	j := NewRefreshJob(store, catalog)
	j.now = fixedNow
	return j
}

func TestRebuildMaterializesHorizon(t *testing.T) {
	catalog := &fakeCatalog{
		films: map[uint64]model.Film{
			1: {
				ID: 1, Title: "Dune III", HallID: 7,
				ReleaseDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
				RemoveDate:  time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
			},
		},
		halls: map[uint64]model.Hall{7: {ID: 7, Capacity: 9, Price: 12}},
	}
	store := NewStore(nil)
	require.NoError(t, newTestRefresh(store, catalog).Rebuild(context.Background()))

	// One film, every slot of every horizon day.
	assert.Equal(t, HorizonDays*SlotsPerDay, store.Len())

	seen := make(map[string]struct{})
	for _, inv := range store.List() {
		_, dup := seen[inv.ID]
		require.False(t, dup, "duplicate inventory id %s", inv.ID)
		seen[inv.ID] = struct{}{}
		assert.Equal(t, uint64(1), inv.FilmID)
		assert.Equal(t, uint64(7), inv.HallID)

		full, err := store.Get(inv.ID)
		require.NoError(t, err)
		assert.Len(t, full.Seats, 9)
		assert.Len(t, full.AvailableSeatNums(), 9, "fresh inventories start fully available")
	}

	require.Len(t, catalog.daysAsked, HorizonDays)
	for i, day := range catalog.daysAsked {
		assert.Equal(t, fixedNow().AddDate(0, 0, i).Format("2006-01-02"), day.Format("2006-01-02"))
	}
}

func TestRebuildSkipsInactiveFilms(t *testing.T) {
	catalog := &fakeCatalog{
		films: map[uint64]model.Film{
			1: {
				ID: 1, HallID: 7,
				ReleaseDate: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
				RemoveDate:  time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		halls: map[uint64]model.Hall{7: {ID: 7, Capacity: 9}},
	}
	store := NewStore(nil)
	require.NoError(t, newTestRefresh(store, catalog).Rebuild(context.Background()))
	assert.Equal(t, 0, store.Len())
}

func TestRebuildErrorLeavesPreviousWindow(t *testing.T) {
	store := NewStore(nil)
	store.Restore([]*model.ShowtimeInventory{testInventory(t, "st-prev", 4)})

	catalog := &fakeCatalog{failFilms: true}
	err := newTestRefresh(store, catalog).Rebuild(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, store.Len())
	_, err = store.AvailableSeats("st-prev")
	assert.NoError(t, err)
}

func TestRebuildMissingHallAborts(t *testing.T) {
	catalog := &fakeCatalog{
		films: map[uint64]model.Film{
			1: {
				ID: 1, HallID: 99,
				ReleaseDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
				RemoveDate:  time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
			},
		},
		halls: map[uint64]model.Hall{},
	}
	store := NewStore(nil)
	store.Restore([]*model.ShowtimeInventory{testInventory(t, "st-prev", 4)})

	err := newTestRefresh(store, catalog).Rebuild(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestNextMidnight(t *testing.T) {
	now := time.Date(2026, time.June, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC), nextMidnight(now))
}
