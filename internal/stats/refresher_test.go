package stats_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revhud/overlay/internal/stats"
	"github.com/revhud/overlay/internal/stats/memory"
	"github.com/revhud/overlay/pkg/telemetry"
)

// failingStore errors on every fetch.
type failingStore struct{}

func (failingStore) Fetch(string) (telemetry.SessionStats, error) {
	return telemetry.SessionStats{Launches: 99}, errors.New("store unavailable")
}

func (failingStore) Close() error { return nil }

func TestRefresher_Cadence(t *testing.T) {
	store := memory.New()
	store.Put("session", telemetry.SessionStats{Launches: 3, GoodLaunches: 2})

	r := stats.NewRefresher(store, "session", 15)

	// Nothing is read before the cadence comes up.
	for i := 0; i < 14; i++ {
		r.Advance()
		assert.Zero(t, r.Current().Launches, "tick %d", i+1)
	}

	r.Advance()
	assert.Equal(t, 3, r.Current().Launches)
	assert.Equal(t, 2, r.Current().GoodLaunches)
}

func TestRefresher_PicksUpStoreChanges(t *testing.T) {
	store := memory.New()
	store.Put("session", telemetry.SessionStats{Shifts: 1})

	r := stats.NewRefresher(store, "session", 2)
	r.Advance()
	r.Advance()
	assert.Equal(t, 1, r.Current().Shifts)

	store.Put("session", telemetry.SessionStats{Shifts: 5, GoodShifts: 4})
	r.Advance()
	assert.Equal(t, 1, r.Current().Shifts, "cached between refreshes")
	r.Advance()
	assert.Equal(t, 5, r.Current().Shifts)
	assert.Equal(t, 4, r.Current().GoodShifts)
}

func TestRefresher_FailSoft(t *testing.T) {
	store := memory.New()
	store.Put("session", telemetry.SessionStats{Launches: 7})

	r := stats.NewRefresher(store, "session", 1)
	r.Advance()
	assert.Equal(t, 7, r.Current().Launches)

	// A failed read resets to the empty snapshot; it never keeps stale data.
	failing := stats.NewRefresher(failingStore{}, "session", 1)
	failing.Advance()
	assert.Equal(t, telemetry.SessionStats{}, failing.Current())
}

func TestRefresher_MissingKeyYieldsEmpty(t *testing.T) {
	r := stats.NewRefresher(memory.New(), "nope", 1)
	r.Advance()
	assert.Equal(t, telemetry.SessionStats{}, r.Current())
	assert.Equal(t, telemetry.SuggestionOK, r.Current().Suggestion())
}
