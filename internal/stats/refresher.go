package stats

import "github.com/revhud/overlay/pkg/telemetry"

// Refresher polls the store once every interval ticks. Between refreshes it
// serves the cached snapshot. A failed or empty read replaces the cache with
// the zero snapshot; stale partial data is never retained.
type Refresher struct {
	store    Store
	key      string
	interval int

	counter int
	current telemetry.SessionStats
}

// NewRefresher creates a refresher reading the given key every interval
// ticks. The first read happens on the interval-th tick, matching the
// refresh cadence from the start of the session.
func NewRefresher(store Store, key string, interval int) *Refresher {
	return &Refresher{
		store:    store,
		key:      key,
		interval: interval,
	}
}

// Advance counts one tick and performs a synchronous read when the cadence
// comes up. It never blocks on anything slower than a local lookup and never
// returns an error.
func (r *Refresher) Advance() {
	r.counter++
	if r.counter < r.interval {
		return
	}
	r.counter = 0

	snap, err := r.store.Fetch(r.key)
	if err != nil {
		r.current = telemetry.SessionStats{}
		return
	}
	r.current = snap
}

// Current returns the cached snapshot.
func (r *Refresher) Current() telemetry.SessionStats {
	return r.current
}
