// Package feed supplies the overlay with the most recent vehicle-state
// snapshot. Delivery guarantees belong to the transport; the overlay only
// ever asks for the latest value and whether it is valid.
package feed

import (
	"sync"

	"github.com/revhud/overlay/pkg/telemetry"
)

// Source yields the most recent vehicle-state snapshot. The boolean is
// false while no valid snapshot is available, which makes the overlay skip
// the tick.
type Source interface {
	Latest() (telemetry.VehicleState, bool)
}

// Feed is an in-process Source. Publish overwrites the held snapshot;
// nothing is queued.
type Feed struct {
	mu    sync.RWMutex
	state telemetry.VehicleState
	valid bool
}

// New creates an empty feed; Latest reports invalid until the first Publish.
func New() *Feed {
	return &Feed{}
}

// Publish replaces the held snapshot.
func (f *Feed) Publish(state telemetry.VehicleState) {
	f.mu.Lock()
	f.state = state
	f.valid = true
	f.mu.Unlock()
}

// Invalidate marks the held snapshot invalid, e.g. when the transport
// disconnects.
func (f *Feed) Invalidate() {
	f.mu.Lock()
	f.valid = false
	f.mu.Unlock()
}

// Latest returns the held snapshot and whether it is valid.
func (f *Feed) Latest() (telemetry.VehicleState, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state, f.valid
}
