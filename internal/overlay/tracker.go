package overlay

// GearTracker remembers the last gear engaged while the clutch was out.
// The gear reading is unreliable during a clutch press, so rev-match targets
// are always computed relative to this value, never the raw current gear.
type GearTracker struct {
	gear int
}

// Update records the current gear when the clutch is released and the gear
// reading is valid. It is frozen otherwise.
func (t *GearTracker) Update(clutchPressed bool, gear int) {
	if !clutchPressed && gear > 0 {
		t.gear = gear
	}
}

// Gear returns the tracked pre-shift gear, 0 when none has been seen yet.
func (t *GearTracker) Gear() int {
	return t.gear
}
