package overlay

// ShiftFlash is the two-state machine behind the shift-grade flash: IDLE
// until a rising edge on the raw grade (previous 0, current nonzero), then
// FLASHING for a fixed number of ticks with the grade captured at the edge.
// A grade change without an intervening zero sample neither retriggers nor
// alters the captured grade; a fresh rising edge restarts the countdown with
// the new grade.
type ShiftFlash struct {
	duration int

	lastGrade  int
	framesLeft int
	captured   int
	active     bool
}

// NewShiftFlash creates a flash timer lasting duration ticks.
func NewShiftFlash(duration int) *ShiftFlash {
	return &ShiftFlash{duration: duration}
}

// Update advances the machine one tick with the current raw grade.
func (f *ShiftFlash) Update(grade int) {
	if grade != 0 && f.lastGrade == 0 {
		f.framesLeft = f.duration
		f.captured = grade
	}
	f.lastGrade = grade

	f.active = f.framesLeft > 0
	if f.framesLeft > 0 {
		f.framesLeft--
	}
}

// Active reports whether the flash is showing this tick.
func (f *ShiftFlash) Active() bool {
	return f.active
}

// Grade returns the grade captured at the last trigger.
func (f *ShiftFlash) Grade() int {
	return f.captured
}
