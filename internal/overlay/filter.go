package overlay

// FirstOrderFilter is an exponential low-pass filter over successive raw
// samples, used only to produce a jitter-free displayed number. Zone
// coloring and bar geometry always use the raw value.
type FirstOrderFilter struct {
	X     float64
	alpha float64
}

// NewFirstOrderFilter creates a filter seeded at x0 with the given time
// constant and update period, both in seconds.
func NewFirstOrderFilter(x0, timeConstant, dt float64) *FirstOrderFilter {
	return &FirstOrderFilter{
		X:     x0,
		alpha: dt / (timeConstant + dt),
	}
}

// Update advances the filter with one raw sample and returns the filtered
// value.
func (f *FirstOrderFilter) Update(raw float64) float64 {
	f.X += (raw - f.X) * f.alpha
	return f.X
}
