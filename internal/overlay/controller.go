// Package overlay is the stateful computation layer behind the manual
// transmission driving overlay. It turns the per-tick vehicle-state
// snapshot and the periodically refreshed session counters into a complete
// render model; it owns no rendering resources.
package overlay

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/metric"

	"github.com/revhud/overlay/internal/config"
	"github.com/revhud/overlay/internal/gearbox"
	"github.com/revhud/overlay/internal/stats"
	"github.com/revhud/overlay/pkg/render"
	"github.com/revhud/overlay/pkg/telemetry"
)

// Controller composes the filter, flash machine, gear tracker, rev-match
// resolver and launch classifier once per tick. All state is mutated only
// inside Tick, which must be driven by a single owning goroutine.
type Controller struct {
	vehicle config.VehicleConfig
	table   *gearbox.Table

	filter  *FirstOrderFilter
	flash   *ShiftFlash
	tracker *GearTracker
	stats   *stats.Refresher

	// OTEL metrics
	processed metric.Int64Counter
	skipped   metric.Int64Counter
}

// NewController builds a controller from the vehicle calibration and tick
// settings. Uses the global OTel meter for metrics (no-op if not configured).
func NewController(vc config.VehicleConfig, oc config.OverlayConfig, refresher *stats.Refresher) (*Controller, error) {
	c := &Controller{
		vehicle: vc,
		table: &gearbox.Table{
			Ratios:            vc.GearRatios,
			FinalDrive:        vc.FinalDrive,
			TireCircumference: vc.TireCircumference,
		},
		filter:  NewFirstOrderFilter(0, oc.FilterTimeConstant, 1/float64(oc.TickRate)),
		flash:   NewShiftFlash(oc.FlashTicks()),
		tracker: &GearTracker{},
		stats:   refresher,
	}

	m := meter()
	var err error

	c.processed, err = m.Int64Counter(
		"overlay.ticks.processed",
		metric.WithDescription("Total ticks that produced a render model"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	c.skipped, err = m.Int64Counter(
		"overlay.ticks.skipped",
		metric.WithDescription("Total ticks skipped for lack of a valid vehicle state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}

	return c, nil
}

// Tick runs one update. A nil state means the vehicle-state stream had no
// valid snapshot; the stats cadence still advances but no core state is
// mutated and no model is produced.
func (c *Controller) Tick(state *telemetry.VehicleState) (render.Model, bool) {
	c.stats.Advance()

	if state == nil {
		c.skipped.Add(context.Background(), 1)
		return render.Model{}, false
	}

	sess := c.stats.Current()

	smoothed := c.filter.Update(state.EngineRPM)
	c.flash.Update(state.ShiftGrade)
	c.tracker.Update(state.ClutchPressed, state.Gear)

	m := render.Model{
		RPMFraction: min(state.EngineRPM/c.vehicle.Redline, 1),
		Zone:        classifyZone(c.vehicle, state.EngineRPM),
		DisplayRPM:  roundTo10(smoothed),
		GearLabel:   gearLabel(state.Gear),
		GearLevel:   render.LevelNeutral,
		Suggestion:  sess.Suggestion(),
		Lugging:     state.Lugging,
	}

	if c.flash.Active() {
		switch c.flash.Grade() {
		case telemetry.ShiftGradeGood:
			m.GearLevel = render.LevelGood
			m.FlashGlyph = render.GlyphGood
		case telemetry.ShiftGradeMarginal:
			m.GearLevel = render.LevelCaution
			m.FlashGlyph = render.GlyphMarginal
		default:
			m.GearLevel = render.LevelBad
			m.FlashGlyph = render.GlyphBad
		}
	}

	switch sess.Suggestion() {
	case telemetry.SuggestionUpshift:
		m.SuggestionGlyph = render.GlyphUp
		m.SuggestionLevel = render.LevelGood
	case telemetry.SuggestionDownshift:
		m.SuggestionGlyph = render.GlyphDown
		m.SuggestionLevel = render.LevelCaution
	}

	m.LaunchLabel, m.LaunchLevel = classifyLaunch(state.Speed, state.ClutchPressed, sess)

	// The lugging banner replaces the stall/lug counters while active.
	if !state.Lugging {
		m.StallLabel = fmt.Sprintf("S:%d", sess.Stalls)
		m.StallLevel = render.LevelGood
		if sess.Stalls > 0 {
			m.StallLevel = render.LevelBad
		}
		m.LugLabel = fmt.Sprintf("L:%d", sess.Lugs)
		m.LugLevel = render.LevelGood
		if sess.Lugs > 0 {
			m.LugLevel = render.LevelCaution
		}
	}

	if sess.Shifts > 0 {
		pct := float64(sess.GoodShifts) / float64(sess.Shifts) * 100
		m.ShiftLabel = fmt.Sprintf("Sh:%d%%", int(pct))
		switch {
		case pct >= 80:
			m.ShiftLevel = render.LevelGood
		case pct >= 50:
			m.ShiftLevel = render.LevelCaution
		default:
			m.ShiftLevel = render.LevelBad
		}
	} else {
		m.ShiftLabel = "Sh:-"
		m.ShiftLevel = render.LevelNeutral
	}

	m.Targets = resolveTargets(c.table, c.vehicle, state.Speed, c.tracker.Gear(), state.ClutchPressed, sess.Suggestion())

	c.processed.Add(context.Background(), 1)
	return m, true
}

// gearLabel renders the gear number, "N" for neutral/unknown.
func gearLabel(gear int) string {
	if gear <= 0 {
		return "N"
	}
	return strconv.Itoa(gear)
}
