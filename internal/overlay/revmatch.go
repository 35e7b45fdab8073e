package overlay

import (
	"fmt"
	"math"

	"github.com/revhud/overlay/internal/config"
	"github.com/revhud/overlay/internal/gearbox"
	"github.com/revhud/overlay/pkg/render"
	"github.com/revhud/overlay/pkg/telemetry"
)

// resolveTargets computes the rev-match target markers for the current tick.
// Targets show only while the clutch is pressed or an external shift
// suggestion is active, and only once a pre-shift gear has been tracked.
func resolveTargets(tbl *gearbox.Table, vc config.VehicleConfig, speed float64, trackedGear int, clutchPressed bool, suggestion string) []render.TargetMarker {
	show := (clutchPressed || suggestion != telemetry.SuggestionOK) && trackedGear > 0
	if !show {
		return nil
	}

	emphasis := render.EmphasisFull
	if !clutchPressed {
		emphasis = render.EmphasisReduced
	}

	var targets []render.TargetMarker

	if trackedGear > 1 {
		downRPM := tbl.TargetRPM(speed, trackedGear-1)
		switch {
		case downRPM >= vc.Redline:
			// Off-scale: clamp to the top edge with a warning marker.
			targets = append(targets, render.TargetMarker{
				Kind:     render.MarkerDownshift,
				Fraction: 1,
				RPM:      roundTo10(downRPM),
				Label:    fmt.Sprintf("%d!", roundTo10(downRPM)),
				Warning:  true,
				Emphasis: emphasis,
			})
		case downRPM > vc.MinTargetDisplay:
			targets = append(targets, render.TargetMarker{
				Kind:     render.MarkerDownshift,
				Fraction: downRPM / vc.Redline,
				RPM:      roundTo10(downRPM),
				Label:    fmt.Sprintf("%d", roundTo10(downRPM)),
				Emphasis: emphasis,
			})
		}
		// At or below the display threshold the target is too close to
		// idle to be meaningful.
	}

	if trackedGear < tbl.MaxGear() {
		upRPM := tbl.TargetRPM(speed, trackedGear+1)
		if upRPM > vc.MinTargetDisplay && upRPM < vc.Redline {
			targets = append(targets, render.TargetMarker{
				Kind:     render.MarkerUpshift,
				Fraction: upRPM / vc.Redline,
				RPM:      roundTo10(upRPM),
				Label:    fmt.Sprintf("%d", roundTo10(upRPM)),
				Emphasis: emphasis,
			})
		}
	}

	return targets
}

// roundTo10 rounds an engine speed to the nearest 10 rpm.
func roundTo10(rpm float64) int {
	return int(math.Round(rpm/10) * 10)
}
