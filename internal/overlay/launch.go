package overlay

import (
	"fmt"

	"github.com/revhud/overlay/pkg/render"
	"github.com/revhud/overlay/pkg/telemetry"
)

// Launch detection speed window in m/s.
const (
	launchSpeedMin = 0.5
	launchSpeedMax = 5.0
)

// classifyLaunch derives the launch line for the current tick. Purely
// derived, no persisted state: a transient "launching" banner inside the
// speed window with the clutch out, otherwise the session success ratio.
func classifyLaunch(speed float64, clutchPressed bool, sess telemetry.SessionStats) (string, render.Level) {
	if speed > launchSpeedMin && speed < launchSpeedMax && !clutchPressed {
		return "LAUNCHING...", render.LevelInfo
	}

	if sess.Launches > 0 {
		pct := float64(sess.GoodLaunches) / float64(sess.Launches) * 100
		level := render.LevelNeutral
		switch {
		case pct >= 75:
			level = render.LevelGood
		case pct >= 50:
			level = render.LevelCaution
		}
		return fmt.Sprintf("Launch: %d/%d", sess.GoodLaunches, sess.Launches), level
	}

	return "Launch: -", render.LevelNeutral
}
