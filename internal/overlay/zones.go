package overlay

import (
	"github.com/revhud/overlay/internal/config"
	"github.com/revhud/overlay/pkg/render"
)

// classifyZone maps a raw engine speed to its meter color zone. The
// smoothed display value is never used here; smoothing must not move
// classification thresholds.
func classifyZone(vc config.VehicleConfig, rpm float64) render.Zone {
	switch {
	case rpm < vc.EconomyMax:
		return render.ZoneEconomy
	case rpm < vc.PowerMin:
		return render.ZoneCruise
	case rpm < vc.DangerMin:
		return render.ZonePower
	default:
		return render.ZoneDanger
	}
}
