// Package gearbox holds the fixed drivetrain constants for one vehicle and
// the single physics primitive all rev-match logic is built on.
package gearbox

// Table maps gear numbers to transmission ratios, together with the final
// drive ratio and the driven-tire circumference in meters. It is immutable
// for the lifetime of the overlay.
type Table struct {
	Ratios            map[int]float64
	FinalDrive        float64
	TireCircumference float64
}

// MaxGear returns the highest gear present in the table, 0 when empty.
func (t *Table) MaxGear() int {
	max := 0
	for g := range t.Ratios {
		if g > max {
			max = g
		}
	}
	return max
}

// TargetRPM returns the engine speed the vehicle would turn at the given
// road speed (m/s) in the given gear. Unknown gears and non-positive speeds
// resolve to 0, which callers treat as "no valid target".
func (t *Table) TargetRPM(speedMS float64, gear int) float64 {
	ratio, ok := t.Ratios[gear]
	if !ok || speedMS <= 0 {
		return 0
	}
	return speedMS * t.FinalDrive * ratio * 60 / t.TireCircumference
}
