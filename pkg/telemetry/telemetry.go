// Package telemetry defines the vehicle-state snapshot consumed by the
// overlay core and the envelope format used when streaming snapshots over
// the wire or replaying them from recorded logs.
package telemetry

import "encoding/json"

// Shift grade values reported by the car interface.
const (
	ShiftGradeNone     = 0
	ShiftGradeGood     = 1
	ShiftGradeMarginal = 2
)

// VehicleState is one snapshot of the live car state. One snapshot is read
// per rendered frame; validity is decided by whatever delivers it.
type VehicleState struct {
	EngineRPM     float64 `json:"engineRpm"`
	Gear          int     `json:"gearActual"`    // <=0 means neutral/unknown
	ShiftGrade    int     `json:"shiftGrade"`    // 0=none, 1=good, 2=marginal, other=bad
	ClutchPressed bool    `json:"clutchPressed"`
	Speed         float64 `json:"vEgo"` // m/s
	Lugging       bool    `json:"isLugging"`
}

// Shift suggestion values published alongside the session counters.
const (
	SuggestionOK        = "ok"
	SuggestionUpshift   = "upshift"
	SuggestionDownshift = "downshift"
)

// SessionStats is the counter set the drive-coach process publishes to the
// session store. The zero value is the "empty mapping": all counters zero
// and no suggestion.
type SessionStats struct {
	Launches        int    `json:"launches"`
	GoodLaunches    int    `json:"good_launches"`
	Stalls          int    `json:"stalls"`
	Lugs            int    `json:"lugs"`
	Shifts          int    `json:"shifts"`
	GoodShifts      int    `json:"good_shifts"`
	ShiftSuggestion string `json:"shift_suggestion,omitempty"`
}

// Suggestion returns the shift suggestion, defaulting to "ok" when unset so
// dependent displays fall back uniformly.
func (s SessionStats) Suggestion() string {
	if s.ShiftSuggestion == "" {
		return SuggestionOK
	}
	return s.ShiftSuggestion
}

// Message type constants for the streaming feed.
const (
	TypeVehicleState = "vehicle_state"
	TypeAck          = "ack"
)

// Envelope wraps all messages sent over the feed WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
