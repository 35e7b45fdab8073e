// Package render defines the model handed to the drawing layer once per
// tick. It is the only boundary with presentation code: every label, glyph
// and discrete color level is decided here so the drawing layer never
// re-derives business logic, only maps levels to literal colors.
package render

// Level is a discrete color classification. The drawing layer owns the
// actual RGBA values.
type Level string

const (
	LevelNeutral Level = "neutral"
	LevelGood    Level = "good"
	LevelCaution Level = "caution"
	LevelBad     Level = "bad"
	LevelInfo    Level = "info"
)

// Zone classifies the raw engine speed for bar coloring.
type Zone string

const (
	ZoneEconomy Zone = "economy"
	ZoneCruise  Zone = "cruise"
	ZonePower   Zone = "power"
	ZoneDanger  Zone = "danger"
)

// Emphasis controls rev-match marker opacity: full when the clutch is
// physically pressed, reduced when shown only because of a shift suggestion.
type Emphasis string

const (
	EmphasisFull    Emphasis = "full"
	EmphasisReduced Emphasis = "reduced"
)

// TargetMarker direction.
type MarkerKind string

const (
	MarkerUpshift   MarkerKind = "upshift"
	MarkerDownshift MarkerKind = "downshift"
)

// Glyphs rendered next to the gear label during a shift-grade flash and for
// shift suggestions.
const (
	GlyphGood     = "✓"
	GlyphMarginal = "~"
	GlyphBad      = "✗"
	GlyphUp       = "↑"
	GlyphDown     = "↓"
)

// LugBanner is drawn in place of the stall/lug counters while the model's
// Lugging flag is set. Always bad level.
const LugBanner = "LUGGING!"

// TargetMarker is one rev-match target line on the meter. Fraction is the
// horizontal position as a share of the redline; a Warning marker is clamped
// to the top edge because the true target is off-scale.
type TargetMarker struct {
	Kind     MarkerKind `json:"kind"`
	Fraction float64    `json:"fraction"`
	RPM      int        `json:"rpm"` // rounded to nearest 10
	Label    string     `json:"label"`
	Warning  bool       `json:"warning,omitempty"`
	Emphasis Emphasis   `json:"emphasis"`
}

// Model is the complete per-tick render model.
type Model struct {
	// Meter geometry and coloring use the raw engine speed.
	RPMFraction float64 `json:"rpmFraction"`
	Zone        Zone    `json:"zone"`
	// DisplayRPM is the smoothed value rounded to the nearest 10, used only
	// for the numeric label.
	DisplayRPM int `json:"displayRpm"`

	GearLabel  string `json:"gearLabel"`
	GearLevel  Level  `json:"gearLevel"`
	FlashGlyph string `json:"flashGlyph,omitempty"` // empty unless a flash is active

	Suggestion      string `json:"suggestion"`
	SuggestionGlyph string `json:"suggestionGlyph,omitempty"`
	SuggestionLevel Level  `json:"suggestionLevel,omitempty"`

	LaunchLabel string `json:"launchLabel"`
	LaunchLevel Level  `json:"launchLevel"`

	// Lugging replaces the stall/lug counters with a banner while set.
	Lugging    bool   `json:"lugging"`
	StallLabel string `json:"stallLabel"`
	StallLevel Level  `json:"stallLevel"`
	LugLabel   string `json:"lugLabel"`
	LugLevel   Level  `json:"lugLevel"`

	ShiftLabel string `json:"shiftLabel"`
	ShiftLevel Level  `json:"shiftLevel"`

	Targets []TargetMarker `json:"targets,omitempty"`
}
