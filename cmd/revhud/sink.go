package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/revhud/overlay/internal/feed"
	"github.com/revhud/overlay/internal/overlay"
	"github.com/revhud/overlay/pkg/render"
	"github.com/revhud/overlay/pkg/telemetry"
)

// tick pulls the newest snapshot from the feed, passing nil through when the
// stream has no valid state so the controller counts a skipped frame.
func tick(ctrl *overlay.Controller, src feed.Source) (render.Model, bool) {
	var snap *telemetry.VehicleState
	if state, ok := src.Latest(); ok {
		snap = &state
	}
	return ctrl.Tick(snap)
}

// modelSink hands finished render models to whoever consumes them. The
// drawing layer attaches in-process on the vehicle build; here the only
// consumer is the optional JSON-lines dump used for debugging.
type modelSink struct {
	enc    *json.Encoder
	logger *slog.Logger
}

func newModelSink(w io.Writer, logger *slog.Logger) *modelSink {
	s := &modelSink{logger: logger}
	if w != nil {
		s.enc = json.NewEncoder(w)
	}
	return s
}

// Emit writes the model if a dump target is attached. A write failure
// disables the dump rather than killing the tick loop.
func (s *modelSink) Emit(m render.Model) {
	if s.enc == nil {
		return
	}
	if err := s.enc.Encode(m); err != nil {
		s.logger.Warn("Failed to write render model", "error", err)
		s.enc = nil
	}
}
