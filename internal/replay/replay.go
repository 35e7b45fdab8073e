// Package replay feeds recorded vehicle-state logs through the overlay
// core, one tick per record, and optionally serializes the resulting render
// models for offline diffing. Recordings are JSON lines, gzipped or plain.
package replay

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/revhud/overlay/internal/overlay"
	"github.com/revhud/overlay/pkg/telemetry"
)

// Runner drives a controller from a recorded log.
type Runner struct {
	ctrl   *overlay.Controller
	logger *slog.Logger
}

// NewRunner creates a replay runner over the given controller.
func NewRunner(ctrl *overlay.Controller, logger *slog.Logger) *Runner {
	return &Runner{ctrl: ctrl, logger: logger}
}

// Open opens a recording for reading, transparently decompressing .gz files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip recording: %w", err)
	}
	return &gzipReadCloser{gz: gz, file: f}, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}

// Run ticks the controller once per recorded snapshot. When out is non-nil
// each produced render model is written as one JSON line. Malformed lines
// are logged and skipped. Returns the number of ticks run.
func (r *Runner) Run(in io.Reader, out io.Writer) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var enc *json.Encoder
	if out != nil {
		enc = json.NewEncoder(out)
	}

	ticks := 0
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var state telemetry.VehicleState
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			r.logger.Warn("Skipping malformed recording line", "line", line, "error", err)
			continue
		}

		model, ok := r.ctrl.Tick(&state)
		ticks++
		if !ok || enc == nil {
			continue
		}
		if err := enc.Encode(model); err != nil {
			return ticks, fmt.Errorf("write render model: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return ticks, fmt.Errorf("read recording: %w", err)
	}
	return ticks, nil
}
