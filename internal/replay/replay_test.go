package replay_test

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revhud/overlay/internal/config"
	"github.com/revhud/overlay/internal/overlay"
	"github.com/revhud/overlay/internal/replay"
	"github.com/revhud/overlay/internal/stats"
	"github.com/revhud/overlay/internal/stats/memory"
	"github.com/revhud/overlay/pkg/render"
	"github.com/revhud/overlay/pkg/telemetry"
)

func newRunner(t *testing.T) *replay.Runner {
	t.Helper()
	vc := config.VehicleConfig{
		Redline:          7500,
		EconomyMax:       2500,
		PowerMin:         4000,
		DangerMin:        6500,
		MinTargetDisplay: 750,
		GearRatios: map[int]float64{
			1: 3.626, 2: 2.188, 3: 1.541, 4: 1.213, 5: 1.000, 6: 0.767,
		},
		FinalDrive:        4.10,
		TireCircumference: 1.977,
	}
	oc := config.OverlayConfig{
		TickRate:           60,
		FlashSeconds:       2.5,
		StatsRefreshTicks:  15,
		FilterTimeConstant: 0.1,
	}
	ctrl, err := overlay.NewController(vc, oc, stats.NewRefresher(memory.New(), "session", 15))
	require.NoError(t, err)
	return replay.NewRunner(ctrl, slog.Default())
}

func recordingLines(states []telemetry.VehicleState) string {
	var b strings.Builder
	for _, s := range states {
		raw, _ := json.Marshal(s)
		b.Write(raw)
		b.WriteByte('\n')
	}
	return b.String()
}

func TestRun_ProducesOneModelPerRecord(t *testing.T) {
	r := newRunner(t)

	in := recordingLines([]telemetry.VehicleState{
		{EngineRPM: 1500, Gear: 1, Speed: 3},
		{EngineRPM: 3200, Gear: 2, Speed: 9},
		{EngineRPM: 2800, Gear: 3, Speed: 14},
	})

	var out bytes.Buffer
	ticks, err := r.Run(strings.NewReader(in), &out)
	require.NoError(t, err)
	assert.Equal(t, 3, ticks)

	var models []render.Model
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var m render.Model
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		models = append(models, m)
	}
	require.Len(t, models, 3)
	assert.Equal(t, "1", models[0].GearLabel)
	assert.Equal(t, render.ZoneCruise, models[1].Zone)
	assert.Equal(t, "3", models[2].GearLabel)
}

func TestRun_SkipsMalformedLines(t *testing.T) {
	r := newRunner(t)

	in := `{"engineRpm": 1500, "gearActual": 1}
garbage line
{"engineRpm": 2000, "gearActual": 2}
`
	var out bytes.Buffer
	ticks, err := r.Run(strings.NewReader(in), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, ticks)
}

func TestRun_NilOutputDiscardsModels(t *testing.T) {
	r := newRunner(t)

	in := recordingLines([]telemetry.VehicleState{{EngineRPM: 1500, Gear: 1}})
	ticks, err := r.Run(strings.NewReader(in), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ticks)
}

func TestOpen_PlainAndGzip(t *testing.T) {
	dir := t.TempDir()
	body := recordingLines([]telemetry.VehicleState{{EngineRPM: 900}})

	plain := filepath.Join(dir, "drive.jsonl")
	require.NoError(t, os.WriteFile(plain, []byte(body), 0644))

	zipped := filepath.Join(dir, "drive.jsonl.gz")
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(zipped, buf.Bytes(), 0644))

	for _, path := range []string{plain, zipped} {
		rc, err := replay.Open(path)
		require.NoError(t, err, path)

		r := newRunner(t)
		ticks, err := r.Run(rc, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, ticks, path)
		require.NoError(t, rc.Close())
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := replay.Open("/nonexistent/drive.jsonl")
	assert.Error(t, err)
}
