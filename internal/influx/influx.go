// Package influx publishes session driving metrics to InfluxDB. The
// publisher is fail-soft throughout: an unreachable database disables it
// rather than surfacing errors into the tick loop.
package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/revhud/overlay/pkg/telemetry"
)

// Publisher handles the InfluxDB connection and writes.
type Publisher struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPI
	IsValid bool
	Logger  zerolog.Logger
}

// NewPublisher creates a new InfluxDB publisher.
func NewPublisher(log zerolog.Logger) *Publisher {
	return &Publisher{
		IsValid: false,
		Logger:  log,
	}
}

// Connect establishes a connection to InfluxDB and validates it with a ping.
func (p *Publisher) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	p.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetFlushInterval(uint(viper.GetInt("influx.flushSeconds"))*1000),
	)

	running, err := p.Client.Ping(context.Background())
	if err != nil || !running {
		p.IsValid = false
		p.Logger.Warn().Err(err).Msg("Failed to reach InfluxDB, session metrics disabled")
		return fmt.Errorf("influxdb unreachable: %w", err)
	}

	p.Writer = p.Client.WriteAPI(
		viper.GetString("influx.org"),
		viper.GetString("influx.bucket"),
	)
	p.IsValid = true
	p.Logger.Info().Msg("Connected to InfluxDB")
	return nil
}

// PublishStats writes one point with the current session counters. A
// disabled or invalid publisher silently drops the point.
func (p *Publisher) PublishStats(session string, stats telemetry.SessionStats) {
	if !p.IsValid || p.Writer == nil {
		return
	}

	point := influxdb2.NewPoint(
		"session_stats",
		map[string]string{"session": session},
		map[string]any{
			"launches":         stats.Launches,
			"good_launches":    stats.GoodLaunches,
			"stalls":           stats.Stalls,
			"lugs":             stats.Lugs,
			"shifts":           stats.Shifts,
			"good_shifts":      stats.GoodShifts,
			"shift_suggestion": stats.Suggestion(),
		},
		time.Now(),
	)
	p.Writer.WritePoint(point)
}

// Close flushes pending writes and shuts the client down.
func (p *Publisher) Close() {
	if p.Writer != nil {
		p.Writer.Flush()
	}
	if p.Client != nil {
		p.Client.Close()
	}
	p.IsValid = false
}
