// Package stats reads session driving counters from an external key-value
// store on a fixed tick cadence. Reads are fail-soft: any failure degrades
// to the empty counter set, never to an error or a stalled tick.
package stats

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/revhud/overlay/internal/config"
	"github.com/revhud/overlay/internal/stats/gormstore"
	"github.com/revhud/overlay/internal/stats/memory"
	"github.com/revhud/overlay/pkg/telemetry"
)

// Store is the narrow read interface over the external session-stats store.
// Fetch returns the zero SessionStats (not an error) when the key is absent.
type Store interface {
	Fetch(key string) (telemetry.SessionStats, error)
	Close() error
}

// NewStore creates a stats store backend based on configuration.
func NewStore(cfg config.StorageConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "gorm":
		return gormstore.New(log)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
