// Package gormstore implements the session-stats store on a SQL database
// through GORM. It connects to Postgres and falls back to a local SQLite
// file when Postgres is unreachable, so a missing database never takes the
// overlay down.
package gormstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/revhud/overlay/pkg/telemetry"
)

// sessionRecord is one stored counter set. The payload is the JSON document
// the coach process writes, kept opaque at the schema level.
type sessionRecord struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	UpdatedAt time.Time
}

func (sessionRecord) TableName() string {
	return "session_stats"
}

// Store reads and writes session stats rows.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New connects to the configured database and migrates the stats table.
// Postgres is tried first; on any connection failure it falls back to the
// local SQLite file.
func New(log zerolog.Logger) (*Store, error) {
	db, err := openPostgres()
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to Postgres, falling back to SQLite")
		db, err = openSqlite()
		if err != nil {
			return nil, fmt.Errorf("failed to open fallback SQLite DB: %w", err)
		}
	}

	s := &Store{db: db, log: log}
	if err := s.db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session_stats: %w", err)
	}
	log.Info().Msg("Connected to session stats database")
	return s, nil
}

// NewWithDB wraps an existing GORM connection. Used by tests.
func NewWithDB(db *gorm.DB, log zerolog.Logger) (*Store, error) {
	s := &Store{db: db, log: log}
	if err := s.db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session_stats: %w", err)
	}
	return s, nil
}

func openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	return db, nil
}

func openSqlite() (*gorm.DB, error) {
	path := viper.GetString("db.sqliteFile")
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// Fetch reads the stats for key. A missing row yields the zero snapshot and
// no error; malformed payloads are reported as errors so the caller resets
// to the empty mapping.
func (s *Store) Fetch(key string) (telemetry.SessionStats, error) {
	var rec sessionRecord
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return telemetry.SessionStats{}, nil
	}
	if err != nil {
		return telemetry.SessionStats{}, fmt.Errorf("fetch %q: %w", key, err)
	}

	var snap telemetry.SessionStats
	if err := json.Unmarshal(rec.Payload, &snap); err != nil {
		return telemetry.SessionStats{}, fmt.Errorf("decode %q payload: %w", key, err)
	}
	return snap, nil
}

// Put upserts the stats for key.
func (s *Store) Put(key string, snap telemetry.SessionStats) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %q payload: %w", key, err)
	}
	rec := sessionRecord{Key: key, Payload: payload}
	err = s.db.Save(&rec).Error
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
