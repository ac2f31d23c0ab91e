// Package database provides durable backends for the application state.
package database

import (
	"context"
	"errors"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/config"
	"github.com/bryan-buckman/jobdesk/internal/model"
)

// ErrNotFound is returned by LoadState when nothing is stored under a key.
var ErrNotFound = errors.New("state not found")

// DefaultPollingIntervalMinutes applies when no valid setting is stored.
const DefaultPollingIntervalMinutes = 30

// MinPollingIntervalMinutes is the lower bound for the catalog poller.
const MinPollingIntervalMinutes = 5

// Store defines the interface for database operations.
// SQLite, PostgreSQL and Redis implementations satisfy this interface.
type Store interface {
	Close() error

	// DatabaseType returns the name of the backend ("SQLite", "PostgreSQL" or "Redis").
	DatabaseType() string

	// SupportsHighConcurrency returns true if the backend can handle
	// many concurrent writes. SQLite returns false due to write locking.
	SupportsHighConcurrency() bool

	// Persisted state operations
	LoadState(ctx context.Context, key string) ([]byte, error)
	SaveState(ctx context.Context, key string, value []byte) error
	DeleteState(ctx context.Context, key string) error

	// Job source operations
	GetSources() ([]model.JobSource, error)
	GetOrCreateSource(title, url, group string) (int64, bool, error)
	UpdateSourceLastFetched(sourceID int64, t time.Time) error
	UpdateSourceError(sourceID int64, errMsg string) error
	DeleteSource(sourceID int64) error

	// Settings operations
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	GetPollingInterval() (int, error)
}

func clampInterval(mins int) int {
	if mins < MinPollingIntervalMinutes {
		return MinPollingIntervalMinutes
	}
	return mins
}

// Open returns the backend named by cfg.StateBackend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StateBackend {
	case config.BackendPostgres:
		db, err := NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendRedis:
		db, err := NewRedis(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		db, err := New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}
