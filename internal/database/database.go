package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Ensure DB implements Store interface.
var _ Store = (*DB)(nil)

// New opens or creates an SQLite database at the given path.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	// A single writer avoids SQLITE_BUSY from the write-through goroutine.
	conn.SetMaxOpenConns(1)
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// DatabaseType returns the database backend name.
func (db *DB) DatabaseType() string {
	return "SQLite"
}

// SupportsHighConcurrency returns false for SQLite.
func (db *DB) SupportsHighConcurrency() bool {
	return false
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_state (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS job_sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		grp TEXT DEFAULT '',
		last_fetched DATETIME,
		last_error TEXT DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	INSERT OR IGNORE INTO settings (key, value) VALUES ('polling_interval_minutes', '30');
	`
	_, err := db.conn.Exec(schema)
	return err
}

// --- State Methods ---

// LoadState returns the blob stored under key.
func (db *DB) LoadState(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := db.conn.QueryRowContext(ctx, "SELECT value FROM kv_state WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return val, err
}

// SaveState upserts the blob stored under key.
func (db *DB) SaveState(ctx context.Context, key string, value []byte) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

// DeleteState removes key. Missing keys are not an error.
func (db *DB) DeleteState(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM kv_state WHERE key = ?", key)
	return err
}

// --- Source Methods ---

// GetSources returns all job sources ordered by title.
func (db *DB) GetSources() ([]model.JobSource, error) {
	rows, err := db.conn.Query("SELECT id, title, url, grp, last_fetched, last_error FROM job_sources ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSources(rows)
}

// GetOrCreateSource finds a source by URL, or creates it.
func (db *DB) GetOrCreateSource(title, url, group string) (int64, bool, error) {
	var id int64
	err := db.conn.QueryRow("SELECT id FROM job_sources WHERE url = ?", url).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := db.conn.Exec("INSERT INTO job_sources (title, url, grp) VALUES (?, ?, ?)", title, url, group)
		if err != nil {
			return 0, false, err
		}
		id, err := res.LastInsertId()
		return id, true, err
	}
	return id, false, err
}

// UpdateSourceLastFetched records a successful fetch and clears the last error.
func (db *DB) UpdateSourceLastFetched(sourceID int64, t time.Time) error {
	_, err := db.conn.Exec("UPDATE job_sources SET last_fetched = ?, last_error = '' WHERE id = ?", t, sourceID)
	return err
}

// UpdateSourceError records the last fetch error for display.
func (db *DB) UpdateSourceError(sourceID int64, errMsg string) error {
	_, err := db.conn.Exec("UPDATE job_sources SET last_error = ? WHERE id = ?", errMsg, sourceID)
	return err
}

// DeleteSource removes a source.
func (db *DB) DeleteSource(sourceID int64) error {
	_, err := db.conn.Exec("DELETE FROM job_sources WHERE id = ?", sourceID)
	return err
}

func scanSources(rows *sql.Rows) ([]model.JobSource, error) {
	var sources []model.JobSource
	for rows.Next() {
		var s model.JobSource
		var lastFetched sql.NullTime
		var lastError sql.NullString
		if err := rows.Scan(&s.ID, &s.Title, &s.URL, &s.Group, &lastFetched, &lastError); err != nil {
			return nil, err
		}
		if lastFetched.Valid {
			s.LastFetched = lastFetched.Time
		}
		s.LastError = lastError.String
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// --- Settings Methods ---

// GetSetting retrieves a setting value.
func (db *DB) GetSetting(key string) (string, error) {
	var val string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&val)
	return val, err
}

// SetSetting saves a setting.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec("INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = ?", key, value, value)
	return err
}

// GetPollingInterval returns the polling interval in minutes, never below
// MinPollingIntervalMinutes.
func (db *DB) GetPollingInterval() (int, error) {
	val, err := db.GetSetting(model.SettingPollingInterval)
	if err != nil {
		return DefaultPollingIntervalMinutes, nil
	}
	mins, err := strconv.Atoi(val)
	if err != nil {
		return DefaultPollingIntervalMinutes, nil
	}
	return clampInterval(mins), nil
}
