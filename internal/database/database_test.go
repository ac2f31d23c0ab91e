package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// backends returns every Store the suite can reach. SQLite always runs;
// PostgreSQL and Redis run when JOBDESK_TEST_DATABASE_URL or
// JOBDESK_TEST_REDIS_ADDR point at a disposable server.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	out := map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store {
			db, err := New(filepath.Join(t.TempDir(), "test.sqlite"))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			t.Cleanup(func() { db.Close() })
			return db
		},
	}
	if dsn := os.Getenv("JOBDESK_TEST_DATABASE_URL"); dsn != "" {
		out["postgres"] = func(t *testing.T) Store {
			db, err := NewPostgres(dsn)
			if err != nil {
				t.Fatalf("NewPostgres: %v", err)
			}
			t.Cleanup(func() { db.Close() })
			return db
		}
	}
	if addr := os.Getenv("JOBDESK_TEST_REDIS_ADDR"); addr != "" {
		out["redis"] = func(t *testing.T) Store {
			db, err := NewRedis(RedisOptions{Addr: addr, Prefix: fmt.Sprintf("jobdesk-test-%d", time.Now().UnixNano())})
			if err != nil {
				t.Fatalf("NewRedis: %v", err)
			}
			t.Cleanup(func() { db.Close() })
			return db
		}
	}
	return out
}

// unique keeps runs against shared servers apart.
func unique(s string) string {
	return fmt.Sprintf("%s-%d", s, time.Now().UnixNano())
}

func TestStateRoundTrip(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			db := open(t)
			ctx := context.Background()
			key := unique("persist:root")

			if _, err := db.LoadState(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Fatalf("LoadState on missing key = %v", err)
			}
			if err := db.SaveState(ctx, key, []byte(`{"version":1}`)); err != nil {
				t.Fatal(err)
			}
			if err := db.SaveState(ctx, key, []byte(`{"version":2}`)); err != nil {
				t.Fatal(err)
			}
			got, err := db.LoadState(ctx, key)
			if err != nil || string(got) != `{"version":2}` {
				t.Fatalf("LoadState = %s, %v", got, err)
			}
			if err := db.DeleteState(ctx, key); err != nil {
				t.Fatal(err)
			}
			if err := db.DeleteState(ctx, key); err != nil {
				t.Errorf("second DeleteState = %v", err)
			}
			if _, err := db.LoadState(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Errorf("LoadState after delete = %v", err)
			}
		})
	}
}

func TestSources(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			db := open(t)
			url := unique("https://example.com/go.rss")

			id, created, err := db.GetOrCreateSource("Go Jobs", url, "Remote")
			if err != nil || !created {
				t.Fatalf("create = %d, %v, %v", id, created, err)
			}
			again, created, err := db.GetOrCreateSource("Other title", url, "")
			if err != nil || created || again != id {
				t.Fatalf("second create = %d, %v, %v", again, created, err)
			}

			find := func() model.JobSource {
				t.Helper()
				sources, err := db.GetSources()
				if err != nil {
					t.Fatal(err)
				}
				for _, s := range sources {
					if s.ID == id {
						return s
					}
				}
				t.Fatalf("source %d missing from %+v", id, sources)
				return model.JobSource{}
			}

			if err := db.UpdateSourceError(id, "timeout"); err != nil {
				t.Fatal(err)
			}
			if s := find(); s.LastError != "timeout" || s.Group != "Remote" || s.Title != "Go Jobs" {
				t.Fatalf("source = %+v", s)
			}

			fetched := time.Date(2025, 1, 22, 9, 0, 0, 0, time.UTC)
			if err := db.UpdateSourceLastFetched(id, fetched); err != nil {
				t.Fatal(err)
			}
			if s := find(); s.LastError != "" || !s.LastFetched.Equal(fetched) {
				t.Errorf("after fetch = %+v", s)
			}

			if err := db.DeleteSource(id); err != nil {
				t.Fatal(err)
			}
			sources, _ := db.GetSources()
			for _, s := range sources {
				if s.ID == id {
					t.Errorf("source %d still listed", id)
				}
			}
		})
	}
}

func TestPollingInterval(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			db := open(t)
			tests := []struct {
				stored string
				want   int
			}{
				{"60", 60},
				{"1", MinPollingIntervalMinutes},
				{"soon", DefaultPollingIntervalMinutes},
			}
			for _, tt := range tests {
				if err := db.SetSetting(model.SettingPollingInterval, tt.stored); err != nil {
					t.Fatal(err)
				}
				if got, _ := db.GetPollingInterval(); got != tt.want {
					t.Errorf("stored %q: interval = %d, want %d", tt.stored, got, tt.want)
				}
			}
		})
	}
}

func TestSQLiteDefaultPollingInterval(t *testing.T) {
	db := backends(t)["sqlite"](t)
	if got, _ := db.GetPollingInterval(); got != DefaultPollingIntervalMinutes {
		t.Errorf("default = %d", got)
	}
	if db.DatabaseType() != "SQLite" || db.SupportsHighConcurrency() {
		t.Errorf("sqlite reports %s, high concurrency %v", db.DatabaseType(), db.SupportsHighConcurrency())
	}
}
