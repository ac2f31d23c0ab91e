package catalog

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/bryan-buckman/jobdesk/internal/state"
)

func TestPollerStopsPromptly(t *testing.T) {
	db := newTestDB(t)
	store := state.New(context.Background(), nil, state.Options{})
	defer store.Close()

	p := NewPoller(db, store, zaptest.NewLogger(t))
	if p.Fetcher() == nil {
		t.Fatal("no fetcher")
	}
	p.Start()

	done := make(chan struct{})
	go func() {
		p.Stop()
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
