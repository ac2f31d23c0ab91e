package pages

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/simulate"
	"github.com/bryan-buckman/jobdesk/internal/simulate/simulatetest"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

var epoch = time.Date(2025, 1, 22, 9, 0, 0, 0, time.UTC)

// testDeps wires pages to an in-memory store and a manual clock. Random
// values are pinned to the low end of every range.
func testDeps(t *testing.T) (Deps, *simulatetest.Clock) {
	t.Helper()
	store := state.New(context.Background(), nil, state.Options{Catalog: seed.Catalog()})
	t.Cleanup(func() { store.Close() })
	clock := simulatetest.NewClock(epoch)
	return Deps{
		Store:  store,
		Clock:  clock,
		Random: simulatetest.Random{},
		Logger: zaptest.NewLogger(t),
		Timing: DefaultTiming(),
	}, clock
}

func hasToast(toasts []simulate.Toast, kind, text string) bool {
	for _, t := range toasts {
		if t.Kind == kind && t.Text == text {
			return true
		}
	}
	return false
}
