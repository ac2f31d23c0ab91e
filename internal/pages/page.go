// Package pages holds one controller per feature page. A controller owns the
// page-local UI state, turns user actions into store dispatches or simulated
// interactions, and projects view models through the view package.
package pages

import (
	"time"

	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/simulate"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

// Timing holds the delays of simulated interactions.
type Timing struct {
	ReplyMin   time.Duration
	ReplyMax   time.Duration
	Reschedule time.Duration
	ToastTTL   time.Duration
}

// DefaultTiming matches the delays users saw in the original client.
func DefaultTiming() Timing {
	return Timing{
		ReplyMin:   1500 * time.Millisecond,
		ReplyMax:   3500 * time.Millisecond,
		Reschedule: 1200 * time.Millisecond,
		ToastTTL:   4 * time.Second,
	}
}

// Deps are the collaborators every page is built from.
type Deps struct {
	Store  *state.Store
	Clock  simulate.Clock
	Random simulate.Random
	Logger *zap.Logger
	Timing Timing
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = simulate.RealClock()
	}
	if d.Random == nil {
		d.Random = simulate.NewRandom()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Timing == (Timing{}) {
		d.Timing = DefaultTiming()
	}
	return d
}

// base is embedded by every controller. Its scope is closed on teardown.
type base struct {
	scope  *simulate.Scope
	toasts *simulate.Toaster
	clock  simulate.Clock
	logger *zap.Logger
}

func newBase(d Deps, name string) base {
	scope := simulate.NewScope(d.Clock)
	return base{
		scope:  scope,
		toasts: simulate.NewToaster(scope, d.Timing.ToastTTL),
		clock:  d.Clock,
		logger: d.Logger.Named(name),
	}
}

// Close tears the page down. Timers armed by the page never fire afterwards.
func (b *base) Close() {
	b.scope.Close()
}

// Toasts returns the page's visible notices.
func (b *base) Toasts() []simulate.Toast {
	return b.toasts.List()
}

// guarded dispatches a and reports the outcome as a toast. On failure state
// is unchanged and an ACTION_FAILED error is returned.
func (b *base) guarded(store *state.Store, a state.Action, ok, failed string) error {
	if err := store.Dispatch(a); err != nil {
		b.logger.Warn("action failed", zap.String("action", a.Type()), zap.Error(err))
		b.toasts.Error(failed)
		if errors.Is(err, errors.ErrTypeActionFailed) {
			return err
		}
		return errors.ActionFailed(failed, err)
	}
	if ok != "" {
		b.toasts.Success(ok)
	}
	return nil
}
