package simulate_test

import (
	"testing"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/simulate"
	"github.com/bryan-buckman/jobdesk/internal/simulate/simulatetest"
)

func TestToastsExpire(t *testing.T) {
	clock := simulatetest.NewClock(epoch)
	scope := simulate.NewScope(clock)
	toaster := simulate.NewToaster(scope, 4*time.Second)

	toaster.Success("Job saved")
	clock.Advance(2 * time.Second)
	toaster.InfoFor("Requesting reschedule...", time.Second)

	got := toaster.List()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Kind != simulate.ToastSuccess || got[1].Kind != simulate.ToastInfo {
		t.Errorf("kinds = %q, %q", got[0].Kind, got[1].Kind)
	}
	if !got[1].At.Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("At = %v", got[1].At)
	}

	clock.Advance(time.Second)
	if got := toaster.List(); len(got) != 1 || got[0].Text != "Job saved" {
		t.Fatalf("after 3s: %+v", got)
	}
	clock.Advance(time.Second)
	if got := toaster.List(); len(got) != 0 {
		t.Fatalf("after 4s: %+v", got)
	}
}

func TestToastDismiss(t *testing.T) {
	clock := simulatetest.NewClock(epoch)
	toaster := simulate.NewToaster(simulate.NewScope(clock), time.Second)

	a := toaster.Error("Could not save job")
	toaster.Info("Opening meeting link...")
	toaster.Dismiss(a.ID)
	toaster.Dismiss("missing")

	got := toaster.List()
	if len(got) != 1 || got[0].Text != "Opening meeting link..." {
		t.Fatalf("List = %+v", got)
	}
}
