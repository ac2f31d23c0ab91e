package pages

import (
	"strings"
	"testing"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/simulate"
)

func jobIDs(js []model.Job) []string {
	var out []string
	for _, j := range js {
		out = append(out, j.ID)
	}
	return out
}

func findInterview(t *testing.T, v MyJobsView, id string) model.Interview {
	t.Helper()
	for _, iv := range v.Interviews {
		if iv.ID == id {
			return iv
		}
	}
	t.Fatalf("interview %s not in %+v", id, v.Interviews)
	return model.Interview{}
}

func TestMyJobsCombinesSamplesAndStore(t *testing.T) {
	d, _ := testDeps(t)
	jobs := NewJobsPage(d)
	p := NewMyJobsPage(d)
	defer jobs.Close()
	defer p.Close()

	v := p.View()
	if v.Counts[TabSaved] != 4 || v.Counts[TabApplied] != 4 || v.Counts[TabInterviews] != 4 || v.Counts[TabOffers] != 1 {
		t.Fatalf("Counts = %v", v.Counts)
	}

	if err := jobs.Save("jumia-1"); err != nil {
		t.Fatal(err)
	}
	if err := jobs.Save("ethio-1"); err != nil {
		t.Fatal(err)
	}
	got := jobIDs(p.View().Saved)
	want := []string{"global-1", "ethio-2", "global-2", "jumia-1", "ethio-1"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Saved = %v, want %v", got, want)
	}
}

func TestMyJobsUnsaveAndWithdraw(t *testing.T) {
	d, _ := testDeps(t)
	p := NewMyJobsPage(d)
	defer p.Close()

	if err := p.Unsave("ethio-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.Withdraw("global-1"); err != nil {
		t.Fatal(err)
	}
	v := p.View()
	if strings.Join(jobIDs(v.Saved), ",") != "global-1,ethio-2,global-2" {
		t.Errorf("Saved = %v", jobIDs(v.Saved))
	}
	if strings.Join(jobIDs(v.Applied), ",") != "ethio-1,ethio-2,global-2" {
		t.Errorf("Applied = %v", jobIDs(v.Applied))
	}
	if v.Counts[TabInterviews] != 3 {
		t.Errorf("interviews = %d", v.Counts[TabInterviews])
	}
	if !hasToast(p.Toasts(), simulate.ToastSuccess, "Application withdrawn") {
		t.Errorf("toasts = %+v", p.Toasts())
	}
}

func TestMyJobsFailedUnsaveKeepsSample(t *testing.T) {
	d, _ := testDeps(t)
	p := NewMyJobsPage(d)
	defer p.Close()

	before := p.View().Counts
	d.Store.Close()

	if err := p.Unsave("ethio-1"); !errors.Is(err, errors.ErrTypeActionFailed) {
		t.Fatalf("Unsave = %v", err)
	}
	if err := p.Withdraw("global-1"); !errors.Is(err, errors.ErrTypeActionFailed) {
		t.Fatalf("Withdraw = %v", err)
	}
	after := p.View().Counts
	if after[TabSaved] != before[TabSaved] || after[TabApplied] != before[TabApplied] {
		t.Errorf("counts = %v, want %v", after, before)
	}
	if !hasToast(p.Toasts(), simulate.ToastError, "Could not remove saved job") {
		t.Errorf("toasts = %+v", p.Toasts())
	}
}

func TestMyJobsSearchSortAndTab(t *testing.T) {
	d, _ := testDeps(t)
	p := NewMyJobsPage(d)
	defer p.Close()

	p.SetSearch("designer")
	if got := jobIDs(p.View().Saved); len(got) != 1 || got[0] != "ethio-2" {
		t.Errorf("search = %v", got)
	}
	p.SetSearch("")
	p.SetSort("company")
	if got := jobIDs(p.View().Saved); strings.Join(got, ",") != "ethio-2,global-2,ethio-1,global-1" {
		t.Errorf("sorted = %v", got)
	}
	if err := p.SetTab("bogus"); !errors.Is(err, errors.ErrTypeValidation) {
		t.Errorf("SetTab(bogus) = %v", err)
	}
	if err := p.SetTab(TabOffers); err != nil || p.View().Tab != TabOffers {
		t.Errorf("SetTab(offers) = %v", err)
	}
}

func TestMyJobsViewIsMemoized(t *testing.T) {
	d, _ := testDeps(t)
	p := NewMyJobsPage(d)
	defer p.Close()

	a, b := p.View(), p.View()
	if &a.Saved[0] != &b.Saved[0] {
		t.Error("saved list recomputed without a change")
	}
	if err := p.Unsave("ethio-1"); err != nil {
		t.Fatal(err)
	}
	if c := p.View(); len(c.Saved) == len(a.Saved) {
		t.Error("saved list not recomputed after unsave")
	}
}

func TestMyJobsReschedule(t *testing.T) {
	d, clock := testDeps(t)
	p := NewMyJobsPage(d)
	defer p.Close()

	const id = "ethio-1-iv-0"
	if err := p.Reschedule(id); err != nil {
		t.Fatal(err)
	}
	if iv := findInterview(t, p.View(), id); iv.Reschedule != RescheduleRequested {
		t.Fatalf("Reschedule = %q", iv.Reschedule)
	}
	if !hasToast(p.Toasts(), simulate.ToastInfo, "Requesting reschedule...") {
		t.Errorf("toasts = %+v", p.Toasts())
	}
	if err := p.Reschedule(id); err != nil {
		t.Fatal(err)
	}

	clock.Advance(1199 * time.Millisecond)
	if iv := findInterview(t, p.View(), id); iv.Reschedule != RescheduleRequested {
		t.Fatalf("confirmed early: %q", iv.Reschedule)
	}
	clock.Advance(time.Millisecond)
	if iv := findInterview(t, p.View(), id); iv.Reschedule != RescheduleSent {
		t.Errorf("Reschedule = %q, want sent", iv.Reschedule)
	}
	toasts := p.Toasts()
	if len(toasts) != 1 || toasts[0].Text != "Reschedule request sent" {
		t.Errorf("toasts = %+v", toasts)
	}

	if err := p.Reschedule("missing"); !errors.Is(err, errors.ErrTypeNotFound) {
		t.Errorf("Reschedule(missing) = %v", err)
	}
}

func TestMyJobsRescheduleDroppedOnClose(t *testing.T) {
	d, clock := testDeps(t)
	p := NewMyJobsPage(d)

	if err := p.Reschedule("ethio-1-iv-0"); err != nil {
		t.Fatal(err)
	}
	p.Close()
	clock.Advance(2 * time.Second)
	if iv := findInterview(t, p.View(), "ethio-1-iv-0"); iv.Reschedule != RescheduleRequested {
		t.Errorf("Reschedule = %q after close", iv.Reschedule)
	}
}

func TestMyJobsInterviewLinks(t *testing.T) {
	d, _ := testDeps(t)
	p := NewMyJobsPage(d)
	defer p.Close()

	link, err := p.JoinCall("ethio-1-iv-0")
	if err != nil || link != "https://meet.example.com/ethio-1-iv-0" {
		t.Errorf("JoinCall = %q, %v", link, err)
	}
	if _, err := p.JoinCall("global-1-iv-1"); !errors.Is(err, errors.ErrTypeValidation) {
		t.Errorf("JoinCall(on-site) = %v", err)
	}
	dir, err := p.Directions("global-1-iv-1")
	if err != nil || !strings.HasPrefix(dir, "https://www.google.com/maps/search/?api=1&query=") {
		t.Errorf("Directions = %q, %v", dir, err)
	}
}

func TestMyJobsOffers(t *testing.T) {
	d, _ := testDeps(t)
	p := NewMyJobsPage(d)
	defer p.Close()

	if err := p.AcceptOffer("offer-1"); err != nil {
		t.Fatal(err)
	}
	if got := p.View().Offers[0].Status; got != model.OfferAccepted {
		t.Errorf("Status = %q", got)
	}
	if err := p.DeclineOffer("missing"); !errors.Is(err, errors.ErrTypeNotFound) {
		t.Errorf("DeclineOffer(missing) = %v", err)
	}
}
