package pages

import (
	"testing"

	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name         string
		status       model.AppStatus
		progress     int
		wantStatus   model.AppStatus
		wantProgress int
	}{
		{"sent", model.StatusApplicationSent, 25, model.StatusUnderReview, 50},
		{"capped below terminal", model.StatusApplicationSent, 90, model.StatusUnderReview, 99},
		{"never decreases", model.StatusUnderReview, 99, model.StatusInterviewScheduled, 99},
		{"reaches terminal", model.StatusInterviewScheduled, 80, model.StatusOfferReceived, 100},
		{"terminal is stable", model.StatusOfferReceived, 100, model.StatusOfferReceived, 100},
		{"unknown restarts", "Hired", 10, model.StatusApplicationSent, 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advance(model.TrackedApplication{Status: tt.status, Progress: tt.progress})
			if got.Status != tt.wantStatus || got.Progress != tt.wantProgress {
				t.Errorf("advance = %s/%d, want %s/%d", got.Status, got.Progress, tt.wantStatus, tt.wantProgress)
			}
		})
	}
}

func TestTrackerAdvanceToOffer(t *testing.T) {
	d, _ := testDeps(t)
	p := NewTrackerPage(d)
	defer p.Close()

	prev := 25
	for range 5 {
		app, err := p.Advance("a3")
		if err != nil {
			t.Fatal(err)
		}
		if app.Progress < prev {
			t.Fatalf("progress went from %d to %d", prev, app.Progress)
		}
		if app.Progress == 100 && app.Status != model.StatusOfferReceived {
			t.Fatalf("progress 100 at %s", app.Status)
		}
		prev = app.Progress
	}
	if prev != 100 {
		t.Errorf("final progress = %d", prev)
	}
	if _, err := p.Advance("missing"); !errors.Is(err, errors.ErrTypeNotFound) {
		t.Errorf("Advance(missing) = %v", err)
	}
}

func TestTrackerSave(t *testing.T) {
	d, _ := testDeps(t)
	p := NewTrackerPage(d)
	defer p.Close()

	app, err := p.Save(ApplicationForm{Role: " Go Developer ", Company: "Gebeya", Progress: 150, AppliedDate: "2025-01-15"})
	if err != nil {
		t.Fatal(err)
	}
	if app.ID == "" || app.Role != "Go Developer" || app.Status != model.StatusApplicationSent || app.Progress != 100 {
		t.Errorf("app = %+v", app)
	}
	if app.AppliedDate.Day() != 15 {
		t.Errorf("AppliedDate = %v", app.AppliedDate)
	}
	v := p.View()
	if v.Applications[0].ID != app.ID || v.Stats.Sent != 5 {
		t.Errorf("view = %+v", v)
	}

	edited, err := p.Save(ApplicationForm{ID: "a2", Role: "Frontend Lead", Company: "Safaricom Ethiopia", Status: model.StatusInterviewScheduled})
	if err != nil {
		t.Fatal(err)
	}
	if edited.ID != "a2" || p.View().Applications[2].Role != "Frontend Lead" {
		t.Errorf("edit not applied: %+v", p.View().Applications)
	}

	bad := []ApplicationForm{
		{Role: "", Company: "X"},
		{Role: "R", Company: "X", Status: "Hired"},
		{Role: "R", Company: "X", AppliedDate: "15/01/2025"},
	}
	for _, f := range bad {
		if _, err := p.Save(f); !errors.Is(err, errors.ErrTypeValidation) {
			t.Errorf("Save(%+v) = %v", f, err)
		}
	}
	if _, err := p.Save(ApplicationForm{ID: "missing", Role: "R", Company: "X"}); !errors.Is(err, errors.ErrTypeNotFound) {
		t.Errorf("Save(missing) = %v", err)
	}
	if n := len(p.View().Applications); n != 5 {
		t.Errorf("applications = %d after rejected saves", n)
	}
}

func TestTrackerDeleteAndSearch(t *testing.T) {
	d, _ := testDeps(t)
	p := NewTrackerPage(d)
	defer p.Close()

	p.Delete("missing")
	p.Delete("a1")
	p.SetSearch("bank")
	v := p.View()
	if len(v.Applications) != 2 || v.Stats.Sent != 3 || v.Stats.Interviews != 0 {
		t.Errorf("view = %+v", v)
	}
}
