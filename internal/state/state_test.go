package state

import (
	"reflect"
	"testing"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

var t0 = time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

func job(id, title, company string) model.Job {
	return model.Job{
		ID:       id,
		Title:    title,
		Company:  model.Company{Name: company},
		Location: "Addis Ababa, Ethiopia",
		Type:     model.JobTypeFullTime,
		Skills:   []string{"Go"},
	}
}

func TestSaveJobIsIdempotent(t *testing.T) {
	s := InitialUserState()
	j := job("ethio-1", "Frontend Developer", "EthioTech")

	s = reduceUser(s, SaveJob{Job: j, At: t0})
	s = reduceUser(s, SaveJob{Job: j, At: t0.Add(time.Hour)})

	if len(s.Saved) != 1 {
		t.Fatalf("len(Saved) = %d, want 1", len(s.Saved))
	}
	if !s.Saved[0].SavedAt.Equal(t0) {
		t.Errorf("SavedAt = %v, want the first save time %v", s.Saved[0].SavedAt, t0)
	}
	saved := s.SavedJobs()
	if saved[0].SavedAt == nil || !saved[0].SavedAt.Equal(t0) {
		t.Errorf("joined SavedAt = %v", saved[0].SavedAt)
	}
}

func TestUnsaveUnknownIsNoop(t *testing.T) {
	s := reduceUser(InitialUserState(), SaveJob{Job: job("a", "A", "X"), At: t0})
	next := reduceUser(s, UnsaveJob{JobID: "missing"})
	if !reflect.DeepEqual(s, next) {
		t.Errorf("state changed: %+v -> %+v", s, next)
	}
}

func TestUnsaveKeepsOrder(t *testing.T) {
	s := InitialUserState()
	for _, id := range []string{"a", "b", "c"} {
		s = reduceUser(s, SaveJob{Job: job(id, id, "X"), At: t0})
	}
	s = reduceUser(s, UnsaveJob{JobID: "b"})
	var ids []string
	for _, e := range s.Saved {
		ids = append(ids, e.Job.ID)
	}
	if !reflect.DeepEqual(ids, []string{"a", "c"}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestApplySetsStatus(t *testing.T) {
	s := reduceUser(InitialUserState(), ApplyToJob{Job: job("g", "Go Dev", "Google"), At: t0})
	applied := s.AppliedJobs()
	if len(applied) != 1 {
		t.Fatalf("len = %d", len(applied))
	}
	if applied[0].ApplicationStatus != string(model.StatusApplicationSent) {
		t.Errorf("status = %q", applied[0].ApplicationStatus)
	}
	if applied[0].AppliedAt == nil || !applied[0].AppliedAt.Equal(t0) {
		t.Errorf("AppliedAt = %v", applied[0].AppliedAt)
	}

	again := reduceUser(s, ApplyToJob{Job: job("g", "Go Dev", "Google"), At: t0.Add(time.Hour)})
	if len(again.Applied) != 1 || !again.Applied[0].AppliedAt.Equal(t0) {
		t.Errorf("duplicate apply changed state: %+v", again.Applied)
	}
}

func TestWithdrawRemovesApplication(t *testing.T) {
	s := reduceUser(InitialUserState(), ApplyToJob{Job: job("a", "A", "X"), At: t0})
	s = reduceUser(s, ApplyToJob{Job: job("b", "B", "X"), At: t0})
	s = reduceUser(s, WithdrawApplication{JobID: "a"})
	if len(s.Applied) != 1 || s.Applied[0].Job.ID != "b" {
		t.Errorf("Applied = %+v", s.Applied)
	}
	if s.IsApplied("a") {
		t.Error("IsApplied(a) after withdraw")
	}
}

func TestUpdateApplicationStatus(t *testing.T) {
	s := reduceUser(InitialUserState(), ApplyToJob{Job: job("a", "A", "X"), At: t0})
	s = reduceUser(s, UpdateApplicationStatus{JobID: "a", Status: model.StatusUnderReview})
	if s.Applied[0].Status != model.StatusUnderReview {
		t.Errorf("status = %q", s.Applied[0].Status)
	}
	s = reduceUser(s, UpdateApplicationStatus{JobID: "a", Status: "Hired"})
	if s.Applied[0].Status != model.StatusUnderReview {
		t.Errorf("invalid status applied: %q", s.Applied[0].Status)
	}
}

func TestReducersDoNotMutateEarlierSnapshots(t *testing.T) {
	before := reduceUser(InitialUserState(), SaveJob{Job: job("a", "A", "X"), At: t0})
	before = reduceUser(before, SaveJob{Job: job("b", "B", "X"), At: t0})
	snapshot := append([]SavedEntry(nil), before.Saved...)

	_ = reduceUser(before, UnsaveJob{JobID: "a"})
	_ = reduceUser(before, SaveJob{Job: job("c", "C", "X"), At: t0})

	if !reflect.DeepEqual(before.Saved, snapshot) {
		t.Errorf("earlier snapshot changed: %+v", before.Saved)
	}
}

func TestSavedCopyIsIndependentOfCatalog(t *testing.T) {
	jobs := InitialJobsState([]model.Job{job("a", "A", "X")})
	j, _ := jobs.Job("a")
	u := reduceUser(InitialUserState(), SaveJob{Job: j, At: t0})

	u.Saved[0].Job.Skills[0] = "Rust"
	if jobs.Catalog[0].Skills[0] != "Go" {
		t.Errorf("catalog changed through the saved copy: %v", jobs.Catalog[0].Skills)
	}
	if jobs.Catalog[0].SavedAt != nil {
		t.Error("catalog entry carries a saved annotation")
	}
}

func TestMergeCatalog(t *testing.T) {
	s := InitialJobsState([]model.Job{job("a", "A", "X"), job("b", "B", "X")})
	s = reduceJobs(s, MergeCatalog{Jobs: []model.Job{
		job("b", "B v2", "X"),
		job("c", "C", "Y"),
		{Title: "no id"},
	}})

	var titles []string
	for _, j := range s.Catalog {
		titles = append(titles, j.Title)
	}
	if !reflect.DeepEqual(titles, []string{"A", "B v2", "C"}) {
		t.Errorf("titles = %v", titles)
	}
}

func TestReplaceCatalogDedupes(t *testing.T) {
	s := reduceJobs(InitialJobsState(nil), ReplaceCatalog{Jobs: []model.Job{
		job("a", "A", "X"),
		job("b", "B", "X"),
		job("a", "A v2", "X"),
	}})
	if len(s.Catalog) != 2 || s.Catalog[0].Title != "A v2" || s.Catalog[1].ID != "b" {
		t.Errorf("Catalog = %+v", s.Catalog)
	}
}

func TestFilterActions(t *testing.T) {
	f := model.JobFilter{Query: "go", Company: "Google"}
	s := reduceJobs(InitialJobsState(nil), SetFilter{Filter: f})
	if s.Filter != f {
		t.Errorf("Filter = %+v", s.Filter)
	}
	s = reduceJobs(s, ClearFilters{})
	if !s.Filter.IsZero() {
		t.Errorf("Filter after clear = %+v", s.Filter)
	}
}
