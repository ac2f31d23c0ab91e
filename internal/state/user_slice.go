package state

import (
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// SavedEntry is the annotation recorded when a job is saved. Job is a private
// catalog copy; the annotation lives beside it, never inside it.
type SavedEntry struct {
	Job     model.Job `json:"job"`
	SavedAt time.Time `json:"savedAt"`
}

// AppliedEntry is the annotation recorded when the user applies to a job.
type AppliedEntry struct {
	Job       model.Job       `json:"job"`
	AppliedAt time.Time       `json:"appliedAt"`
	Status    model.AppStatus `json:"status"`
}

// UserState is the user slice.
type UserState struct {
	Profile model.Profile  `json:"profile"`
	Saved   []SavedEntry   `json:"savedJobs"`
	Applied []AppliedEntry `json:"appliedJobs"`
}

// InitialUserState is the state before anything is saved or rehydrated.
func InitialUserState() UserState {
	return UserState{
		Saved:   []SavedEntry{},
		Applied: []AppliedEntry{},
	}
}

// SavedJobs joins each saved entry with its annotation, in save order.
func (u UserState) SavedJobs() []model.Job {
	out := make([]model.Job, 0, len(u.Saved))
	for _, e := range u.Saved {
		j := e.Job.Clone()
		at := e.SavedAt
		j.SavedAt = &at
		out = append(out, j)
	}
	return out
}

// AppliedJobs joins each applied entry with its annotation, in apply order.
func (u UserState) AppliedJobs() []model.Job {
	out := make([]model.Job, 0, len(u.Applied))
	for _, e := range u.Applied {
		j := e.Job.Clone()
		at := e.AppliedAt
		j.AppliedAt = &at
		j.ApplicationStatus = string(e.Status)
		out = append(out, j)
	}
	return out
}

// IsSaved reports whether jobID is in the saved list.
func (u UserState) IsSaved(jobID string) bool {
	return indexSaved(u.Saved, jobID) >= 0
}

// IsApplied reports whether jobID is in the applied list.
func (u UserState) IsApplied(jobID string) bool {
	return indexApplied(u.Applied, jobID) >= 0
}

func indexSaved(entries []SavedEntry, id string) int {
	for i, e := range entries {
		if e.Job.ID == id {
			return i
		}
	}
	return -1
}

func indexApplied(entries []AppliedEntry, id string) int {
	for i, e := range entries {
		if e.Job.ID == id {
			return i
		}
	}
	return -1
}

// reduceUser never mutates s; every change allocates fresh slices so earlier
// snapshots stay valid.
func reduceUser(s UserState, a Action) UserState {
	switch a := a.(type) {
	case SaveJob:
		if a.Job.ID == "" || indexSaved(s.Saved, a.Job.ID) >= 0 {
			return s
		}
		next := make([]SavedEntry, len(s.Saved), len(s.Saved)+1)
		copy(next, s.Saved)
		s.Saved = append(next, SavedEntry{Job: a.Job.Catalog(), SavedAt: a.At})

	case UnsaveJob:
		i := indexSaved(s.Saved, a.JobID)
		if i < 0 {
			return s
		}
		next := make([]SavedEntry, 0, len(s.Saved)-1)
		next = append(next, s.Saved[:i]...)
		s.Saved = append(next, s.Saved[i+1:]...)

	case ApplyToJob:
		if a.Job.ID == "" || indexApplied(s.Applied, a.Job.ID) >= 0 {
			return s
		}
		next := make([]AppliedEntry, len(s.Applied), len(s.Applied)+1)
		copy(next, s.Applied)
		s.Applied = append(next, AppliedEntry{
			Job:       a.Job.Catalog(),
			AppliedAt: a.At,
			Status:    model.StatusApplicationSent,
		})

	case WithdrawApplication:
		i := indexApplied(s.Applied, a.JobID)
		if i < 0 {
			return s
		}
		next := make([]AppliedEntry, 0, len(s.Applied)-1)
		next = append(next, s.Applied[:i]...)
		s.Applied = append(next, s.Applied[i+1:]...)

	case UpdateApplicationStatus:
		i := indexApplied(s.Applied, a.JobID)
		if i < 0 || !a.Status.Valid() {
			return s
		}
		next := make([]AppliedEntry, len(s.Applied))
		copy(next, s.Applied)
		next[i].Status = a.Status
		s.Applied = next

	case SetProfile:
		s.Profile = a.Profile

	case rehydrate:
		return a.User
	}
	return s
}
