package state

import (
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// Action is a request to change state. Reducers switch on the concrete type.
type Action interface {
	Type() string
}

// User slice actions.

type SaveJob struct {
	Job model.Job
	At  time.Time
}

type UnsaveJob struct {
	JobID string
}

type ApplyToJob struct {
	Job model.Job
	At  time.Time
}

type WithdrawApplication struct {
	JobID string
}

type SetProfile struct {
	Profile model.Profile
}

// UpdateApplicationStatus changes the status of an applied job.
type UpdateApplicationStatus struct {
	JobID  string
	Status model.AppStatus
}

func (SaveJob) Type() string                 { return "user/saveJob" }
func (UnsaveJob) Type() string               { return "user/unsaveJob" }
func (ApplyToJob) Type() string              { return "user/applyToJob" }
func (WithdrawApplication) Type() string     { return "user/withdrawApplication" }
func (SetProfile) Type() string              { return "user/setProfile" }
func (UpdateApplicationStatus) Type() string { return "user/updateApplicationStatus" }

// Jobs slice actions.

type ReplaceCatalog struct {
	Jobs []model.Job
}

// MergeCatalog updates listings in place by id and appends unknown ones in
// the order given.
type MergeCatalog struct {
	Jobs []model.Job
}

type SetFilter struct {
	Filter model.JobFilter
}

type ClearFilters struct{}

func (ReplaceCatalog) Type() string { return "jobs/replaceCatalog" }
func (MergeCatalog) Type() string   { return "jobs/mergeCatalog" }
func (SetFilter) Type() string      { return "jobs/setFilter" }
func (ClearFilters) Type() string   { return "jobs/clearFilters" }

// rehydrate replaces the persisted domains wholesale. Only the store emits it.
type rehydrate struct {
	User UserState
	Jobs JobsState
}

func (rehydrate) Type() string { return "persist/rehydrate" }
