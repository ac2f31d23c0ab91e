package pages

import (
	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/state"
	"github.com/bryan-buckman/jobdesk/internal/view"
)

// JobItem is a catalog job with the user's relation to it.
type JobItem struct {
	model.Job
	Saved   bool `json:"saved"`
	Applied bool `json:"applied"`
}

// JobsView is the home page list.
type JobsView struct {
	Filter model.JobFilter `json:"filter"`
	Jobs   []JobItem       `json:"jobs"`
	Total  int             `json:"total"`
}

type jobsKey struct {
	rev     uint64
	company string
}

// JobsPage backs the home list and the job detail page.
type JobsPage struct {
	base
	store *state.Store
	memo  view.Memo[jobsKey, JobsView]
}

func NewJobsPage(d Deps) *JobsPage {
	d = d.withDefaults()
	return &JobsPage{base: newBase(d, "jobs"), store: d.Store}
}

// List returns the catalog under the active filter. A non-empty company
// pre-filters the list without touching the stored filter.
func (p *JobsPage) List(company string) JobsView {
	st := p.store.GetState()
	return p.memo.Get(jobsKey{rev: st.Rev, company: company}, func() JobsView {
		f := st.Jobs.Filter
		if company != "" {
			f.Company = company
		}
		jobs := view.FilterJobs(st.Jobs.Catalog, f)
		items := make([]JobItem, 0, len(jobs))
		for _, j := range jobs {
			items = append(items, item(st, j))
		}
		return JobsView{Filter: f, Jobs: items, Total: len(st.Jobs.Catalog)}
	})
}

// Detail returns one catalog job.
func (p *JobsPage) Detail(id string) (JobItem, error) {
	st := p.store.GetState()
	j, ok := st.Jobs.Job(id)
	if !ok {
		return JobItem{}, errors.NotFound("job "+id, nil)
	}
	return item(st, j), nil
}

func item(st state.RootState, j model.Job) JobItem {
	return JobItem{
		Job:     j.Clone(),
		Saved:   st.User.IsSaved(j.ID),
		Applied: st.User.IsApplied(j.ID),
	}
}

// SetFilter stores new search criteria.
func (p *JobsPage) SetFilter(f model.JobFilter) error {
	return p.store.Dispatch(state.SetFilter{Filter: f})
}

// ClearFilters resets the search criteria.
func (p *JobsPage) ClearFilters() error {
	return p.store.Dispatch(state.ClearFilters{})
}

// Save adds a catalog job to the saved list.
func (p *JobsPage) Save(id string) error {
	j, ok := p.store.GetState().Jobs.Job(id)
	if !ok {
		return errors.NotFound("job "+id, nil)
	}
	return p.guarded(p.store, state.SaveJob{Job: j, At: p.clock.Now()}, "Job saved", "Could not save job")
}

// Unsave removes a job from the saved list.
func (p *JobsPage) Unsave(id string) error {
	return p.guarded(p.store, state.UnsaveJob{JobID: id}, "Removed from saved jobs", "Could not remove saved job")
}

// Apply records an application to a catalog job.
func (p *JobsPage) Apply(id string) error {
	j, ok := p.store.GetState().Jobs.Job(id)
	if !ok {
		return errors.NotFound("job "+id, nil)
	}
	return p.guarded(p.store, state.ApplyToJob{Job: j, At: p.clock.Now()}, "Application sent", "Could not apply")
}
