package state

import (
	"github.com/bryan-buckman/jobdesk/internal/model"
)

// JobsState is the jobs slice: the canonical catalog and the active filter.
type JobsState struct {
	Catalog []model.Job     `json:"catalog"`
	Filter  model.JobFilter `json:"filter"`
}

// InitialJobsState returns a jobs slice holding a copy of catalog.
func InitialJobsState(catalog []model.Job) JobsState {
	return JobsState{Catalog: cloneJobs(catalog)}
}

// Job looks up a catalog entry by id.
func (s JobsState) Job(id string) (model.Job, bool) {
	for _, j := range s.Catalog {
		if j.ID == id {
			return j.Clone(), true
		}
	}
	return model.Job{}, false
}

func cloneJobs(jobs []model.Job) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.ID == "" {
			continue
		}
		out = append(out, j.Catalog())
	}
	return out
}

func reduceJobs(s JobsState, a Action) JobsState {
	switch a := a.(type) {
	case ReplaceCatalog:
		s.Catalog = dedupe(cloneJobs(a.Jobs))

	case MergeCatalog:
		next := cloneJobs(s.Catalog)
		pos := make(map[string]int, len(next))
		for i, j := range next {
			pos[j.ID] = i
		}
		for _, j := range cloneJobs(a.Jobs) {
			if i, ok := pos[j.ID]; ok {
				next[i] = j
				continue
			}
			pos[j.ID] = len(next)
			next = append(next, j)
		}
		s.Catalog = next

	case SetFilter:
		s.Filter = a.Filter

	case ClearFilters:
		s.Filter = model.JobFilter{}

	case rehydrate:
		return a.Jobs
	}
	return s
}

// dedupe keeps the last listing for each id at the position of the first.
func dedupe(jobs []model.Job) []model.Job {
	pos := make(map[string]int, len(jobs))
	out := jobs[:0]
	for _, j := range jobs {
		if i, ok := pos[j.ID]; ok {
			out[i] = j
			continue
		}
		pos[j.ID] = len(out)
		out = append(out, j)
	}
	return out
}
