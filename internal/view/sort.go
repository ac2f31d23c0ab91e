package view

import (
	"slices"
	"strings"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// Sort keys offered by list pages.
const (
	SortRecent  = "recent"
	SortCompany = "company"
	SortTitle   = "title"
)

// SortJobs returns a stably sorted copy of jobs. Unknown keys sort by recency.
// Recency uses the applied time, then the saved time; jobs with neither keep
// their relative order after the dated ones.
func SortJobs(jobs []model.Job, key string) []model.Job {
	out := slices.Clone(jobs)
	switch key {
	case SortCompany:
		slices.SortStableFunc(out, func(a, b model.Job) int {
			return strings.Compare(strings.ToLower(a.Company.Name), strings.ToLower(b.Company.Name))
		})
	case SortTitle:
		slices.SortStableFunc(out, func(a, b model.Job) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	default:
		slices.SortStableFunc(out, func(a, b model.Job) int {
			ta, tb := recency(a), recency(b)
			return tb.Compare(ta)
		})
	}
	return out
}

func recency(j model.Job) time.Time {
	if j.AppliedAt != nil {
		return *j.AppliedAt
	}
	if j.SavedAt != nil {
		return *j.SavedAt
	}
	return time.Time{}
}
