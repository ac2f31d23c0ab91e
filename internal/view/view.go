// Package view derives the lists pages render from canonical state and
// page-local UI state. Every function here is pure.
package view

import (
	"slices"
	"strings"
	"sync"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// Search keeps the items whose fields contain q, case-insensitively, in their
// original order. A blank q keeps everything.
func Search[T any](items []T, q string, fields func(T) []string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q == "" || matches(fields(it), q) {
			out = append(out, it)
		}
	}
	return out
}

func matches(fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// JobFields are the searched fields of a job.
func JobFields(j model.Job) []string {
	return []string{j.Title, j.Company.Name, j.Location}
}

// ApplicationFields are the searched fields of a tracked application.
func ApplicationFields(a model.TrackedApplication) []string {
	return []string{a.Role, a.Company}
}

// ConversationFields are the searched fields of a conversation.
func ConversationFields(c model.Conversation) []string {
	return []string{c.Participant.Name, c.Participant.Company}
}

// DocumentFields are the searched fields of a document.
func DocumentFields(d model.Document) []string {
	return []string{d.Name}
}

// TabAll is the identity tab.
const TabAll = "all"

// Tab keeps the items whose discriminant equals tab. TabAll and "" keep
// everything.
func Tab[T any](items []T, tab string, key func(T) string) []T {
	if tab == "" || tab == TabAll {
		return slices.Clone(items)
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if key(it) == tab {
			out = append(out, it)
		}
	}
	return out
}

// CountBy counts items per discriminant.
func CountBy[T any](items []T, key func(T) string) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

// Unread counts items whose read flag is false.
func Unread[T any](items []T, read func(T) bool) int {
	n := 0
	for _, it := range items {
		if !read(it) {
			n++
		}
	}
	return n
}

// FilterJobs applies the catalog filter held by the jobs slice.
func FilterJobs(jobs []model.Job, f model.JobFilter) []model.Job {
	out := Search(jobs, f.Query, JobFields)
	if f.Company == "" && f.Location == "" && f.Type == "" {
		return out
	}
	kept := out[:0]
	for _, j := range out {
		if f.Company != "" && !strings.EqualFold(j.Company.Name, f.Company) {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.Type != "" && !strings.EqualFold(j.Type, f.Type) {
			continue
		}
		kept = append(kept, j)
	}
	return kept
}

// Memo caches the last result of a projection. Compute runs again only when
// the key changes, so the same input key always yields the same value.
type Memo[K comparable, V any] struct {
	mu    sync.Mutex
	valid bool
	key   K
	val   V
}

// Get returns the cached value for key, computing it on a miss.
func (m *Memo[K, V]) Get(key K, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.key == key {
		return m.val
	}
	m.val = compute()
	m.key = key
	m.valid = true
	return m.val
}
