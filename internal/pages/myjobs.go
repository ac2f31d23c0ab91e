package pages

import (
	"net/url"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/state"
	"github.com/bryan-buckman/jobdesk/internal/view"
)

// My-jobs tabs.
const (
	TabSaved      = "saved"
	TabApplied    = "applied"
	TabInterviews = "interviews"
	TabOffers     = "offers"
)

// Reschedule progress of an interview.
const (
	RescheduleRequested = "requested"
	RescheduleSent      = "sent"
)

const meetBaseURL = "https://meet.example.com/"

// MyJobsView is the my-jobs page.
type MyJobsView struct {
	Tab        string            `json:"tab"`
	Search     string            `json:"search"`
	Sort       string            `json:"sort"`
	Saved      []model.Job       `json:"saved"`
	Applied    []model.Job       `json:"applied"`
	Interviews []model.Interview `json:"interviews"`
	Offers     []model.Offer     `json:"offers"`
	Counts     map[string]int    `json:"counts"`
}

type myJobsKey struct {
	rev     uint64
	samples uint64
	day     string
	search  string
	sort    string
}

type myJobsLists struct {
	saved      []model.Job
	applied    []model.Job
	interviews []model.Interview
}

// MyJobsPage shows saved and applied jobs next to sample entries, the
// interviews derived from applications, and offers.
type MyJobsPage struct {
	base
	store      *state.Store
	reschedule time.Duration

	mu            sync.Mutex
	tab           string
	search        string
	sort          string
	sampleSaved   []model.Job
	sampleApplied []model.Job
	samplesRev    uint64
	offers        []model.Offer
	rescheduling  map[string]string

	memo view.Memo[myJobsKey, myJobsLists]
}

func NewMyJobsPage(d Deps) *MyJobsPage {
	d = d.withDefaults()
	samples := seed.MyJobs(d.Clock.Now())
	return &MyJobsPage{
		base:          newBase(d, "myjobs"),
		store:         d.Store,
		reschedule:    d.Timing.Reschedule,
		tab:           TabSaved,
		sort:          view.SortRecent,
		sampleSaved:   samples,
		sampleApplied: slices.Clone(samples),
		offers:        seed.Offers(),
		rescheduling:  make(map[string]string),
	}
}

// SetTab switches the visible tab.
func (p *MyJobsPage) SetTab(tab string) error {
	switch tab {
	case TabSaved, TabApplied, TabInterviews, TabOffers:
	default:
		return errors.Validation("unknown tab " + tab)
	}
	p.mu.Lock()
	p.tab = tab
	p.mu.Unlock()
	return nil
}

// SetSearch sets the search query applied to the saved and applied lists.
func (p *MyJobsPage) SetSearch(q string) {
	p.mu.Lock()
	p.search = q
	p.mu.Unlock()
}

// SetSort sets the sort key. Unknown keys sort by recency.
func (p *MyJobsPage) SetSort(key string) {
	p.mu.Lock()
	p.sort = key
	p.mu.Unlock()
}

// View projects the page.
func (p *MyJobsPage) View() MyJobsView {
	st := p.store.GetState()
	now := p.clock.Now()

	p.mu.Lock()
	defer p.mu.Unlock()
	lists := p.lists(st, now)

	interviews := make([]model.Interview, len(lists.interviews))
	for i, iv := range lists.interviews {
		iv.Reschedule = p.rescheduling[iv.ID]
		interviews[i] = iv
	}
	return MyJobsView{
		Tab:        p.tab,
		Search:     p.search,
		Sort:       p.sort,
		Saved:      lists.saved,
		Applied:    lists.applied,
		Interviews: interviews,
		Offers:     slices.Clone(p.offers),
		Counts: map[string]int{
			TabSaved:      len(lists.saved),
			TabApplied:    len(lists.applied),
			TabInterviews: len(interviews),
			TabOffers:     len(p.offers),
		},
	}
}

// lists derives the three job lists. Called with p.mu held.
func (p *MyJobsPage) lists(st state.RootState, now time.Time) myJobsLists {
	key := myJobsKey{
		rev:     st.Rev,
		samples: p.samplesRev,
		day:     now.Format(time.DateOnly),
		search:  p.search,
		sort:    p.sort,
	}
	return p.memo.Get(key, func() myJobsLists {
		saved := combine(p.sampleSaved, st.User.SavedJobs())
		applied := combine(p.sampleApplied, st.User.AppliedJobs())
		return myJobsLists{
			saved:      view.SortJobs(view.Search(saved, p.search, view.JobFields), p.sort),
			applied:    view.SortJobs(view.Search(applied, p.search, view.JobFields), p.sort),
			interviews: view.Interviews(applied, now),
		}
	})
}

// combine lists the samples first, then the stored jobs. A stored job
// replaces the sample with the same id.
func combine(samples, stored []model.Job) []model.Job {
	out := make([]model.Job, 0, len(samples)+len(stored))
	for _, s := range samples {
		if !slices.ContainsFunc(stored, func(j model.Job) bool { return j.ID == s.ID }) {
			out = append(out, s.Clone())
		}
	}
	return append(out, stored...)
}

// Unsave removes a job from the saved list. Removing a job that is not saved
// is a no-op.
func (p *MyJobsPage) Unsave(id string) error {
	if err := p.guarded(p.store, state.UnsaveJob{JobID: id}, "Job removed from saved", "Could not remove saved job"); err != nil {
		return err
	}
	p.dropSample(&p.sampleSaved, id)
	return nil
}

// Withdraw removes an application.
func (p *MyJobsPage) Withdraw(id string) error {
	if err := p.guarded(p.store, state.WithdrawApplication{JobID: id}, "Application withdrawn", "Could not withdraw application"); err != nil {
		return err
	}
	p.dropSample(&p.sampleApplied, id)
	return nil
}

func (p *MyJobsPage) dropSample(list *[]model.Job, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.IndexFunc(*list, func(j model.Job) bool { return j.ID == id })
	if i < 0 {
		return
	}
	*list = slices.Delete(slices.Clone(*list), i, i+1)
	p.samplesRev++
}

func (p *MyJobsPage) interview(id string) (model.Interview, bool) {
	for _, iv := range p.View().Interviews {
		if iv.ID == id {
			return iv, true
		}
	}
	return model.Interview{}, false
}

// Reschedule asks the interviewer for a new slot. The request is confirmed
// after a short delay; asking again while a request is open does nothing.
func (p *MyJobsPage) Reschedule(interviewID string) error {
	if _, ok := p.interview(interviewID); !ok {
		return errors.NotFound("interview "+interviewID, nil)
	}
	p.mu.Lock()
	if p.rescheduling[interviewID] == RescheduleRequested {
		p.mu.Unlock()
		return nil
	}
	p.rescheduling[interviewID] = RescheduleRequested
	p.mu.Unlock()

	p.toasts.InfoFor("Requesting reschedule...", p.reschedule)
	p.scope.After(p.reschedule, func() {
		p.mu.Lock()
		p.rescheduling[interviewID] = RescheduleSent
		p.mu.Unlock()
		p.toasts.Success("Reschedule request sent")
		p.logger.Debug("reschedule sent", zap.String("interview", interviewID))
	})
	return nil
}

// JoinCall returns the meeting link of a video interview.
func (p *MyJobsPage) JoinCall(interviewID string) (string, error) {
	iv, ok := p.interview(interviewID)
	if !ok {
		return "", errors.NotFound("interview "+interviewID, nil)
	}
	if iv.Type != view.InterviewVideo {
		return "", errors.Validation("interview " + interviewID + " is not a video call")
	}
	p.toasts.Info("Opening meeting link...")
	return meetBaseURL + url.PathEscape(iv.ID), nil
}

// Directions returns a maps search link for an on-site interview.
func (p *MyJobsPage) Directions(interviewID string) (string, error) {
	iv, ok := p.interview(interviewID)
	if !ok {
		return "", errors.NotFound("interview "+interviewID, nil)
	}
	q := url.Values{"api": {"1"}, "query": {iv.Location}}
	return "https://www.google.com/maps/search/?" + q.Encode(), nil
}

// AcceptOffer marks an offer accepted.
func (p *MyJobsPage) AcceptOffer(id string) error {
	return p.setOffer(id, model.OfferAccepted, "Offer accepted")
}

// DeclineOffer marks an offer declined.
func (p *MyJobsPage) DeclineOffer(id string) error {
	return p.setOffer(id, model.OfferDeclined, "Offer declined")
}

// NegotiateOffer opens a negotiation on an offer.
func (p *MyJobsPage) NegotiateOffer(id string) error {
	return p.setOffer(id, model.OfferNegotiating, "Negotiation started")
}

func (p *MyJobsPage) setOffer(id, status, msg string) error {
	p.mu.Lock()
	i := slices.IndexFunc(p.offers, func(o model.Offer) bool { return o.ID == id })
	if i < 0 {
		p.mu.Unlock()
		return errors.NotFound("offer "+id, nil)
	}
	offers := slices.Clone(p.offers)
	offers[i].Status = status
	p.offers = offers
	p.mu.Unlock()
	p.toasts.Success(msg)
	return nil
}
