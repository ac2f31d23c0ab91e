package pages

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/view"
)

// ApplicationForm is the add/edit dialog of the tracker. An empty ID adds a
// new application.
type ApplicationForm struct {
	ID          string          `json:"id,omitempty"`
	Role        string          `json:"role"`
	Company     string          `json:"company"`
	Status      model.AppStatus `json:"status"`
	Progress    int             `json:"progress"`
	AppliedDate string          `json:"appliedDate"`
	Notes       string          `json:"notes"`
}

// TrackerView is the application tracker page.
type TrackerView struct {
	Search       string                     `json:"search"`
	Applications []model.TrackedApplication `json:"applications"`
	Stats        view.TrackerStats          `json:"stats"`
}

// TrackerPage keeps the tracked applications.
type TrackerPage struct {
	base

	mu     sync.Mutex
	search string
	apps   []model.TrackedApplication
}

func NewTrackerPage(d Deps) *TrackerPage {
	d = d.withDefaults()
	return &TrackerPage{
		base: newBase(d, "tracker"),
		apps: seed.Applications(d.Clock.Now()),
	}
}

// SetSearch filters by role or company.
func (p *TrackerPage) SetSearch(q string) {
	p.mu.Lock()
	p.search = q
	p.mu.Unlock()
}

func (p *TrackerPage) index(id string) int {
	return slices.IndexFunc(p.apps, func(a model.TrackedApplication) bool { return a.ID == id })
}

// Save adds or edits an application. New applications go first.
func (p *TrackerPage) Save(f ApplicationForm) (model.TrackedApplication, error) {
	app, err := p.fromForm(f)
	if err != nil {
		return model.TrackedApplication{}, err
	}

	p.mu.Lock()
	apps := slices.Clone(p.apps)
	if f.ID == "" {
		app.ID = uuid.NewString()
		apps = slices.Insert(apps, 0, app)
	} else {
		i := p.index(f.ID)
		if i < 0 {
			p.mu.Unlock()
			return model.TrackedApplication{}, errors.NotFound("application "+f.ID, nil)
		}
		app.ID = f.ID
		apps[i] = app
	}
	p.apps = apps
	p.mu.Unlock()

	if f.ID == "" {
		p.toasts.Success("Application added")
	} else {
		p.toasts.Success("Application updated")
	}
	return app, nil
}

func (p *TrackerPage) fromForm(f ApplicationForm) (model.TrackedApplication, error) {
	app := model.TrackedApplication{
		Role:     strings.TrimSpace(f.Role),
		Company:  strings.TrimSpace(f.Company),
		Status:   f.Status,
		Progress: min(max(f.Progress, 0), 100),
		Notes:    strings.TrimSpace(f.Notes),
	}
	if app.Role == "" || app.Company == "" {
		return app, errors.Validation("role and company are required")
	}
	if app.Status == "" {
		app.Status = model.StatusApplicationSent
	}
	if !app.Status.Valid() {
		return app, errors.Validation("unknown status " + string(app.Status))
	}
	if f.AppliedDate == "" {
		app.AppliedDate = p.clock.Now()
		return app, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, f.AppliedDate, p.clock.Now().Location())
	if err != nil {
		return app, errors.Validation("applied date must be YYYY-MM-DD")
	}
	app.AppliedDate = d
	return app, nil
}

// Delete removes an application. Unknown ids are ignored.
func (p *TrackerPage) Delete(id string) {
	p.mu.Lock()
	i := p.index(id)
	if i >= 0 {
		p.apps = slices.Delete(slices.Clone(p.apps), i, i+1)
	}
	p.mu.Unlock()
	if i >= 0 {
		p.toasts.Success("Application deleted")
	}
}

// Advance moves an application one step along the workflow. Progress only
// reaches 100 at the last step, and advancing from there changes nothing
// else.
func (p *TrackerPage) Advance(id string) (model.TrackedApplication, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return model.TrackedApplication{}, errors.NotFound("application "+id, nil)
	}
	app := advance(p.apps[i])
	apps := slices.Clone(p.apps)
	apps[i] = app
	p.apps = apps
	return app, nil
}

func advance(app model.TrackedApplication) model.TrackedApplication {
	last := len(model.StatusOrder) - 1
	next := min(slices.Index(model.StatusOrder, app.Status)+1, last)
	app.Status = model.StatusOrder[next]
	if next == last {
		app.Progress = 100
		return app
	}
	app.Progress = max(app.Progress, min(app.Progress+25, 99))
	return app
}

// View projects the page.
func (p *TrackerPage) View() TrackerView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return TrackerView{
		Search:       p.search,
		Applications: view.Search(p.apps, p.search, view.ApplicationFields),
		Stats:        view.Stats(p.apps),
	}
}
