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

// EventForm is the add-event dialog.
type EventForm struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Time    string `json:"time"`
	Type    string `json:"type"`
}

// CalendarView is the calendar page.
type CalendarView struct {
	Month    view.Month            `json:"month"`
	Selected string                `json:"selected"`
	OnDay    []model.CalendarEvent `json:"onDay"`
	Upcoming []model.CalendarEvent `json:"upcoming"`
}

// CalendarPage keeps the events and the displayed month.
type CalendarPage struct {
	base

	mu       sync.Mutex
	events   []model.CalendarEvent
	current  time.Time
	selected time.Time
}

func NewCalendarPage(d Deps) *CalendarPage {
	d = d.withDefaults()
	now := d.Clock.Now()
	return &CalendarPage{
		base:     newBase(d, "calendar"),
		events:   seed.Events(now),
		current:  firstOfMonth(now),
		selected: now,
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Navigate moves the displayed month by delta months.
func (p *CalendarPage) Navigate(delta int) {
	p.mu.Lock()
	p.current = p.current.AddDate(0, delta, 0)
	p.mu.Unlock()
}

// Today shows the current month and selects today.
func (p *CalendarPage) Today() {
	now := p.clock.Now()
	p.mu.Lock()
	p.current = firstOfMonth(now)
	p.selected = now
	p.mu.Unlock()
}

// Select picks the day new events are added to.
func (p *CalendarPage) Select(date time.Time) {
	p.mu.Lock()
	p.selected = date
	p.mu.Unlock()
}

// AddEvent adds a pending event on the selected day.
func (p *CalendarPage) AddEvent(f EventForm) (model.CalendarEvent, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Company = strings.TrimSpace(f.Company)
	f.Time = strings.TrimSpace(f.Time)
	if f.Title == "" || f.Company == "" || f.Time == "" {
		return model.CalendarEvent{}, errors.Validation("title, company and time are required")
	}
	switch f.Type {
	case "":
		f.Type = model.EventOnsite
	case model.EventOnsite, model.EventVideo:
	default:
		return model.CalendarEvent{}, errors.Validation("unknown event type " + f.Type)
	}

	p.mu.Lock()
	ev := model.CalendarEvent{
		ID:      uuid.NewString(),
		Title:   f.Title,
		Company: f.Company,
		Date:    p.selected,
		Time:    f.Time,
		Type:    f.Type,
		Status:  model.EventPending,
	}
	p.events = append(slices.Clone(p.events), ev)
	p.mu.Unlock()
	p.toasts.Success("Event added")
	return ev, nil
}

// View projects the page.
func (p *CalendarPage) View() CalendarView {
	now := p.clock.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	return CalendarView{
		Month:    view.MonthGrid(p.current, now, p.selected, p.events),
		Selected: p.selected.Format(time.DateOnly),
		OnDay:    view.EventsOn(p.events, p.selected),
		Upcoming: view.Upcoming(p.events, now),
	}
}
