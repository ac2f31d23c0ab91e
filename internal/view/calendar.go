package view

import (
	"slices"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// Day is one cell of a month grid.
type Day struct {
	Date     string `json:"date"`
	Day      int    `json:"day"`
	Today    bool   `json:"today"`
	Selected bool   `json:"selected"`
	HasEvent bool   `json:"hasEvent"`
}

// Month is the grid for one calendar month. Leading is the number of blank
// cells before day 1 (Sunday first).
type Month struct {
	Year    int    `json:"year"`
	Month   string `json:"month"`
	Leading int    `json:"leading"`
	Days    []Day  `json:"days"`
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// MonthGrid lays out the month containing current.
func MonthGrid(current, today, selected time.Time, events []model.CalendarEvent) Month {
	loc := current.Location()
	first := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, loc)
	daysIn := first.AddDate(0, 1, -1).Day()
	m := Month{
		Year:    first.Year(),
		Month:   first.Month().String(),
		Leading: int(first.Weekday()),
		Days:    make([]Day, 0, daysIn),
	}
	for d := 1; d <= daysIn; d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, loc)
		m.Days = append(m.Days, Day{
			Date:     date.Format(time.DateOnly),
			Day:      d,
			Today:    SameDay(date, today, loc),
			Selected: SameDay(date, selected, loc),
			HasEvent: slices.ContainsFunc(events, func(e model.CalendarEvent) bool {
				return SameDay(e.Date, date, loc)
			}),
		})
	}
	return m
}

// EventsOn returns the events on date's calendar day, in list order.
func EventsOn(events []model.CalendarEvent, date time.Time) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0)
	for _, e := range events {
		if SameDay(e.Date, date, date.Location()) {
			out = append(out, e)
		}
	}
	return out
}

// Upcoming returns events at or after now, earliest first.
func Upcoming(events []model.CalendarEvent, now time.Time) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		if !e.Date.Before(now) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b model.CalendarEvent) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// TrackerStats summarizes the application tracker.
type TrackerStats struct {
	Sent        int `json:"sent"`
	UnderReview int `json:"underReview"`
	Interviews  int `json:"interviews"`
	Offers      int `json:"offers"`
}

// Stats counts applications per workflow step. Sent counts every entry.
func Stats(apps []model.TrackedApplication) TrackerStats {
	st := TrackerStats{Sent: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case model.StatusUnderReview:
			st.UnderReview++
		case model.StatusInterviewScheduled:
			st.Interviews++
		case model.StatusOfferReceived:
			st.Offers++
		}
	}
	return st
}
