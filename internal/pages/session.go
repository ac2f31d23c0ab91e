package pages

import (
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

// ProfileView is the profile page.
type ProfileView struct {
	Profile model.Profile `json:"profile"`
	Saved   int           `json:"saved"`
	Applied int           `json:"applied"`
}

// NavItem is a header link.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Badge int    `json:"badge,omitempty"`
}

// ShellView is the header shared by every page.
type ShellView struct {
	Profile model.Profile `json:"profile"`
	Nav     []NavItem     `json:"nav"`
}

// Session bundles the controllers of one signed-in user.
type Session struct {
	store *state.Store

	Jobs          *JobsPage
	MyJobs        *MyJobsPage
	Messages      *MessagesPage
	Notifications *NotificationsPage
	Calendar      *CalendarPage
	Tracker       *TrackerPage
	Documents     *DocumentsPage
	Companies     *CompaniesPage
}

// NewSession mounts every page.
func NewSession(d Deps) *Session {
	d = d.withDefaults()
	return &Session{
		store:         d.Store,
		Jobs:          NewJobsPage(d),
		MyJobs:        NewMyJobsPage(d),
		Messages:      NewMessagesPage(d),
		Notifications: NewNotificationsPage(d),
		Calendar:      NewCalendarPage(d),
		Tracker:       NewTrackerPage(d),
		Documents:     NewDocumentsPage(d),
		Companies:     NewCompaniesPage(d),
	}
}

// SignIn records the identity shown in the header and on the profile page.
// Dispatching is skipped when nothing changed.
func (s *Session) SignIn(p model.Profile) error {
	if s.store.GetState().User.Profile == p {
		return nil
	}
	return s.store.Dispatch(state.SetProfile{Profile: p})
}

// Profile projects the profile page.
func (s *Session) Profile() ProfileView {
	u := s.store.GetState().User
	return ProfileView{Profile: u.Profile, Saved: len(u.Saved), Applied: len(u.Applied)}
}

// Shell projects the header.
func (s *Session) Shell() ShellView {
	return ShellView{
		Profile: s.store.GetState().User.Profile,
		Nav: []NavItem{
			{Label: "Jobs", Path: "/"},
			{Label: "My Jobs", Path: "/my-jobs"},
			{Label: "Companies", Path: "/companies"},
			{Label: "Calendar", Path: "/calendar"},
			{Label: "Tracker", Path: "/tracker"},
			{Label: "Documents", Path: "/documents"},
			{Label: "Messages", Path: "/messages"},
			{Label: "Notifications", Path: "/notifications", Badge: s.Notifications.UnreadCount()},
		},
	}
}

// Close tears every page down.
func (s *Session) Close() {
	s.Jobs.Close()
	s.MyJobs.Close()
	s.Messages.Close()
	s.Notifications.Close()
	s.Calendar.Close()
	s.Tracker.Close()
	s.Documents.Close()
	s.Companies.Close()
}
