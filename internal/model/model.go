// Package model defines shared data structures.
package model

import "time"

// Job types offered by the catalog. Free text is also accepted.
const (
	JobTypeFullTime = "Full Time"
	JobTypePartTime = "Part Time"
	JobTypeContract = "Contract"
	JobTypeRemote   = "Remote"
)

// Company identifies the employer of a job.
type Company struct {
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Website string `json:"website,omitempty"`
}

// Job is a catalog listing. Catalog fields are immutable once loaded; the
// per-user fields at the bottom are only filled on joined read models.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     Company  `json:"company"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Skills      []string `json:"skills"`
	Salary      string   `json:"salary,omitempty"`
	Experience  string   `json:"experience,omitempty"`
	PostedAt    string   `json:"postedAt,omitempty"`
	Applicants  int      `json:"applicants,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
	Recommended bool     `json:"recommended,omitempty"`
	Promoted    bool     `json:"promoted,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Link        string   `json:"link,omitempty"`

	SavedAt           *time.Time `json:"savedAt,omitempty"`
	AppliedAt         *time.Time `json:"appliedAt,omitempty"`
	ApplicationStatus string     `json:"applicationStatus,omitempty"`
}

// Clone returns a copy that shares no mutable memory with j.
func (j Job) Clone() Job {
	c := j
	if j.Skills != nil {
		c.Skills = append([]string(nil), j.Skills...)
	}
	if j.SavedAt != nil {
		t := *j.SavedAt
		c.SavedAt = &t
	}
	if j.AppliedAt != nil {
		t := *j.AppliedAt
		c.AppliedAt = &t
	}
	return c
}

// Catalog strips the per-user fields.
func (j Job) Catalog() Job {
	c := j.Clone()
	c.SavedAt = nil
	c.AppliedAt = nil
	c.ApplicationStatus = ""
	return c
}

// Profile is the identity of the signed-in user.
type Profile struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Avatar   string `json:"avatar,omitempty"`
}

// JobFilter holds the active search criteria for the catalog.
type JobFilter struct {
	Query    string `json:"query,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
}

// IsZero reports whether no criteria are set.
func (f JobFilter) IsZero() bool {
	return f == JobFilter{}
}

// Participant is the counterpart of a conversation.
type Participant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Avatar  string `json:"avatar,omitempty"`
	Online  bool   `json:"online"`
}

// UserSenderID marks messages written by the signed-in user.
const UserSenderID = "user"

// Message is a single chat line.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Conversation is a thread with one recruiter.
type Conversation struct {
	ID          string      `json:"id"`
	Participant Participant `json:"participant"`
	LastMessage *Message    `json:"lastMessage,omitempty"`
	Messages    []Message   `json:"messages"`
	UnreadCount int         `json:"unreadCount"`
	Starred     bool        `json:"starred"`
}

// NotificationType discriminates notifications for tab scoping.
type NotificationType string

const (
	NotificationJobMatch          NotificationType = "job_match"
	NotificationInterview         NotificationType = "interview"
	NotificationMessage           NotificationType = "message"
	NotificationApplicationUpdate NotificationType = "application_update"
	NotificationProfileView       NotificationType = "profile_view"
	NotificationConnection        NotificationType = "connection"
)

// Priority of a notification.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Notification represents an alert surfaced to the user.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	Read        bool             `json:"read"`
	Favorite    bool             `json:"favorite"`
	Avatar      string           `json:"avatar,omitempty"`
	Priority    Priority         `json:"priority"`
}

// Calendar event kinds and states.
const (
	EventOnsite    = "onsite"
	EventVideo     = "video"
	EventConfirmed = "confirmed"
	EventPending   = "pending"
)

// CalendarEvent is an entry in the user's calendar.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	CompanyLogo string    `json:"companyLogo,omitempty"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
}

// AppStatus is a step of the application workflow.
type AppStatus string

const (
	StatusApplicationSent    AppStatus = "Application Sent"
	StatusUnderReview        AppStatus = "Under Review"
	StatusInterviewScheduled AppStatus = "Interview Scheduled"
	StatusOfferReceived      AppStatus = "Offer Received"
)

// StatusOrder is the workflow in progression order.
var StatusOrder = []AppStatus{
	StatusApplicationSent,
	StatusUnderReview,
	StatusInterviewScheduled,
	StatusOfferReceived,
}

// Valid reports whether s is a known workflow step.
func (s AppStatus) Valid() bool {
	for _, o := range StatusOrder {
		if o == s {
			return true
		}
	}
	return false
}

// TrackedApplication is an entry in the application tracker.
type TrackedApplication struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Status      AppStatus `json:"status"`
	Progress    int       `json:"progress"`
	AppliedDate time.Time `json:"appliedDate"`
	Notes       string    `json:"notes,omitempty"`
}

// DocumentType discriminates documents for tab scoping.
type DocumentType string

const (
	DocResume      DocumentType = "resume"
	DocCoverLetter DocumentType = "cover-letter"
	DocCertificate DocumentType = "certificate"
	DocPortfolio   DocumentType = "portfolio"
	DocOther       DocumentType = "other"
)

// Document states.
const (
	DocActive   = "active"
	DocDraft    = "draft"
	DocArchived = "archived"
)

// Document is a file kept in the document manager. File holds the bytes of
// locally uploaded documents; seeded documents have none.
type Document struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         DocumentType `json:"type"`
	Size         string       `json:"size"`
	UploadDate   time.Time    `json:"uploadDate"`
	LastModified time.Time    `json:"lastModified"`
	Status       string       `json:"status"`
	File         []byte       `json:"-"`
}

// HasFile reports whether the document carries a payload.
func (d Document) HasFile() bool {
	return d.File != nil
}

// Interview is derived from applied jobs; it is never stored.
type Interview struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	Company     string `json:"company"`
	JobTitle    string `json:"jobTitle"`
	CompanyLogo string `json:"companyLogo,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	Reschedule  string `json:"reschedule,omitempty"`
}

// Offer states.
const (
	OfferReceived    = "Received"
	OfferAccepted    = "Accepted"
	OfferDeclined    = "Declined"
	OfferNegotiating = "Negotiating"
)

// Offer is a job offer on the my-jobs page.
type Offer struct {
	ID         string `json:"id"`
	JobTitle   string `json:"jobTitle"`
	Company    string `json:"company"`
	Salary     string `json:"salary"`
	Remote     bool   `json:"remote"`
	ReceivedAt string `json:"receivedAt"`
	Status     string `json:"status"`
}

// CompanyListing is an entry on the companies page.
type CompanyListing struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Logo      string  `json:"logo"`
	Industry  string  `json:"industry"`
	Location  string  `json:"location"`
	Employees string  `json:"employees"`
	Rating    float64 `json:"rating"`
	OpenJobs  int     `json:"openJobs"`
	Website   string  `json:"website"`
}

// JobSource is a job-board feed the catalog is filled from.
type JobSource struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Group       string    `json:"group,omitempty"`
	LastFetched time.Time `json:"lastFetched"`
	LastError   string    `json:"lastError,omitempty"`
}

// Settings key constants.
const (
	SettingPollingInterval = "polling_interval_minutes"
)
