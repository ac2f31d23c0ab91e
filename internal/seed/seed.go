// Package seed holds the fixture data pages start from.
package seed

import (
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// Catalog is the built-in job catalog used until feeds are fetched.
func Catalog() []model.Job {
	return []model.Job{
		{
			ID: "ethio-1", Title: "Frontend Developer",
			Company:  model.Company{Name: "EthioTech", Logo: "/placeholder.svg", Website: "https://ethiotech.et"},
			Location: "Addis Ababa, Ethiopia", Type: model.JobTypeFullTime,
			Skills: []string{"React", "TypeScript", "TailwindCSS"}, Rating: 4.7,
			Salary: "ETB 60,000 - 80,000", Experience: "3+ years", PostedAt: "2 days ago", Applicants: 42,
			Featured: true,
		},
		{
			ID: "global-1", Title: "Backend Engineer",
			Company:  model.Company{Name: "GlobalSoft", Logo: "/placeholder.svg", Website: "https://globalsoft.com"},
			Location: "London, UK", Type: model.JobTypeFullTime,
			Skills: []string{"Node.js", "Express", "MongoDB"}, Rating: 4.5,
			Salary: "£70,000 - £90,000", Experience: "5+ years", PostedAt: "1 week ago", Applicants: 120,
			Recommended: true,
		},
		{
			ID: "ethio-2", Title: "UI/UX Designer",
			Company:  model.Company{Name: "AddisCreative", Logo: "/placeholder.svg", Website: "https://addiscreative.et"},
			Location: "Addis Ababa, Ethiopia", Type: model.JobTypeContract,
			Skills: []string{"Figma", "Adobe XD", "Prototyping"}, Rating: 4.8,
			PostedAt: "3 days ago", Applicants: 18,
		},
		{
			ID: "global-2", Title: "Full Stack Developer",
			Company:  model.Company{Name: "BlueDot", Logo: "/placeholder.svg", Website: "https://bluedot.com"},
			Location: "New York, USA", Type: model.JobTypeFullTime,
			Skills: []string{"React", "Node.js", "GraphQL"}, Rating: 4.3,
			Salary: "$130,000 - $160,000", PostedAt: "5 days ago", Applicants: 87,
			Promoted: true,
		},
		{
			ID: "google-1", Title: "UI/UX Designer",
			Company:  model.Company{Name: "Google", Logo: "/google-logo.png", Website: "https://www.google.com"},
			Location: "Mountain View, CA, USA", Type: model.JobTypeFullTime,
			Skills: []string{"Figma", "User Research", "Design Systems"},
			PostedAt: "1 day ago", Applicants: 310, Featured: true,
		},
		{
			ID: "microsoft-1", Title: "Frontend Developer",
			Company:  model.Company{Name: "Microsoft", Logo: "/microsoft-logo.png", Website: "https://www.microsoft.com"},
			Location: "Redmond, WA, USA", Type: model.JobTypeRemote,
			Skills: []string{"TypeScript", "React", "Accessibility"},
			PostedAt: "4 days ago", Applicants: 205, Recommended: true,
		},
		{
			ID: "ethiotelecom-1", Title: "Network Engineer",
			Company:  model.Company{Name: "Ethio Telecom", Logo: "/ethio-logo.png", Website: "https://www.ethiotelecom.et"},
			Location: "Addis Ababa, Ethiopia", Type: model.JobTypeFullTime,
			Skills: []string{"Cisco", "BGP", "Linux"},
			PostedAt: "6 days ago", Applicants: 64,
		},
		{
			ID: "jumia-1", Title: "Product Manager",
			Company:  model.Company{Name: "Jumia Ethiopia", Logo: "/jumia-logo.png", Website: "https://www.jumia.com.et"},
			Location: "Addis Ababa, Ethiopia", Type: model.JobTypePartTime,
			Skills: []string{"Roadmapping", "Analytics", "E-commerce"},
			PostedAt: "2 weeks ago", Applicants: 29,
		},
	}
}

// MyJobs are the sample jobs merged in front of the user's saved and applied
// lists on the my-jobs page.
func MyJobs(now time.Time) []model.Job {
	jobs := Catalog()[:4]
	out := make([]model.Job, 0, len(jobs))
	statuses := []model.AppStatus{
		model.StatusUnderReview,
		model.StatusInterviewScheduled,
		model.StatusUnderReview,
		model.StatusInterviewScheduled,
	}
	for i, j := range jobs {
		j = j.Clone()
		at := now
		j.SavedAt = &at
		j.AppliedAt = &at
		j.ApplicationStatus = string(statuses[i])
		out = append(out, j)
	}
	return out
}

// Offers seeds the offers tab.
func Offers() []model.Offer {
	return []model.Offer{
		{
			ID:         "offer-1",
			JobTitle:   "Senior Product Designer",
			Company:    "TechCorp Inc.",
			Salary:     "$120,000 - $150,000",
			Remote:     true,
			ReceivedAt: "2025-01-20",
			Status:     model.OfferReceived,
		},
	}
}

// Conversations seeds the messages page.
func Conversations(now time.Time) []model.Conversation {
	type seedConv struct {
		id      string
		p       model.Participant
		last    string
		read    bool
		unread  int
		starred bool
	}
	rows := []seedConv{
		{"1", model.Participant{ID: "hr1", Name: "Sarah Johnson", Title: "HR Manager", Company: "Google", Avatar: "/female-avatar.jpg", Online: true},
			"Hi! Are you available for an interview tomorrow?", false, 1, true},
		{"2", model.Participant{ID: "hr2", Name: "Michael Chen", Title: "Technical Recruiter", Company: "Microsoft", Avatar: "/male-avatar.jpg", Online: true},
			"Please review the attached document.", true, 0, false},
		{"3", model.Participant{ID: "hr3", Name: "Emily Rodriguez", Title: "Talent Acquisition", Company: "Apple", Avatar: "/female-avatar-2.jpg", Online: true},
			"Can we reschedule the interview?", false, 1, false},
		{"4", model.Participant{ID: "hr4", Name: "David Lee", Title: "Recruiter", Company: "Amazon", Avatar: "/male-avatar-2.jpg", Online: false},
			"Please review the job description.", false, 1, false},
	}
	out := make([]model.Conversation, 0, len(rows))
	for i, r := range rows {
		msg := model.Message{
			ID:        "msg" + r.id,
			SenderID:  r.p.ID,
			Content:   r.last,
			Timestamp: now.Add(-time.Duration(i+1) * time.Hour),
			Read:      r.read,
		}
		out = append(out, model.Conversation{
			ID:          r.id,
			Participant: r.p,
			LastMessage: &msg,
			Messages:    []model.Message{msg},
			UnreadCount: r.unread,
			Starred:     r.starred,
		})
	}
	return out
}

// Notifications seeds the notifications page.
func Notifications() []model.Notification {
	ts := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []model.Notification{
		{ID: "1", Type: model.NotificationInterview, Title: "Interview Reminder",
			Description: "You have an interview with Google tomorrow at 2:00 PM for UI/UX Designer position",
			Timestamp:   ts("2025-01-22T10:00:00Z"), Priority: model.PriorityHigh, Avatar: "/google-logo.png"},
		{ID: "2", Type: model.NotificationMessage, Title: "New Message from Sarah Johnson",
			Description: "Hi Albert! We'd love to schedule an interview with you...",
			Timestamp:   ts("2025-01-22T09:30:00Z"), Priority: model.PriorityMedium, Avatar: "/female-avatar.jpg"},
		{ID: "3", Type: model.NotificationJobMatch, Title: "New Job Match",
			Description: "Frontend Developer at Microsoft - 95% match with your profile",
			Timestamp:   ts("2025-01-22T08:15:00Z"), Priority: model.PriorityMedium},
		{ID: "4", Type: model.NotificationApplicationUpdate, Title: "Application Status Update",
			Description: "Your application for Product Designer at Apple has been reviewed",
			Timestamp:   ts("2025-01-21T16:45:00Z"), Read: true, Priority: model.PriorityMedium},
		{ID: "5", Type: model.NotificationProfileView, Title: "Profile Views",
			Description: "5 recruiters viewed your profile in the last 24 hours",
			Timestamp:   ts("2025-01-21T14:20:00Z"), Read: true, Priority: model.PriorityLow},
		{ID: "6", Type: model.NotificationConnection, Title: "New Connection Request",
			Description: "Michael Chen wants to connect with you",
			Timestamp:   ts("2025-01-21T12:10:00Z"), Read: true, Priority: model.PriorityLow, Avatar: "/male-avatar.jpg"},
	}
}

// Events seeds the calendar.
func Events(now time.Time) []model.CalendarEvent {
	return []model.CalendarEvent{
		{ID: "1", Title: "Addis Ababa Tech Summit", Company: "EthioTech", CompanyLogo: "/placeholder.svg",
			Date: now, Time: "10:00 AM", Type: model.EventOnsite, Status: model.EventConfirmed},
		{ID: "2", Title: "Zoom Interview with Gebeya", Company: "Gebeya Talent", CompanyLogo: "/placeholder.svg",
			Date: now.AddDate(0, 0, 2), Time: "2:00 PM", Type: model.EventVideo, Status: model.EventPending},
	}
}

// Applications seeds the tracker.
func Applications(now time.Time) []model.TrackedApplication {
	day := 24 * time.Hour
	return []model.TrackedApplication{
		{ID: "a1", Role: "UI/UX Designer", Company: "Ethio Telecom", Status: model.StatusInterviewScheduled,
			Progress: 80, AppliedDate: now.Add(-6 * day), Notes: "Interviewed by HR, portfolio requested"},
		{ID: "a2", Role: "Frontend Developer", Company: "Safaricom Ethiopia", Status: model.StatusUnderReview,
			Progress: 50, AppliedDate: now.Add(-4 * day), Notes: "Resume submitted via referral"},
		{ID: "a3", Role: "Graphic Designer", Company: "Dashen Bank", Status: model.StatusApplicationSent,
			Progress: 25, AppliedDate: now.Add(-2 * day)},
		{ID: "a4", Role: "Backend Engineer", Company: "Zemen Bank", Status: model.StatusOfferReceived,
			Progress: 100, AppliedDate: now.Add(-10 * day), Notes: "Offer accepted - started onboarding"},
	}
}

// Documents seeds the document manager.
func Documents() []model.Document {
	d := func(s string) time.Time {
		t, _ := time.Parse(time.DateOnly, s)
		return t
	}
	return []model.Document{
		{ID: "1", Name: "Abel_Birhanu_Resume.pdf", Type: model.DocResume, Size: "1.5 MB",
			UploadDate: d("2025-01-20"), LastModified: d("2025-01-20"), Status: model.DocActive},
		{ID: "2", Name: "Cover_Letter_Abel_Birhanu.pdf", Type: model.DocCoverLetter, Size: "0.9 MB",
			UploadDate: d("2025-01-18"), LastModified: d("2025-01-18"), Status: model.DocActive},
		{ID: "3", Name: "Ethiopian_UX_Certificate.pdf", Type: model.DocCertificate, Size: "2.2 MB",
			UploadDate: d("2024-12-10"), LastModified: d("2024-12-10"), Status: model.DocActive},
		{ID: "4", Name: "Portfolio_Abel_2025.pdf", Type: model.DocPortfolio, Size: "12 MB",
			UploadDate: d("2025-01-05"), LastModified: d("2025-01-19"), Status: model.DocActive},
		{ID: "5", Name: "Draft_Resume_v2.pdf", Type: model.DocResume, Size: "1.3 MB",
			UploadDate: d("2025-01-22"), LastModified: d("2025-01-22"), Status: model.DocDraft},
	}
}

// Companies seeds the companies page.
func Companies() []model.CompanyListing {
	return []model.CompanyListing{
		{ID: 1, Name: "Google", Logo: "/google-logo.png", Industry: "Technology", Location: "Mountain View, CA, USA",
			Employees: "100,000+", Rating: 4.5, OpenJobs: 1250, Website: "https://www.google.com"},
		{ID: 2, Name: "Microsoft", Logo: "/microsoft-logo.png", Industry: "Technology", Location: "Redmond, WA, USA",
			Employees: "200,000+", Rating: 4.4, OpenJobs: 980, Website: "https://www.microsoft.com"},
		{ID: 3, Name: "Ethio Telecom", Logo: "/ethio-logo.png", Industry: "Telecommunications", Location: "Addis Ababa, Ethiopia",
			Employees: "20,000+", Rating: 4.2, OpenJobs: 150, Website: "https://www.ethiotelecom.et"},
		{ID: 4, Name: "Jumia Ethiopia", Logo: "/jumia-logo.png", Industry: "E-commerce", Location: "Addis Ababa, Ethiopia",
			Employees: "500+", Rating: 4.0, OpenJobs: 50, Website: "https://www.jumia.com.et"},
	}
}
