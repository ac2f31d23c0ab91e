package view

import (
	"fmt"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// MaxInterviews is how many applied jobs get a synthesized interview.
const MaxInterviews = 6

var (
	interviewTimes = [...]string{"10:00 AM", "2:00 PM", "4:00 PM"}
	interviewTypes = [...]string{InterviewVideo, InterviewOnsite}
)

// Interview types.
const (
	InterviewVideo  = "Video Call"
	InterviewOnsite = "On-site"
)

// Interviews synthesizes one interview for each of the first MaxInterviews
// applied jobs. Interview i is on the calendar day now+i+1, so the result
// depends only on the list order and the date of now.
func Interviews(applied []model.Job, now time.Time) []model.Interview {
	n := min(len(applied), MaxInterviews)
	out := make([]model.Interview, 0, n)
	for idx, job := range applied[:n] {
		status := "Confirmed"
		if idx == 0 {
			status = "Scheduled"
		}
		out = append(out, model.Interview{
			ID:          fmt.Sprintf("%s-iv-%d", job.ID, idx),
			JobID:       job.ID,
			Company:     job.Company.Name,
			JobTitle:    job.Title,
			CompanyLogo: job.Company.Logo,
			Date:        now.AddDate(0, 0, idx+1).Format(time.DateOnly),
			Time:        interviewTimes[idx%len(interviewTimes)],
			Type:        interviewTypes[idx%len(interviewTypes)],
			Status:      status,
			Location:    job.Location,
		})
	}
	return out
}
