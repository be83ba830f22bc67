package dashboard

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"json": toJSON,
}).ParseFS(templateFS, "templates/dashboard.html"))

// Card is one application prepared for display.
type Card struct {
	Job           types.JobApplication
	StatusClass   string
	PriorityClass string
	AppliedOn     string
	HasDeadline   bool
	DeadlineLabel string
	Urgent        bool
}

// Page is the data passed to the dashboard template.
type Page struct {
	UserID     string
	Stats      Stats
	Cards      []Card
	TotalJobs  int
	Search     string
	Status     string
	Statuses   []types.ApplicationStatus
	JobTypes   []types.JobType
	Priorities []types.Priority
}

// NewPage builds the page for a user's full list. Counters cover every job;
// cards cover only those passing the filter.
func NewPage(userID string, jobs []types.JobApplication, status, search string, now time.Time) Page {
	if status == "" {
		status = types.StatusAll
	}

	filtered := Filter(jobs, status, search)
	cards := make([]Card, 0, len(filtered))
	for _, job := range filtered {
		card := Card{
			Job:           job,
			StatusClass:   StatusClass(job.Status),
			PriorityClass: PriorityClass(job.Priority),
			AppliedOn:     FormatDate(job.ApplicationDate),
		}
		if job.Deadline != nil {
			card.HasDeadline = true
			card.DeadlineLabel = DeadlineLabel(*job.Deadline, now)
			card.Urgent = IsUrgent(*job.Deadline, now)
		}
		cards = append(cards, card)
	}

	return Page{
		UserID:     userID,
		Stats:      ComputeStats(jobs, now),
		Cards:      cards,
		TotalJobs:  len(jobs),
		Search:     search,
		Status:     status,
		Statuses:   types.Statuses,
		JobTypes:   types.JobTypes,
		Priorities: []types.Priority{types.PriorityLow, types.PriorityMedium, types.PriorityHigh},
	}
}

// RenderError wraps a template execution failure.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Render writes the dashboard HTML for page to w.
func Render(w io.Writer, page Page) error {
	if err := pageTemplate.Execute(w, page); err != nil {
		return &RenderError{Message: "failed to execute dashboard template", Cause: err}
	}
	return nil
}

// toJSON embeds a value in a data attribute for the page script.
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
