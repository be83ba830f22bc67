// Package dashboard computes the dashboard view of a user's job applications
// and renders it as HTML.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// UrgentDays is the deadline distance at or below which a card is highlighted.
const UrgentDays = 3

// UpcomingDays is the window counted by the upcoming deadlines counter.
const UpcomingDays = 7

// Stats are the six dashboard counters.
type Stats struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	Interviews        int `json:"interviews"`
	Offers            int `json:"offers"`
	Rejections        int `json:"rejections"`
	UpcomingDeadlines int `json:"upcomingDeadlines"`
}

// Filter returns the jobs matching status and search, preserving order.
// Status "all" or empty disables the status test.
func Filter(jobs []types.JobApplication, status, search string) []types.JobApplication {
	filter := types.ListFilter{Status: status, Search: search}
	filtered := make([]types.JobApplication, 0, len(jobs))
	for i := range jobs {
		if filter.Matches(&jobs[i]) {
			filtered = append(filtered, jobs[i])
		}
	}
	return filtered
}

// ComputeStats counts the full list; it is never applied to a filtered view.
func ComputeStats(jobs []types.JobApplication, now time.Time) Stats {
	stats := Stats{Total: len(jobs)}
	for _, job := range jobs {
		switch job.Status {
		case types.StatusApplied:
			stats.Pending++
		case types.StatusInterview:
			stats.Interviews++
		case types.StatusOffer:
			stats.Offers++
		case types.StatusRejected:
			stats.Rejections++
		}
		if job.Deadline != nil && IsUpcoming(*job.Deadline, now) {
			stats.UpcomingDeadlines++
		}
	}
	return stats
}

// DaysUntilDeadline is the number of whole days, rounded up, from now to deadline.
// Past deadlines yield zero or a negative number.
func DaysUntilDeadline(deadline, now time.Time) int {
	days := math.Ceil(float64(deadline.Sub(now)) / float64(24*time.Hour))
	if days == 0 {
		return 0 // normalise -0
	}
	return int(days)
}

// IsUrgent reports whether the deadline is close enough to highlight.
func IsUrgent(deadline, now time.Time) bool {
	return DaysUntilDeadline(deadline, now) <= UrgentDays
}

// IsUpcoming reports whether the deadline falls within the next UpcomingDays days.
func IsUpcoming(deadline, now time.Time) bool {
	days := DaysUntilDeadline(deadline, now)
	return days > 0 && days <= UpcomingDays
}

// DeadlineLabel is the card text for a deadline.
func DeadlineLabel(deadline, now time.Time) string {
	days := DaysUntilDeadline(deadline, now)
	if days > 0 {
		return fmt.Sprintf("%d days left", days)
	}
	return "Deadline passed"
}

// FormatDate renders a date as e.g. "Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006")
}

// StatusClass maps a status to its badge class.
func StatusClass(status types.ApplicationStatus) string {
	switch status {
	case types.StatusApplied:
		return "badge-blue"
	case types.StatusInterview:
		return "badge-yellow"
	case types.StatusRejected:
		return "badge-red"
	case types.StatusOffer:
		return "badge-green"
	case types.StatusAccepted:
		return "badge-purple"
	default:
		return "badge-gray"
	}
}

// PriorityClass maps a priority to its badge class.
func PriorityClass(priority types.Priority) string {
	switch priority {
	case types.PriorityHigh:
		return "badge-red"
	case types.PriorityMedium:
		return "badge-yellow"
	case types.PriorityLow:
		return "badge-green"
	default:
		return "badge-gray"
	}
}
