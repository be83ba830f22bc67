// Package types provides type definitions for structured data used throughout the job tracker.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultUserID is the placeholder owner used when a caller does not supply one.
const DefaultUserID = "demo-user"

// ApplicationStatus is the pipeline stage of a job application.
type ApplicationStatus string

// Application statuses.
const (
	StatusApplied   ApplicationStatus = "applied"
	StatusInterview ApplicationStatus = "interview"
	StatusRejected  ApplicationStatus = "rejected"
	StatusOffer     ApplicationStatus = "offer"
	StatusAccepted  ApplicationStatus = "accepted"
)

// StatusAll is the list filter value that disables status filtering.
const StatusAll = "all"

// Statuses lists every valid status in display order.
var Statuses = []ApplicationStatus{StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusAccepted}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusRejected, StatusOffer, StatusAccepted:
		return true
	}
	return false
}

// Priority ranks how much the user cares about an application.
type Priority string

// Priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// JobType is the employment type of a position.
type JobType string

// Job types.
const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeInternship JobType = "internship"
	JobTypeContract   JobType = "contract"
)

// JobTypes lists every valid job type in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract}

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract:
		return true
	}
	return false
}

// JobApplication is one tracked job-search entry.
type JobApplication struct {
	ID              uuid.UUID         `json:"id"`
	UserID          string            `json:"userId"`
	CompanyName     string            `json:"companyName"`
	JobTitle        string            `json:"jobTitle"`
	JobDescription  string            `json:"jobDescription"`
	ApplicationDate time.Time         `json:"applicationDate"`
	Deadline        *time.Time        `json:"deadline,omitempty"`
	Status          ApplicationStatus `json:"status"`
	Priority        Priority          `json:"priority"`
	JobURL          string            `json:"jobUrl,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	ContactPerson   string            `json:"contactPerson,omitempty"`
	ContactEmail    string            `json:"contactEmail,omitempty"`
	Salary          string            `json:"salary,omitempty"`
	Location        string            `json:"location"`
	JobType         JobType           `json:"jobType"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// JobApplicationPatch is a partial update. Nil fields are left untouched.
type JobApplicationPatch struct {
	CompanyName     *string
	JobTitle        *string
	JobDescription  *string
	ApplicationDate *time.Time
	Deadline        *time.Time
	ClearDeadline   bool
	Status          *ApplicationStatus
	Priority        *Priority
	JobURL          *string
	Notes           *string
	ContactPerson   *string
	ContactEmail    *string
	Salary          *string
	Location        *string
	JobType         *JobType
}

// Apply merges the patch onto job and stamps UpdatedAt with now.
func (p *JobApplicationPatch) Apply(job *JobApplication, now time.Time) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&job.CompanyName, p.CompanyName)
	setString(&job.JobTitle, p.JobTitle)
	setString(&job.JobDescription, p.JobDescription)
	setString(&job.JobURL, p.JobURL)
	setString(&job.Notes, p.Notes)
	setString(&job.ContactPerson, p.ContactPerson)
	setString(&job.ContactEmail, p.ContactEmail)
	setString(&job.Salary, p.Salary)
	setString(&job.Location, p.Location)

	if p.ApplicationDate != nil {
		job.ApplicationDate = *p.ApplicationDate
	}
	if p.ClearDeadline {
		job.Deadline = nil
	} else if p.Deadline != nil {
		d := *p.Deadline
		job.Deadline = &d
	}
	if p.Status != nil {
		job.Status = *p.Status
	}
	if p.Priority != nil {
		job.Priority = *p.Priority
	}
	if p.JobType != nil {
		job.JobType = *p.JobType
	}

	if now.Before(job.CreatedAt) {
		now = job.CreatedAt
	}
	job.UpdatedAt = now
}

// ListFilter narrows a job application listing.
type ListFilter struct {
	UserID string
	// Status is an exact match; empty or "all" disables it.
	Status string
	// Search is a case-insensitive substring matched against company, title or location.
	Search string
}

// StatusFilterActive reports whether the filter restricts by status.
func (f ListFilter) StatusFilterActive() bool {
	return f.Status != "" && f.Status != StatusAll
}

// Matches reports whether job passes the status and search criteria.
// UserID is not consulted; callers scope by owner before filtering.
func (f ListFilter) Matches(job *JobApplication) bool {
	if f.StatusFilterActive() && string(job.Status) != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(job.CompanyName), term) ||
		strings.Contains(strings.ToLower(job.JobTitle), term) ||
		strings.Contains(strings.ToLower(job.Location), term)
}

// Clone returns a deep copy of the job.
func (j *JobApplication) Clone() *JobApplication {
	c := *j
	if j.Deadline != nil {
		d := *j.Deadline
		c.Deadline = &d
	}
	return &c
}
