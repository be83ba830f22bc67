package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateJobApplicationRequest is the body of POST /api/jobs.
// Only the enumerations are constrained; free-text fields are stored as given.
type CreateJobApplicationRequest struct {
	UserID          string            `json:"userId"`
	CompanyName     string            `json:"companyName"`
	JobTitle        string            `json:"jobTitle"`
	JobDescription  string            `json:"jobDescription"`
	ApplicationDate Date              `json:"applicationDate"`
	Deadline        Date              `json:"deadline"`
	Status          ApplicationStatus `json:"status" validate:"omitempty,oneof=applied interview rejected offer accepted"`
	Priority        Priority          `json:"priority" validate:"omitempty,oneof=low medium high"`
	JobURL          string            `json:"jobUrl"`
	Notes           string            `json:"notes"`
	ContactPerson   string            `json:"contactPerson"`
	ContactEmail    string            `json:"contactEmail" validate:"omitempty,email"`
	Salary          string            `json:"salary"`
	Location        string            `json:"location"`
	JobType         JobType           `json:"jobType" validate:"omitempty,oneof=full-time part-time internship contract"`
}

// Validate validates the CreateJobApplicationRequest using the validator.
func (r *CreateJobApplicationRequest) Validate() error {
	return validate.Struct(r)
}

// ToJobApplication builds the record to insert. Identifier and timestamps are
// left for the store to assign.
func (r *CreateJobApplicationRequest) ToJobApplication(defaultUser string, now time.Time) *JobApplication {
	job := &JobApplication{
		UserID:         r.UserID,
		CompanyName:    r.CompanyName,
		JobTitle:       r.JobTitle,
		JobDescription: r.JobDescription,
		Deadline:       r.Deadline.Ptr(),
		Status:         r.Status,
		Priority:       r.Priority,
		JobURL:         r.JobURL,
		Notes:          r.Notes,
		ContactPerson:  r.ContactPerson,
		ContactEmail:   r.ContactEmail,
		Salary:         r.Salary,
		Location:       r.Location,
		JobType:        r.JobType,
	}

	if job.UserID == "" {
		job.UserID = defaultUser
	}
	if r.ApplicationDate.Valid {
		job.ApplicationDate = r.ApplicationDate.Time
	} else {
		job.ApplicationDate = Today(now)
	}
	if job.Status == "" {
		job.Status = StatusApplied
	}
	if job.Priority == "" {
		job.Priority = PriorityMedium
	}
	if job.JobType == "" {
		job.JobType = JobTypeFullTime
	}
	return job
}

// UpdateJobApplicationRequest is the body of PUT /api/jobs/{id}.
// Absent keys leave the stored value unchanged.
type UpdateJobApplicationRequest struct {
	CompanyName     *string            `json:"companyName"`
	JobTitle        *string            `json:"jobTitle"`
	JobDescription  *string            `json:"jobDescription"`
	ApplicationDate Date               `json:"applicationDate"`
	Deadline        Date               `json:"deadline"`
	Status          *ApplicationStatus `json:"status" validate:"omitempty,oneof=applied interview rejected offer accepted"`
	Priority        *Priority          `json:"priority" validate:"omitempty,oneof=low medium high"`
	JobURL          *string            `json:"jobUrl"`
	Notes           *string            `json:"notes"`
	ContactPerson   *string            `json:"contactPerson"`
	ContactEmail    *string            `json:"contactEmail"`
	Salary          *string            `json:"salary"`
	Location        *string            `json:"location"`
	JobType         *JobType           `json:"jobType" validate:"omitempty,oneof=full-time part-time internship contract"`
}

// Validate validates the UpdateJobApplicationRequest using the validator.
func (r *UpdateJobApplicationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.ApplicationDate.Set && !r.ApplicationDate.Valid {
		return fmt.Errorf("applicationDate cannot be cleared")
	}
	// An empty string clears the contact; only a non-empty value must parse.
	if r.ContactEmail != nil && *r.ContactEmail != "" {
		if err := validate.Var(*r.ContactEmail, "email"); err != nil {
			return fmt.Errorf("contactEmail must be a valid email address")
		}
	}
	return nil
}

// ToPatch converts the request into a store patch.
func (r *UpdateJobApplicationRequest) ToPatch() JobApplicationPatch {
	patch := JobApplicationPatch{
		CompanyName:    r.CompanyName,
		JobTitle:       r.JobTitle,
		JobDescription: r.JobDescription,
		Status:         r.Status,
		Priority:       r.Priority,
		JobURL:         r.JobURL,
		Notes:          r.Notes,
		ContactPerson:  r.ContactPerson,
		ContactEmail:   r.ContactEmail,
		Salary:         r.Salary,
		Location:       r.Location,
		JobType:        r.JobType,
	}
	if r.ApplicationDate.Valid {
		patch.ApplicationDate = r.ApplicationDate.Ptr()
	}
	if r.Deadline.Set {
		if r.Deadline.Valid {
			patch.Deadline = r.Deadline.Ptr()
		} else {
			patch.ClearDeadline = true
		}
	}
	return patch
}

// ValidationMessage flattens validator errors into a single client-facing string.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", fe.Field()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
