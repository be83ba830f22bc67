package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/job-tracker/internal/types"
)

// -----------------------------------------------------------------------------
// Job Application Methods
// -----------------------------------------------------------------------------

const jobApplicationColumns = `id, user_id, company_name, job_title, job_description,
	application_date, deadline, status, priority, job_url, notes, contact_person,
	contact_email, salary, location, job_type, created_at, updated_at`

// ListJobApplications returns the user's applications matching the filter,
// newest first.
func (db *DB) ListJobApplications(ctx context.Context, filter types.ListFilter) ([]types.JobApplication, error) {
	query, args := buildListQuery(filter)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	defer rows.Close()

	jobs := []types.JobApplication{}
	for rows.Next() {
		job, err := scanJobApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job application: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job applications: %w", err)
	}

	return jobs, nil
}

// CreateJobApplication inserts a new application. The store assigns the
// identifier and both timestamps; they are written back into job.
func (db *DB) CreateJobApplication(ctx context.Context, job *types.JobApplication) (uuid.UUID, error) {
	now := time.Now().UTC()
	job.ID = uuid.New()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_applications (`+jobApplicationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		job.ID, job.UserID, job.CompanyName, job.JobTitle, job.JobDescription,
		job.ApplicationDate, job.Deadline, string(job.Status), string(job.Priority), job.JobURL,
		job.Notes, job.ContactPerson, job.ContactEmail, job.Salary, job.Location,
		string(job.JobType), job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job application: %w", err)
	}
	return job.ID, nil
}

// GetJobApplication retrieves one application by ID.
func (db *DB) GetJobApplication(ctx context.Context, id uuid.UUID) (*types.JobApplication, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobApplicationColumns+` FROM job_applications WHERE id = $1`, id)

	job, err := scanJobApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job application %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job application: %w", err)
	}
	return job, nil
}

// UpdateJobApplication merges the patch onto the stored document and re-stamps
// updated_at.
func (db *DB) UpdateJobApplication(ctx context.Context, id uuid.UUID, patch types.JobApplicationPatch) error {
	query, args := buildUpdateQuery(id, patch, time.Now().UTC())

	tag, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update job application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job application %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteJobApplication removes an application permanently.
func (db *DB) DeleteJobApplication(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job application %s: %w", id, ErrNotFound)
	}
	return nil
}

// buildListQuery renders the list statement for a filter.
func buildListQuery(filter types.ListFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + jobApplicationColumns + ` FROM job_applications WHERE user_id = $1`)
	args := []any{filter.UserID}

	if filter.StatusFilterActive() {
		args = append(args, filter.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		fmt.Fprintf(&sb, " AND (company_name ILIKE $%d OR job_title ILIKE $%d OR location ILIKE $%d)", n, n, n)
	}

	sb.WriteString(" ORDER BY created_at DESC, id")
	return sb.String(), args
}

// buildUpdateQuery renders a SET clause containing only the patched columns.
// updated_at never drops below created_at.
func buildUpdateQuery(id uuid.UUID, patch types.JobApplicationPatch, now time.Time) (string, []any) {
	var sets []string
	args := []any{id}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.CompanyName != nil {
		set("company_name", *patch.CompanyName)
	}
	if patch.JobTitle != nil {
		set("job_title", *patch.JobTitle)
	}
	if patch.JobDescription != nil {
		set("job_description", *patch.JobDescription)
	}
	if patch.ApplicationDate != nil {
		set("application_date", *patch.ApplicationDate)
	}
	if patch.ClearDeadline {
		sets = append(sets, "deadline = NULL")
	} else if patch.Deadline != nil {
		set("deadline", *patch.Deadline)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.JobURL != nil {
		set("job_url", *patch.JobURL)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.ContactPerson != nil {
		set("contact_person", *patch.ContactPerson)
	}
	if patch.ContactEmail != nil {
		set("contact_email", *patch.ContactEmail)
	}
	if patch.Salary != nil {
		set("salary", *patch.Salary)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.JobType != nil {
		set("job_type", string(*patch.JobType))
	}

	args = append(args, now)
	sets = append(sets, fmt.Sprintf("updated_at = GREATEST($%d, created_at)", len(args)))

	return `UPDATE job_applications SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`, args
}

// escapeLike escapes LIKE metacharacters so the search term matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func scanJobApplication(row pgx.Row) (*types.JobApplication, error) {
	var job types.JobApplication
	var status, priority, jobType string

	err := row.Scan(&job.ID, &job.UserID, &job.CompanyName, &job.JobTitle, &job.JobDescription,
		&job.ApplicationDate, &job.Deadline, &status, &priority, &job.JobURL, &job.Notes,
		&job.ContactPerson, &job.ContactEmail, &job.Salary, &job.Location, &jobType,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}

	job.Status = types.ApplicationStatus(status)
	job.Priority = types.Priority(priority)
	job.JobType = types.JobType(jobType)
	return &job, nil
}
