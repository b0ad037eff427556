package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/deppfellow/jobtracker/internal/database"
	"github.com/deppfellow/jobtracker/internal/errs"
	"github.com/deppfellow/jobtracker/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var selectJobApplication = "SELECT " + strings.Join(jobApplicationColumns, ", ") + " FROM job_applications"

var (
	createJobApplicationSQL = `INSERT INTO job_applications (company, position, location, status, applied_date, link, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
` + jobApplicationReturning

	getJobApplicationSQL    = selectJobApplication + " WHERE id = $1"
	lockJobApplicationSQL   = getJobApplicationSQL + " FOR UPDATE"
	listJobApplicationsSQL  = selectJobApplication + " ORDER BY id LIMIT $1 OFFSET $2"
	deleteJobApplicationSQL = "DELETE FROM job_applications WHERE id = $1"
)

type JobApplicationRepository struct {
	db     database.Pool
	logger *zerolog.Logger
}

func NewJobApplicationRepository(db database.Pool, logger *zerolog.Logger) *JobApplicationRepository {
	return &JobApplicationRepository{db: db, logger: logger}
}

func scanJobApplication(row pgx.Row) (model.JobApplication, error) {
	var j model.JobApplication
	err := row.Scan(
		&j.ID,
		&j.Company,
		&j.Position,
		&j.Location,
		&j.Status,
		&j.AppliedDate,
		&j.Link,
		&j.Notes,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}

func jobApplicationNotFound(err error, id int64) error {
	return notFound(err, fmt.Sprintf("Job application %d not found", id))
}

// normalizeLink re-serializes an absolute URL so equivalent spellings are
// stored identically.
func normalizeLink(link *string) (*string, error) {
	if link == nil {
		return nil, nil
	}
	u, err := url.Parse(*link)
	if err != nil || !u.IsAbs() {
		return nil, errs.NewBadRequestError("link must be an absolute URL", true, nil,
			[]errs.FieldError{{Field: "link", Error: "must be an absolute URL"}}, nil)
	}
	s := u.String()
	return &s, nil
}

// Create inserts a job application and returns it with its assigned id.
func (r *JobApplicationRepository) Create(ctx context.Context, in *model.CreateJobApplicationRequest) (*model.JobApplication, error) {
	link, err := normalizeLink(in.Link)
	if err != nil {
		return nil, err
	}

	if in.AppliedDate == nil {
		return nil, errs.NewBadRequestError("applied_date is required", true, nil,
			[]errs.FieldError{{Field: "applied_date", Error: "is required"}}, nil)
	}
	appliedDate := *in.AppliedDate

	var created model.JobApplication
	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, createJobApplicationSQL,
			in.Company,
			in.Position,
			in.Location,
			in.Status,
			appliedDate,
			link,
			in.Notes,
		)
		app, err := scanJobApplication(row)
		if err != nil {
			return err
		}
		created = app
		return nil
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "create job application", err, nil)
	}

	return &created, nil
}

// List returns one page of job applications in id order.
func (r *JobApplicationRepository) List(ctx context.Context, params model.ListParams) ([]model.JobApplication, error) {
	page := params.Normalize()

	rows, err := r.db.Query(ctx, listJobApplicationsSQL, page.Limit, page.Skip)
	if err != nil {
		return nil, storageError(ctx, r.logger, "list job applications", err, nil)
	}

	apps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.JobApplication, error) {
		return scanJobApplication(row)
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "list job applications", err, nil)
	}

	return apps, nil
}

// Filter returns the job applications matching f, ordered and paged per f.
func (r *JobApplicationRepository) Filter(ctx context.Context, f *model.JobApplicationFilter) ([]model.JobApplication, error) {
	query, args, err := buildJobApplicationFilter(f)
	if err != nil {
		return nil, storageError(ctx, r.logger, "build job application filter", err, nil)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, r.logger, "filter job applications", err, nil)
	}

	apps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.JobApplication, error) {
		return scanJobApplication(row)
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "filter job applications", err, nil)
	}

	return apps, nil
}

// GetByID returns the job application with id, or NOT_FOUND.
func (r *JobApplicationRepository) GetByID(ctx context.Context, id int64) (*model.JobApplication, error) {
	app, err := scanJobApplication(r.db.QueryRow(ctx, getJobApplicationSQL, id))
	if err != nil {
		return nil, storageError(ctx, r.logger, "get job application", jobApplicationNotFound(err, id), nil)
	}
	return &app, nil
}

// lock fetches the row with id inside tx and holds it until tx ends.
func (r *JobApplicationRepository) lock(ctx context.Context, tx pgx.Tx, id int64) (model.JobApplication, error) {
	app, err := scanJobApplication(tx.QueryRow(ctx, lockJobApplicationSQL, id))
	return app, jobApplicationNotFound(err, id)
}

// Update applies the fields present in in to the job application with id and
// returns the result. Absent fields keep their stored values.
func (r *JobApplicationRepository) Update(ctx context.Context, id int64, in *model.UpdateJobApplicationRequest) (*model.JobApplication, error) {
	link, err := normalizeLink(in.Link)
	if err != nil {
		return nil, err
	}

	query, args, err := buildJobApplicationUpdate(id, in, link)
	if err != nil {
		return nil, storageError(ctx, r.logger, "build job application update", err, nil)
	}

	var updated model.JobApplication
	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := r.lock(ctx, tx, id); err != nil {
			return err
		}
		app, err := scanJobApplication(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return err
		}
		updated = app
		return nil
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "update job application", err, nil)
	}

	return &updated, nil
}

// Delete removes the job application with id and returns its last state.
func (r *JobApplicationRepository) Delete(ctx context.Context, id int64) (*model.JobApplication, error) {
	var deleted model.JobApplication
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		app, err := r.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deleteJobApplicationSQL, id); err != nil {
			return err
		}
		deleted = app
		return nil
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "delete job application", err, nil)
	}

	return &deleted, nil
}
