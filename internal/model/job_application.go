package model

import (
	"time"

	"github.com/deppfellow/jobtracker/internal/validation"
)

// ApplicationStatus is where an application stands in the hiring pipeline.
type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "applied"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffered      ApplicationStatus = "offered"
	StatusRejected     ApplicationStatus = "rejected"
	StatusWithdrawn    ApplicationStatus = "withdrawn"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffered, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// JobApplication is one row of job_applications.
type JobApplication struct {
	ID          int64              `json:"id"`
	Company     string             `json:"company"`
	Position    string             `json:"position"`
	Location    *string            `json:"location"`
	Status      *ApplicationStatus `json:"status"`
	AppliedDate Date               `json:"applied_date"`
	Link        *string            `json:"link"`
	Notes       *string            `json:"notes"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ------------------------------------------------------------

type CreateJobApplicationRequest struct {
	Company     string             `json:"company" validate:"required,min=1,max=100"`
	Position    string             `json:"position" validate:"required,min=1,max=100"`
	Location    *string            `json:"location" validate:"omitempty,max=100"`
	Status      *ApplicationStatus `json:"status" validate:"omitempty,oneof=applied interviewing offered rejected withdrawn"`
	AppliedDate *Date              `json:"applied_date" validate:"required"`
	Link        *string            `json:"link" validate:"omitempty,url,max=2048"`
	Notes       *string            `json:"notes" validate:"omitempty,max=500"`
}

func (r *CreateJobApplicationRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

type GetJobApplicationRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

func (r *GetJobApplicationRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

// UpdateJobApplicationRequest is a merge-patch: nil fields are left as they are.
type UpdateJobApplicationRequest struct {
	ID          int64              `param:"id" json:"-" validate:"required,min=1"`
	Company     *string            `json:"company" validate:"omitempty,min=1,max=100"`
	Position    *string            `json:"position" validate:"omitempty,min=1,max=100"`
	Location    *string            `json:"location" validate:"omitempty,max=100"`
	Status      *ApplicationStatus `json:"status" validate:"omitempty,oneof=applied interviewing offered rejected withdrawn"`
	AppliedDate *Date              `json:"applied_date"`
	Link        *string            `json:"link" validate:"omitempty,url,max=2048"`
	Notes       *string            `json:"notes" validate:"omitempty,max=500"`
}

func (r *UpdateJobApplicationRequest) Validate() error {
	return validation.Struct(r)
}

// Empty reports whether the patch carries no fields.
func (r *UpdateJobApplicationRequest) Empty() bool {
	return r.Company == nil && r.Position == nil && r.Location == nil && r.Status == nil &&
		r.AppliedDate == nil && r.Link == nil && r.Notes == nil
}

// ------------------------------------------------------------

type DeleteJobApplicationRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

func (r *DeleteJobApplicationRequest) Validate() error {
	return validation.Struct(r)
}
