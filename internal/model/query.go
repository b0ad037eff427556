package model

import "github.com/deppfellow/jobtracker/internal/validation"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams is an offset page request.
type ListParams struct {
	Skip  int `query:"skip" validate:"min=0"`
	Limit int `query:"limit" validate:"min=0"`
}

func (p *ListParams) Validate() error {
	return validation.Struct(p)
}

// Normalize floors Skip at zero and bounds Limit to [1, MaxLimit], using
// DefaultLimit when it is unset.
func (p ListParams) Normalize() ListParams {
	if p.Skip < 0 {
		p.Skip = 0
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}

// SortKey names a column job applications can be ordered by.
type SortKey string

const (
	SortByAppliedDate SortKey = "applied_date"
	SortByUpdatedAt   SortKey = "updated_at"
	SortByStatus      SortKey = "status"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// JobApplicationFilter narrows, orders and pages a job application listing.
// Empty strings mean "no constraint".
type JobApplicationFilter struct {
	Company string            `query:"company" validate:"max=100"`
	Status  ApplicationStatus `query:"status" validate:"omitempty,oneof=applied interviewing offered rejected withdrawn"`
	Search  string            `query:"q" validate:"max=200"`
	SortBy  SortKey           `query:"sort_by" validate:"omitempty,oneof=applied_date updated_at status"`
	Order   SortOrder         `query:"order" validate:"omitempty,oneof=asc desc"`
	Skip    int               `query:"skip" validate:"min=0"`
	Limit   int               `query:"limit" validate:"min=0"`
}

func (f *JobApplicationFilter) Validate() error {
	return validation.Struct(f)
}

// Page returns the filter's pagination window.
func (f *JobApplicationFilter) Page() ListParams {
	return ListParams{Skip: f.Skip, Limit: f.Limit}.Normalize()
}
