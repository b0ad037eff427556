package service

import (
	"context"

	"github.com/deppfellow/jobtracker/internal/model"
	"github.com/deppfellow/jobtracker/internal/server"
)

// JobApplicationStore is the persistence the job application service needs.
type JobApplicationStore interface {
	Create(ctx context.Context, in *model.CreateJobApplicationRequest) (*model.JobApplication, error)
	List(ctx context.Context, params model.ListParams) ([]model.JobApplication, error)
	Filter(ctx context.Context, f *model.JobApplicationFilter) ([]model.JobApplication, error)
	GetByID(ctx context.Context, id int64) (*model.JobApplication, error)
	Update(ctx context.Context, id int64, in *model.UpdateJobApplicationRequest) (*model.JobApplication, error)
	Delete(ctx context.Context, id int64) (*model.JobApplication, error)
}

type JobApplicationService struct {
	server *server.Server
	repo   JobApplicationStore
}

func NewJobApplicationService(s *server.Server, repo JobApplicationStore) *JobApplicationService {
	return &JobApplicationService{server: s, repo: repo}
}

func (s *JobApplicationService) Create(ctx context.Context, in *model.CreateJobApplicationRequest) (*model.JobApplication, error) {
	return s.repo.Create(ctx, in)
}

// List never returns a nil slice so empty pages encode as [].
func (s *JobApplicationService) List(ctx context.Context, params model.ListParams) ([]model.JobApplication, error) {
	apps, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return nonNil(apps), nil
}

func (s *JobApplicationService) Search(ctx context.Context, f *model.JobApplicationFilter) ([]model.JobApplication, error) {
	apps, err := s.repo.Filter(ctx, f)
	if err != nil {
		return nil, err
	}
	return nonNil(apps), nil
}

func (s *JobApplicationService) Get(ctx context.Context, id int64) (*model.JobApplication, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a merge-patch. An empty patch reads the record back
// unchanged instead of writing.
func (s *JobApplicationService) Update(ctx context.Context, in *model.UpdateJobApplicationRequest) (*model.JobApplication, error) {
	if in.Empty() {
		return s.repo.GetByID(ctx, in.ID)
	}
	return s.repo.Update(ctx, in.ID, in)
}

func (s *JobApplicationService) Delete(ctx context.Context, id int64) (*model.JobApplication, error) {
	return s.repo.Delete(ctx, id)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
