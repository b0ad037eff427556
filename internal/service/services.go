package service

import (
	"github.com/deppfellow/jobtracker/internal/lib/job"
	"github.com/deppfellow/jobtracker/internal/repository"
	"github.com/deppfellow/jobtracker/internal/server"
)

type Services struct {
	JobApplications *JobApplicationService
	Users           *UserService
	Job             *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		JobApplications: NewJobApplicationService(s, repos.JobApplications),
		Users:           NewUserService(s, repos.Users, s.Job.Client),
		Job:             s.Job,
	}, nil
}
