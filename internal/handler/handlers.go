package handler

import (
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/deppfellow/jobtracker/internal/service"
)

// Handlers groups every HTTP handler so the router receives one object.
type Handlers struct {
	Health          *HealthHandler
	OpenAPI         *OpenAPIHandler
	JobApplications *JobApplicationHandler
	Users           *UserHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:          NewHealthHandler(s),
		OpenAPI:         NewOpenAPIHandler(s),
		JobApplications: NewJobApplicationHandler(s, services.JobApplications),
		Users:           NewUserHandler(s, services.Users),
	}
}
