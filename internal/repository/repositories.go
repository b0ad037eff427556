package repository

import (
	"github.com/deppfellow/jobtracker/internal/lib/hash"
	"github.com/deppfellow/jobtracker/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	JobApplications *JobApplicationRepository
	Users           *UserRepository
}

// NewRepositories constructs the repository container over the server's
// connection pool.
func NewRepositories(s *server.Server) *Repositories {
	hasher := hash.NewBcrypt(s.Config.Security.BcryptCost)

	return &Repositories{
		JobApplications: NewJobApplicationRepository(s.DB.Pool, s.Logger),
		Users:           NewUserRepository(s.DB.Pool, hasher, s.Logger),
	}
}
