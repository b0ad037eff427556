package service

import (
	"context"

	"github.com/deppfellow/jobtracker/internal/lib/job"
	loggerPkg "github.com/deppfellow/jobtracker/internal/logger"
	"github.com/deppfellow/jobtracker/internal/model"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// UserStore is the persistence the user service needs.
type UserStore interface {
	Register(ctx context.Context, in *model.RegisterUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, params model.ListParams) ([]model.User, error)
	Update(ctx context.Context, id uuid.UUID, in *model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// TaskEnqueuer puts background tasks on the queue. *asynq.Client implements it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type UserService struct {
	server *server.Server
	repo   UserStore
	tasks  TaskEnqueuer
}

func NewUserService(s *server.Server, repo UserStore, tasks TaskEnqueuer) *UserService {
	return &UserService{server: s, repo: repo, tasks: tasks}
}

// Register creates the user, then queues a welcome email. A queueing failure
// is logged and does not undo the registration.
func (s *UserService) Register(ctx context.Context, in *model.RegisterUserRequest) (*model.User, error) {
	user, err := s.repo.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	s.enqueueWelcome(ctx, user)

	return user, nil
}

func (s *UserService) enqueueWelcome(ctx context.Context, user *model.User) {
	log := loggerPkg.FromContext(ctx, s.server.Logger)

	name := user.Username
	if user.FullName != nil && *user.FullName != "" {
		name = *user.FullName
	}

	task, err := job.NewWelcomeEmailTask(job.WelcomeEmailPayload{
		To:       user.Email,
		Name:     name,
		Username: user.Username,
	})
	if err == nil {
		_, err = s.tasks.EnqueueContext(ctx, task)
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to enqueue welcome email")
		return
	}

	log.Debug().Str("user_id", user.ID.String()).Msg("welcome email enqueued")
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context, params model.ListParams) ([]model.User, error) {
	users, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in *model.UpdateUserRequest) (*model.User, error) {
	return s.repo.Update(ctx, id, in)
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.Delete(ctx, id)
	return err
}
