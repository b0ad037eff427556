package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/jobtracker/internal/errs"
	"github.com/deppfellow/jobtracker/internal/lib/job"
	"github.com/deppfellow/jobtracker/internal/model"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

func testServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{Logger: &logger}
}

// ------------------------------------------------------------

type fakeJobApplicationStore struct {
	JobApplicationStore

	app      *model.JobApplication
	apps     []model.JobApplication
	err      error
	updates  int
	getCalls int
}

func (f *fakeJobApplicationStore) List(context.Context, model.ListParams) ([]model.JobApplication, error) {
	return f.apps, f.err
}

func (f *fakeJobApplicationStore) Filter(context.Context, *model.JobApplicationFilter) ([]model.JobApplication, error) {
	return f.apps, f.err
}

func (f *fakeJobApplicationStore) GetByID(context.Context, int64) (*model.JobApplication, error) {
	f.getCalls++
	return f.app, f.err
}

func (f *fakeJobApplicationStore) Update(context.Context, int64, *model.UpdateJobApplicationRequest) (*model.JobApplication, error) {
	f.updates++
	return f.app, f.err
}

func TestJobApplicationService(t *testing.T) {
	ctx := context.Background()

	t.Run("empty pages are non-nil", func(t *testing.T) {
		svc := NewJobApplicationService(testServer(), &fakeJobApplicationStore{})

		apps, err := svc.Search(ctx, &model.JobApplicationFilter{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if apps == nil {
			t.Error("expected an empty, non-nil slice")
		}
	})

	t.Run("empty patch reads instead of writing", func(t *testing.T) {
		store := &fakeJobApplicationStore{app: &model.JobApplication{ID: 4}}
		svc := NewJobApplicationService(testServer(), store)

		got, err := svc.Update(ctx, &model.UpdateJobApplicationRequest{ID: 4})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.ID != 4 || store.updates != 0 || store.getCalls != 1 {
			t.Errorf("expected a single read, got updates=%d gets=%d", store.updates, store.getCalls)
		}
	})

	t.Run("not found passes through", func(t *testing.T) {
		store := &fakeJobApplicationStore{err: errs.NewNotFoundError("Job application 4 not found", true, nil)}
		svc := NewJobApplicationService(testServer(), store)

		_, err := svc.Update(ctx, &model.UpdateJobApplicationRequest{ID: 4, Notes: new(string)})
		if !errs.IsNotFound(err) {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})
}

// ------------------------------------------------------------

type fakeUserStore struct {
	UserStore

	user *model.User
	err  error
}

func (f *fakeUserStore) Register(context.Context, *model.RegisterUserRequest) (*model.User, error) {
	return f.user, f.err
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, f.err
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	fullName := "Ada Lovelace"
	user := &model.User{ID: uuid.New(), Email: "ada@example.com", Username: "ada", FullName: &fullName}

	t.Run("enqueues welcome email", func(t *testing.T) {
		tasks := &fakeEnqueuer{}
		svc := NewUserService(testServer(), &fakeUserStore{user: user}, tasks)

		if _, err := svc.Register(ctx, &model.RegisterUserRequest{}); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if len(tasks.tasks) != 1 || tasks.tasks[0].Type() != job.TaskWelcome {
			t.Fatalf("expected one welcome task, got %d", len(tasks.tasks))
		}
	})

	t.Run("queue failure does not fail registration", func(t *testing.T) {
		tasks := &fakeEnqueuer{err: errors.New("redis: connection refused")}
		svc := NewUserService(testServer(), &fakeUserStore{user: user}, tasks)

		got, err := svc.Register(ctx, &model.RegisterUserRequest{})
		if err != nil {
			t.Fatalf("Register should succeed, got %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("unexpected user %+v", got)
		}
	})

	t.Run("duplicate does not enqueue", func(t *testing.T) {
		tasks := &fakeEnqueuer{}
		svc := NewUserService(testServer(), &fakeUserStore{err: errs.NewDuplicateEmailError("ada@example.com")}, tasks)

		_, err := svc.Register(ctx, &model.RegisterUserRequest{})
		if errs.KindOf(err) != errs.CodeDuplicateEmail {
			t.Fatalf("expected DUPLICATE_EMAIL, got %v", err)
		}
		if len(tasks.tasks) != 0 {
			t.Error("no email should be queued for a failed registration")
		}
	})
}
