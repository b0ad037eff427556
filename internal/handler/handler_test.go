package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/jobtracker/internal/config"
	"github.com/deppfellow/jobtracker/internal/errs"
	"github.com/deppfellow/jobtracker/internal/middleware"
	"github.com/deppfellow/jobtracker/internal/model"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/deppfellow/jobtracker/internal/service"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func testServer() *server.Server {
	l := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "test"}},
		Logger: &l,
	}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

// ------------------------------------------------------------

type fakeJobStore struct {
	service.JobApplicationStore

	app        *model.JobApplication
	err        error
	created    *model.CreateJobApplicationRequest
	listParams model.ListParams
	filter     *model.JobApplicationFilter
	patch      *model.UpdateJobApplicationRequest
	deletedID  int64
}

func (f *fakeJobStore) Create(_ context.Context, in *model.CreateJobApplicationRequest) (*model.JobApplication, error) {
	f.created = in
	return f.app, f.err
}

func (f *fakeJobStore) List(_ context.Context, p model.ListParams) ([]model.JobApplication, error) {
	f.listParams = p
	return nil, f.err
}

func (f *fakeJobStore) Filter(_ context.Context, in *model.JobApplicationFilter) ([]model.JobApplication, error) {
	f.filter = in
	return []model.JobApplication{*f.app}, f.err
}

func (f *fakeJobStore) GetByID(context.Context, int64) (*model.JobApplication, error) {
	return f.app, f.err
}

func (f *fakeJobStore) Update(_ context.Context, _ int64, in *model.UpdateJobApplicationRequest) (*model.JobApplication, error) {
	f.patch = in
	return f.app, f.err
}

func (f *fakeJobStore) Delete(_ context.Context, id int64) (*model.JobApplication, error) {
	f.deletedID = id
	return f.app, f.err
}

func jobRoutes(store *fakeJobStore) *echo.Echo {
	s := testServer()
	h := NewJobApplicationHandler(s, service.NewJobApplicationService(s, store))

	e := newEcho(s)
	e.POST("/job-applications", Handle(h.Handler, h.Create, http.StatusCreated))
	e.GET("/job-applications", Handle(h.Handler, h.List, http.StatusOK))
	e.GET("/job-applications/search", Handle(h.Handler, h.Search, http.StatusOK))
	e.GET("/job-applications/:id", Handle(h.Handler, h.Get, http.StatusOK))
	e.PATCH("/job-applications/:id", Handle(h.Handler, h.Update, http.StatusOK))
	e.DELETE("/job-applications/:id", Handle(h.Handler, h.Delete, http.StatusOK))
	return e
}

func sampleApp() *model.JobApplication {
	status := model.StatusApplied
	return &model.JobApplication{
		ID:          7,
		Company:     "Acme",
		Position:    "Backend Engineer",
		Status:      &status,
		AppliedDate: model.NewDate(2024, time.March, 1),
		CreatedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestJobApplicationHandler(t *testing.T) {
	t.Run("create answers 201 with the stored record", func(t *testing.T) {
		store := &fakeJobStore{app: sampleApp()}
		rec := serve(jobRoutes(store), http.MethodPost, "/job-applications",
			`{"company":"Acme","position":"Backend Engineer","applied_date":"2024-03-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if got := decode[model.JobApplication](t, rec); got.ID != 7 {
			t.Errorf("id = %d", got.ID)
		}
		if store.created == nil || store.created.AppliedDate.String() != "2024-03-01" {
			t.Errorf("store received %+v", store.created)
		}
	})

	t.Run("create reports missing fields by json name", func(t *testing.T) {
		store := &fakeJobStore{app: sampleApp()}
		rec := serve(jobRoutes(store), http.MethodPost, "/job-applications", `{"position":"Backend Engineer"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		body := decode[errs.HTTPError](t, rec)
		fields := map[string]bool{}
		for _, fe := range body.Errors {
			fields[fe.Field] = true
		}
		if !fields["company"] || !fields["applied_date"] {
			t.Errorf("field errors = %+v", body.Errors)
		}
		if store.created != nil {
			t.Error("store must not be called on invalid input")
		}
	})

	t.Run("list binds paging from the query", func(t *testing.T) {
		store := &fakeJobStore{}
		rec := serve(jobRoutes(store), http.MethodGet, "/job-applications?skip=20&limit=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("empty page body = %s", rec.Body.String())
		}
		if store.listParams.Skip != 20 || store.listParams.Limit != 5 {
			t.Errorf("params = %+v", store.listParams)
		}
	})

	t.Run("negative paging is rejected", func(t *testing.T) {
		rec := serve(jobRoutes(&fakeJobStore{}), http.MethodGet, "/job-applications?skip=-1", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("search binds every filter", func(t *testing.T) {
		store := &fakeJobStore{app: sampleApp()}
		rec := serve(jobRoutes(store), http.MethodGet,
			"/job-applications/search?company=Acme&status=applied&q=eng&sort_by=updated_at&order=asc&limit=3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		f := store.filter
		if f.Company != "Acme" || f.Status != model.StatusApplied || f.Search != "eng" ||
			f.SortBy != model.SortByUpdatedAt || f.Order != model.OrderAsc || f.Limit != 3 {
			t.Errorf("filter = %+v", f)
		}
	})

	t.Run("search rejects unknown sort keys", func(t *testing.T) {
		rec := serve(jobRoutes(&fakeJobStore{app: sampleApp()}), http.MethodGet, "/job-applications/search?sort_by=salary", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("missing record is 404", func(t *testing.T) {
		store := &fakeJobStore{err: errs.NewNotFoundError("Job application not found", true, nil)}
		rec := serve(jobRoutes(store), http.MethodGet, "/job-applications/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := decode[errs.HTTPError](t, rec); body.Code != errs.CodeNotFound {
			t.Errorf("code = %q", body.Code)
		}
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		rec := serve(jobRoutes(&fakeJobStore{}), http.MethodGet, "/job-applications/abc", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("patch passes only present fields", func(t *testing.T) {
		store := &fakeJobStore{app: sampleApp()}
		rec := serve(jobRoutes(store), http.MethodPatch, "/job-applications/7", `{"status":"interviewing"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		p := store.patch
		if p == nil || p.ID != 7 || p.Status == nil || *p.Status != model.StatusInterviewing {
			t.Fatalf("patch = %+v", p)
		}
		if p.Notes != nil || p.Company != nil {
			t.Errorf("absent fields were set: %+v", p)
		}
	})

	t.Run("delete answers with the removed record", func(t *testing.T) {
		store := &fakeJobStore{app: sampleApp()}
		rec := serve(jobRoutes(store), http.MethodDelete, "/job-applications/7", "")

		if rec.Code != http.StatusOK || store.deletedID != 7 {
			t.Fatalf("status = %d, deleted = %d", rec.Code, store.deletedID)
		}
		if got := decode[model.JobApplication](t, rec); got.Company != "Acme" {
			t.Errorf("body = %+v", got)
		}
	})

	t.Run("requests do not share payloads", func(t *testing.T) {
		store := &fakeJobStore{app: sampleApp()}
		e := jobRoutes(store)

		serve(e, http.MethodPatch, "/job-applications/7", `{"notes":"first"}`)
		first := store.patch
		serve(e, http.MethodPatch, "/job-applications/7", `{"status":"offered"}`)

		if store.patch == first {
			t.Fatal("the same request value was reused")
		}
		if store.patch.Notes != nil {
			t.Errorf("notes leaked from the previous request: %q", *store.patch.Notes)
		}
	})
}

// ------------------------------------------------------------

type fakeUserStore struct {
	service.UserStore

	user    *model.User
	err     error
	gotID   uuid.UUID
	deleted bool
}

func (f *fakeUserStore) Register(context.Context, *model.RegisterUserRequest) (*model.User, error) {
	return f.user, f.err
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.gotID = id
	return f.user, f.err
}

func (f *fakeUserStore) Delete(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.gotID = id
	f.deleted = true
	return f.user, f.err
}

type nopEnqueuer struct{}

func (nopEnqueuer) EnqueueContext(context.Context, *asynq.Task, ...asynq.Option) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{}, nil
}

func userRoutes(store *fakeUserStore) *echo.Echo {
	s := testServer()
	h := NewUserHandler(s, service.NewUserService(s, store, nopEnqueuer{}))

	e := newEcho(s)
	e.POST("/users/register", Handle(h.Handler, h.Register, http.StatusCreated))
	e.GET("/users/:id", Handle(h.Handler, h.Get, http.StatusOK))
	e.DELETE("/users/:id", HandleNoContent(h.Handler, h.Delete, http.StatusNoContent))
	return e
}

func TestUserHandler(t *testing.T) {
	id := uuid.MustParse("0b9a5d4e-6a43-4f4e-8b0c-5a8f1c2d3e4f")
	user := &model.User{
		ID:             id,
		Email:          "ada@example.com",
		Username:       "ada",
		Role:           model.RoleUser,
		HashedPassword: "$2a$10$secret",
	}

	t.Run("register never returns the password hash", func(t *testing.T) {
		rec := serve(userRoutes(&fakeUserStore{user: user}), http.MethodPost, "/users/register",
			`{"email":"ada@example.com","username":"ada","password":"correct horse"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "password") {
			t.Errorf("body leaks credentials: %s", rec.Body.String())
		}
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		store := &fakeUserStore{err: errs.NewDuplicateEmailError("ada@example.com")}
		rec := serve(userRoutes(store), http.MethodPost, "/users/register",
			`{"email":"ada@example.com","username":"ada","password":"correct horse"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := decode[errs.HTTPError](t, rec); body.Code != errs.CodeDuplicateEmail {
			t.Errorf("code = %q", body.Code)
		}
	})

	t.Run("get parses the path id", func(t *testing.T) {
		store := &fakeUserStore{user: user}
		rec := serve(userRoutes(store), http.MethodGet, "/users/"+id.String(), "")

		if rec.Code != http.StatusOK || store.gotID != id {
			t.Fatalf("status = %d, id = %s", rec.Code, store.gotID)
		}
	})

	t.Run("malformed uuid is 400", func(t *testing.T) {
		store := &fakeUserStore{user: user}
		rec := serve(userRoutes(store), http.MethodGet, "/users/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if store.gotID != uuid.Nil {
			t.Error("store must not be called")
		}
	})

	t.Run("delete answers 204", func(t *testing.T) {
		store := &fakeUserStore{user: user}
		rec := serve(userRoutes(store), http.MethodDelete, "/users/"+id.String(), "")

		if rec.Code != http.StatusNoContent || !store.deleted || rec.Body.Len() != 0 {
			t.Errorf("status = %d, deleted = %v, body = %q", rec.Code, store.deleted, rec.Body.String())
		}
	})
}

func TestParseUserID(t *testing.T) {
	if _, err := parseUserID("nope"); errs.KindOf(err) != "INVALID_USER_ID" {
		t.Errorf("unexpected error kind %q", errs.KindOf(err))
	}

	want := uuid.New()
	got, err := parseUserID(want.String())
	if err != nil || got != want {
		t.Errorf("parseUserID = %s, %v", got, err)
	}
}
