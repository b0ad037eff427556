package handler

import (
	"github.com/deppfellow/jobtracker/internal/errs"
	"github.com/deppfellow/jobtracker/internal/model"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/deppfellow/jobtracker/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	service *service.UserService
}

func NewUserHandler(s *server.Server, svc *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

// parseUserID turns a path id into a UUID. Validation already checked the
// format, so a failure here means the route bypassed it.
func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		code := "INVALID_USER_ID"
		return uuid.Nil, errs.NewBadRequestError("Invalid user id", true, &code, []errs.FieldError{
			{Field: "id", Error: "must be a valid UUID"},
		}, nil)
	}
	return id, nil
}

func (h *UserHandler) Register(c echo.Context, req *model.RegisterUserRequest) (*model.User, error) {
	return h.service.Register(c.Request().Context(), req)
}

func (h *UserHandler) List(c echo.Context, req *model.ListParams) ([]model.User, error) {
	return h.service.List(c.Request().Context(), *req)
}

func (h *UserHandler) Get(c echo.Context, req *model.GetUserRequest) (*model.User, error) {
	id, err := parseUserID(req.ID)
	if err != nil {
		return nil, err
	}
	return h.service.Get(c.Request().Context(), id)
}

func (h *UserHandler) GetByUsername(c echo.Context, req *model.GetUserByUsernameRequest) (*model.User, error) {
	return h.service.GetByUsername(c.Request().Context(), req.Username)
}

func (h *UserHandler) Update(c echo.Context, req *model.UpdateUserRequest) (*model.User, error) {
	id, err := parseUserID(req.ID)
	if err != nil {
		return nil, err
	}
	return h.service.Update(c.Request().Context(), id, req)
}

func (h *UserHandler) Delete(c echo.Context, req *model.DeleteUserRequest) error {
	id, err := parseUserID(req.ID)
	if err != nil {
		return err
	}
	return h.service.Delete(c.Request().Context(), id)
}
