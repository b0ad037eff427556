package handler

import (
	"github.com/deppfellow/jobtracker/internal/model"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/deppfellow/jobtracker/internal/service"
	"github.com/labstack/echo/v4"
)

type JobApplicationHandler struct {
	Handler
	service *service.JobApplicationService
}

func NewJobApplicationHandler(s *server.Server, svc *service.JobApplicationService) *JobApplicationHandler {
	return &JobApplicationHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *JobApplicationHandler) Create(c echo.Context, req *model.CreateJobApplicationRequest) (*model.JobApplication, error) {
	return h.service.Create(c.Request().Context(), req)
}

func (h *JobApplicationHandler) List(c echo.Context, req *model.ListParams) ([]model.JobApplication, error) {
	return h.service.List(c.Request().Context(), *req)
}

func (h *JobApplicationHandler) Search(c echo.Context, req *model.JobApplicationFilter) ([]model.JobApplication, error) {
	return h.service.Search(c.Request().Context(), req)
}

func (h *JobApplicationHandler) Get(c echo.Context, req *model.GetJobApplicationRequest) (*model.JobApplication, error) {
	return h.service.Get(c.Request().Context(), req.ID)
}

// Update serves both PATCH and PUT; either way only the fields present in the
// body change.
func (h *JobApplicationHandler) Update(c echo.Context, req *model.UpdateJobApplicationRequest) (*model.JobApplication, error) {
	return h.service.Update(c.Request().Context(), req)
}

// Delete answers with the record as it was before removal.
func (h *JobApplicationHandler) Delete(c echo.Context, req *model.DeleteJobApplicationRequest) (*model.JobApplication, error) {
	return h.service.Delete(c.Request().Context(), req.ID)
}
