package router

import (
	"net/http"

	"github.com/deppfellow/jobtracker/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerJobApplicationRoutes(g *echo.Group, h *handler.Handlers) {
	jobs := h.JobApplications
	r := g.Group("/job-applications")

	r.POST("", handler.Handle(jobs.Handler, jobs.Create, http.StatusCreated))
	r.GET("", handler.Handle(jobs.Handler, jobs.List, http.StatusOK))
	r.GET("/search", handler.Handle(jobs.Handler, jobs.Search, http.StatusOK))
	r.GET("/:id", handler.Handle(jobs.Handler, jobs.Get, http.StatusOK))

	update := handler.Handle(jobs.Handler, jobs.Update, http.StatusOK)
	r.PATCH("/:id", update)
	r.PUT("/:id", update)

	r.DELETE("/:id", handler.Handle(jobs.Handler, jobs.Delete, http.StatusOK))
}

func registerUserRoutes(g *echo.Group, h *handler.Handlers) {
	users := h.Users
	r := g.Group("/users")

	r.POST("/register", handler.Handle(users.Handler, users.Register, http.StatusCreated))
	r.GET("", handler.Handle(users.Handler, users.List, http.StatusOK))
	r.GET("/by-username/:username", handler.Handle(users.Handler, users.GetByUsername, http.StatusOK))
	r.GET("/:id", handler.Handle(users.Handler, users.Get, http.StatusOK))

	update := handler.Handle(users.Handler, users.Update, http.StatusOK)
	r.PATCH("/:id", update)
	r.PUT("/:id", update)

	r.DELETE("/:id", handler.HandleNoContent(users.Handler, users.Delete, http.StatusNoContent))
}
