package router

import (
	"github.com/deppfellow/jobtracker/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints outside the versioned API: health,
// the docs UI and the static assets it loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.OpenAPIDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
