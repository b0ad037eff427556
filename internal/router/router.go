// Package router builds the Echo instance: the global middleware chain, the
// error handler and every route group.
package router

import (
	"github.com/deppfellow/jobtracker/internal/handler"
	"github.com/deppfellow/jobtracker/internal/middleware"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware and routes. Request ids and the request logger
// come first so every later middleware, including the rate limiter and panic
// recovery, logs with correlation fields.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerJobApplicationRoutes(v1, h)
	registerUserRoutes(v1, h)

	return router
}
