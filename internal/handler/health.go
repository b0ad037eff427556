package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/jobtracker/internal/config"
	"github.com/deppfellow/jobtracker/internal/middleware"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	CheckDatabase = "database"
	CheckRedis    = "redis"
)

// Health statuses. Redis only carries the welcome-email queue, so losing it
// degrades the service instead of taking it out of rotation.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

type HealthHandler struct {
	Handler
	pingers map[string]func(context.Context) error
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{
		Handler: NewHandler(s),
	}
	h.pingers = map[string]func(context.Context) error{
		CheckDatabase: h.pingDatabase,
		CheckRedis:    h.pingRedis,
	}
	return h
}

type dependencyCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                     `json:"status"`
	Timestamp   time.Time                  `json:"timestamp"`
	Environment string                     `json:"environment"`
	Checks      map[string]dependencyCheck `json:"checks"`
}

func (h *HealthHandler) settings() config.HealthChecksConfig {
	if obs := h.server.Config.Observability; obs != nil {
		return obs.HealthChecks
	}
	return config.DefaultObservabilityConfig().HealthChecks
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	if h.server.DB == nil || h.server.DB.Pool == nil {
		return errors.New("database not configured")
	}
	return h.server.DB.Pool.Ping(ctx)
}

func (h *HealthHandler) pingRedis(ctx context.Context) error {
	if h.server.Redis == nil {
		return errors.New("redis not configured")
	}
	return h.server.Redis.Ping(ctx).Err()
}

// check runs ping with a timeout and records a HealthCheckError custom event
// when it fails.
func (h *HealthHandler) check(c echo.Context, name string, timeout time.Duration, ping func(context.Context) error) dependencyCheck {
	logger := middleware.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error().Err(err).Dur("response_time", elapsed).Msgf("%s health check failed", name)

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]any{
				"check_type":       name,
				"operation":        "health_check",
				"error_type":       name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}

		return dependencyCheck{
			Status:       StatusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	logger.Debug().Dur("response_time", elapsed).Msgf("%s health check passed", name)

	return dependencyCheck{
		Status:       StatusHealthy,
		ResponseTime: elapsed.String(),
	}
}

// CheckHealth runs the configured dependency checks. It answers 503 when the
// database is unreachable, and 200 with "degraded" when only another
// dependency is.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	settings := h.settings()

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	response := healthResponse{
		Status:      StatusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      map[string]dependencyCheck{},
	}

	if settings.Enabled {
		for _, name := range settings.Checks {
			if ping, ok := h.pingers[name]; ok {
				response.Checks[name] = h.check(c, name, timeout, ping)
			}
		}
	}

	status := http.StatusOK
	for name, result := range response.Checks {
		if result.Status == StatusHealthy {
			continue
		}
		if name == CheckDatabase {
			response.Status = StatusUnhealthy
			status = http.StatusServiceUnavailable
			break
		}
		response.Status = StatusDegraded
	}

	if err := c.JSON(status, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
