package handler

import (
	"net/http"
	"testing"

	"github.com/deppfellow/jobtracker/internal/config"
)

func TestCheckHealth(t *testing.T) {
	t.Run("unreachable database is 503", func(t *testing.T) {
		s := testServer()
		e := newEcho(s)
		e.GET("/status", NewHealthHandler(s).CheckHealth)

		rec := serve(e, http.MethodGet, "/status", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d", rec.Code)
		}

		body := decode[healthResponse](t, rec)
		if body.Status != StatusUnhealthy || body.Environment != "test" {
			t.Errorf("body = %+v", body)
		}
		if body.Checks[CheckDatabase].Error == "" || body.Checks[CheckRedis].Status != StatusUnhealthy {
			t.Errorf("checks = %+v", body.Checks)
		}
	})

	t.Run("redis alone degrades", func(t *testing.T) {
		s := testServer()
		obs := config.DefaultObservabilityConfig()
		obs.HealthChecks.Checks = []string{CheckRedis}
		s.Config.Observability = obs

		e := newEcho(s)
		e.GET("/status", NewHealthHandler(s).CheckHealth)

		rec := serve(e, http.MethodGet, "/status", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := decode[healthResponse](t, rec); body.Status != StatusDegraded {
			t.Errorf("status = %q", body.Status)
		}
	})

	t.Run("disabled checks report healthy", func(t *testing.T) {
		s := testServer()
		obs := config.DefaultObservabilityConfig()
		obs.HealthChecks.Enabled = false
		s.Config.Observability = obs

		e := newEcho(s)
		e.GET("/status", NewHealthHandler(s).CheckHealth)

		rec := serve(e, http.MethodGet, "/status", "")
		body := decode[healthResponse](t, rec)
		if rec.Code != http.StatusOK || body.Status != StatusHealthy || len(body.Checks) != 0 {
			t.Errorf("got %d %+v", rec.Code, body)
		}
	})
}
