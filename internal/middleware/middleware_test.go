package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/jobtracker/internal/config"
	"github.com/deppfellow/jobtracker/internal/errs"
	"github.com/deppfellow/jobtracker/internal/logger"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func testServer(rps float64) *server.Server {
	l := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimitPerSecond: rps,
			},
		},
		Logger: &l,
	}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not an error body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "application error passes through",
			err:        errs.NewNotFoundError("Job application not found", true, nil),
			wantStatus: http.StatusNotFound,
			wantCode:   errs.CodeNotFound,
		},
		{
			name:       "wrapped application error",
			err:        errors.Join(errors.New("context"), errs.NewDuplicateEmailError("a@b.c")),
			wantStatus: http.StatusConflict,
			wantCode:   errs.CodeDuplicateEmail,
		},
		{
			name:       "echo error",
			err:        echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests"),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "TOO_MANY_REQUESTS",
		},
		{
			name: "raw unique violation",
			err: &pgconn.PgError{
				Code:           "23505",
				TableName:      "job_applications",
				ConstraintName: "job_applications_pkey",
			},
			wantStatus: http.StatusConflict,
			wantCode:   errs.CodeConflict,
		},
		{
			name:       "unclassified error",
			err:        errors.New("dial tcp 10.0.0.3:5432: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   errs.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(testServer(0))
			e.GET("/boom", func(c echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body := decodeError(t, rec); body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}

	t.Run("internal details stay out of the body", func(t *testing.T) {
		e := newEcho(testServer(0))
		e.GET("/boom", func(c echo.Context) error {
			return errs.NewInternalServerError().WithCause(errors.New("password authentication failed for user jobtracker"))
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		if strings.Contains(rec.Body.String(), "password") {
			t.Errorf("response leaked the cause: %s", rec.Body.String())
		}
		if body := decodeError(t, rec); body.Message != http.StatusText(http.StatusInternalServerError) {
			t.Errorf("message = %q", body.Message)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		e := newEcho(testServer(0))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

		body := decodeError(t, rec)
		if rec.Code != http.StatusNotFound || body.Message != "Route not found" {
			t.Errorf("got %d %q", rec.Code, body.Message)
		}
	})

	t.Run("head requests get no body", func(t *testing.T) {
		e := newEcho(testServer(0))
		e.HEAD("/boom", func(c echo.Context) error {
			return errs.NewNotFoundError("gone", false, nil)
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/boom", nil))

		if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
			t.Errorf("got %d with %d body bytes", rec.Code, rec.Body.Len())
		}
	})

	t.Run("custom translators are used in order", func(t *testing.T) {
		sentinel := errors.New("quota exceeded")
		e := echo.New()
		e.HTTPErrorHandler = NewGlobalMiddlewares(testServer(0), errs.Translator{
			Name:  "quota",
			Match: func(err error) bool { return errors.Is(err, sentinel) },
			Convert: func(error) *errs.HTTPError {
				return &errs.HTTPError{Code: "QUOTA", Message: "Quota exceeded", Status: http.StatusPaymentRequired}
			},
		}).GlobalErrorHandler
		e.GET("/boom", func(c echo.Context) error { return sentinel })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		if rec.Code != http.StatusPaymentRequired {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("reuses caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("header = %q", got)
		}
		if rec.Body.String() != "abc-123" {
			t.Errorf("context id = %q", rec.Body.String())
		}
	})

	t.Run("generates one when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := rec.Header().Get(RequestIDHeader); len(got) != 36 {
			t.Errorf("expected a uuid, got %q", got)
		}
	})
}

func TestContextEnhancer(t *testing.T) {
	s := testServer(0)
	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())

	var fromEcho, fromCtx *zerolog.Logger
	e.GET("/", func(c echo.Context) error {
		fromEcho = GetLogger(c)
		fromCtx = logger.FromContext(c.Request().Context(), nil)
		return c.NoContent(http.StatusOK)
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if fromEcho == nil || fromCtx == nil {
		t.Fatal("logger missing from echo or request context")
	}
	if fromEcho != fromCtx {
		t.Error("echo and request context carry different loggers")
	}
}

func TestRateLimit(t *testing.T) {
	s := testServer(1)
	e := newEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("request statuses = %v, want %v", codes, want)
		}
	}

	t.Run("disabled at zero rate", func(t *testing.T) {
		s := testServer(0)
		e := newEcho(s)
		e.Use(NewRateLimitMiddleware(s).Limit())
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		for range 10 {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
		}
	})
}
