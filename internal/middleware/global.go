package middleware

import (
	"errors"
	"net/http"

	"github.com/deppfellow/jobtracker/internal/errs"
	"github.com/deppfellow/jobtracker/internal/server"
	"github.com/deppfellow/jobtracker/internal/sqlerr"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware every route gets and the global
// error handler.
type GlobalMiddlewares struct {
	server      *server.Server
	translators []errs.Translator
}

// NewGlobalMiddlewares uses translators, in order, to turn handler errors into
// responses. With none given it uses DefaultTranslators.
func NewGlobalMiddlewares(s *server.Server, translators ...errs.Translator) *GlobalMiddlewares {
	if len(translators) == 0 {
		translators = DefaultTranslators()
	}
	return &GlobalMiddlewares{
		server:      s,
		translators: translators,
	}
}

// DefaultTranslators lists the error translators most specific first: typed
// application errors, Echo's own errors, raw validator errors, then raw
// database errors.
func DefaultTranslators() []errs.Translator {
	return []errs.Translator{
		errs.PassThrough(),
		EchoTranslator(),
		ValidatorTranslator(),
		sqlerr.Translator(),
	}
}

// EchoTranslator converts *echo.HTTPError (unknown routes, bind failures,
// rate limiting) into the API error shape.
func EchoTranslator() errs.Translator {
	return errs.Translator{
		Name: "echo",
		Match: func(err error) bool {
			var echoErr *echo.HTTPError
			return errors.As(err, &echoErr)
		},
		Convert: func(err error) *errs.HTTPError {
			var echoErr *echo.HTTPError
			errors.As(err, &echoErr)

			if echoErr.Code == http.StatusNotFound {
				return errs.NewNotFoundError("Route not found", false, nil)
			}

			message := http.StatusText(echoErr.Code)
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}

			return &errs.HTTPError{
				Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
				Message: message,
				Status:  echoErr.Code,
			}
		},
	}
}

// ValidatorTranslator covers validator errors that skipped BindAndValidate.
func ValidatorTranslator() errs.Translator {
	return errs.Translator{
		Name: "validator",
		Match: func(err error) bool {
			var validationErrs validator.ValidationErrors
			return errors.As(err, &validationErrs)
		},
		Convert: errs.ValidationError,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" line per request, at a level chosen from
// the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The error handler writes the response after this runs, so derive
			// the status from the error.
			// See https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = errs.Translate(v.Error, global.translators).Status
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the HTTP server.
//
// Server faults are logged at error level with their hidden cause; expected
// outcomes such as NOT_FOUND or duplicates are logged at debug. Only the
// translated error is written to the client.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := errs.Translate(err, global.translators)

	cause := err
	if httpErr.Cause() != nil {
		cause = httpErr.Cause()
	}

	logger := GetLogger(c)
	if httpErr.Status >= http.StatusInternalServerError {
		logger.Error().Stack().
			Err(pkgerrors.WithStack(cause)).
			Int("status", httpErr.Status).
			Str("error_code", httpErr.Code).
			Msg(httpErr.Message)
	} else {
		logger.Debug().
			Err(err).
			Int("status", httpErr.Status).
			Str("error_code", httpErr.Code).
			Msg(httpErr.Message)
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.JSON(httpErr.Status, httpErr)
}
