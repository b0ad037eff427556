package errs

import (
	"errors"
	"strings"
)

// FieldError represents a field-level validation error.
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// Machine-checkable codes of the error taxonomy.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeDuplicateEmail    = "DUPLICATE_EMAIL"
	CodeDuplicateUsername = "DUPLICATE_USERNAME"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "NOT_FOUND").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: whether the client may show Message to end users verbatim.
//   - Errors: list of per-field errors (validation).
//   - Action: client instruction (optional).
//
// cause is never serialized; it exists so operators can see what actually
// failed underneath an INTERNAL_SERVER_ERROR.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`

	Action *Action `json:"action"`

	cause error
}

// Error returns the client-facing message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. It does not compare codes;
// use KindOf for that.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// Unwrap exposes the diagnostic cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Cause returns the underlying error recorded with WithCause, if any.
func (e *HTTPError) Cause() error {
	return e.cause
}

// WithCause returns a copy of this HTTPError that records cause for diagnostics.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	clone := *e
	clone.cause = cause
	return &clone
}

// KindOf returns the Code of the outermost *HTTPError in err's chain, or
// CodeInternal if there is none.
func KindOf(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return CodeInternal
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == CodeNotFound
}

// IsConflict reports whether err is any of the 409 kinds.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case CodeConflict, CodeDuplicateEmail, CodeDuplicateUsername:
		return true
	}
	return false
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
