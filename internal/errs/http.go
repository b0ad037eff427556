package errs

import (
	"fmt"
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code overrides the default "BAD_REQUEST" when non-nil; errors carries
// field-level validation failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := CodeBadRequest
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// A missing row is an expected outcome, not a system fault.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := CodeNotFound
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError creates a 409 Conflict HTTPError for constraint violations
// whose cause can't be attributed to a specific field.
func NewConflictError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     CodeConflict,
		Message:  message,
		Status:   http.StatusConflict,
		Override: override,
	}
}

func NewDuplicateEmailError(email string) *HTTPError {
	return &HTTPError{
		Code:     CodeDuplicateEmail,
		Message:  fmt.Sprintf("Email '%s' is already taken", email),
		Status:   http.StatusConflict,
		Override: true,
		Errors:   []FieldError{{Field: "email", Error: "is already taken"}},
	}
}

func NewDuplicateUsernameError(username string) *HTTPError {
	return &HTTPError{
		Code:     CodeDuplicateUsername,
		Message:  fmt.Sprintf("Username '%s' is already taken", username),
		Status:   http.StatusConflict,
		Override: true,
		Errors:   []FieldError{{Field: "username", Error: "is already taken"}},
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is always the generic status text; callers attach the real
// failure with WithCause so it reaches logs but not clients.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     CodeInternal,
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts a generic validation error into a 400 Bad Request.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
