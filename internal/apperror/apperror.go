// Package apperror defines the client-side error taxonomy.
//
// Every failure the client can observe falls into one of five kinds:
//
//	ErrValidation → a form failed its client-side checks (never reaches the network)
//	ErrNetwork    → the request never produced an HTTP response
//	ErrAuth       → the backend answered 401 or 403
//	ErrNotFound   → the backend answered 404
//	ErrServer     → any other non-2xx answer
//
// Callers test the kind with errors.Is and extract the message with errors.As:
//
//	var appErr *apperror.AppError
//	if errors.As(err, &appErr) { fmt.Println(appErr.Message) }
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNetwork    = errors.New("network error")
	ErrAuth       = errors.New("unauthorized")
	ErrNotFound   = errors.New("not found")
	ErrServer     = errors.New("server error")
)

// GenericMessage is shown when neither the backend nor the client produced
// anything more specific.
const GenericMessage = "Something went wrong. Please try again."

type AppError struct {
	Err     error  // one of the sentinel kinds above
	Message string // Human-readable error message
	Field   string // Optional: form field causing the error
	Status  int    // HTTP status code, 0 when no response was received
	Cause   error  // Optional: underlying transport or decode error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause, so errors.Is matches either.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Network wraps a transport-level failure (DNS, refused connection, timeout).
func Network(cause error) *AppError {
	return &AppError{
		Err:     ErrNetwork,
		Message: "Unable to reach the FloraBase server",
		Cause:   cause,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
		Status:  http.StatusNotFound,
	}
}

// FromStatus classifies a non-2xx response. message is the backend-provided
// text and may be empty.
func FromStatus(status int, message string) *AppError {
	kind := ErrServer
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrAuth
	case http.StatusNotFound:
		kind = ErrNotFound
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &AppError{
		Err:     kind,
		Message: message,
		Status:  status,
	}
}

// UserMessage returns the single string a screen shows for err.
//
// Validation, auth and not-found errors keep their specific message (the
// backend's text when it sent one). Network and server failures collapse to
// fallback, or GenericMessage when fallback is empty; their detail belongs in
// the debug log, not on screen.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fallback == "" {
		fallback = GenericMessage
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fallback
	}
	switch {
	case errors.Is(appErr.Err, ErrNetwork):
		return fallback
	case errors.Is(appErr.Err, ErrServer) && appErr.Status >= http.StatusInternalServerError:
		return fallback
	}
	if appErr.Message == "" {
		return fallback
	}
	return appErr.Message
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}
