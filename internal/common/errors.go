package common

import "errors"

// AppError carries the stable error code and HTTP status a failure should
// surface with, alongside the underlying cause. Handlers return these and let
// WriteError shape the response, so the code-to-status mapping lives with the
// failure site rather than in each handler.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is/As, so callers can still match on
// sentinel errors wrapped inside an AppError.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError wraps err with a code, caller-facing message and HTTP status.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError reports whether err carries AppError metadata anywhere in its
// chain.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
