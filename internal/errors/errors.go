// Package errors provides the application error type shared by services and
// handlers. Services return AppError values so handlers can render a stable
// code and message without leaking internal details to clients.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target carries the same code, so a wrapped copy of a
// sentinel still matches the sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors. The set mirrors the messages shown on the sign-in
// screen; anything unrecognised falls back to ErrAuthFailed.
var (
	ErrUnauthorized  = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrUserNotFound  = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrWrongPassword = &AppError{Code: "WRONG_PASSWORD", Message: "Incorrect password", StatusCode: http.StatusUnauthorized}
	ErrEmailInUse    = &AppError{Code: "EMAIL_IN_USE", Message: "Email already in use", StatusCode: http.StatusConflict}
	ErrWeakPassword  = &AppError{Code: "WEAK_PASSWORD", Message: "Password is too weak", StatusCode: http.StatusBadRequest}
	ErrInvalidEmail  = &AppError{Code: "INVALID_EMAIL", Message: "Invalid email format", StatusCode: http.StatusBadRequest}
	ErrAuthFailed    = &AppError{Code: "AUTH_FAILED", Message: "Authentication failed, please try again later", StatusCode: http.StatusUnauthorized}
)

// Maintenance route errors.
var (
	ErrAdminDisabled   = &AppError{Code: "ADMIN_NOT_CONFIGURED", Message: "Admin routes are disabled until ADMIN_API_KEY is set", StatusCode: http.StatusServiceUnavailable}
	ErrInvalidAdminKey = &AppError{Code: "INVALID_API_KEY", Message: "Admin key is missing or does not match", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Artist errors.
var (
	ErrArtistNotFound    = &AppError{Code: "ARTIST_NOT_FOUND", Message: "Artist not found", StatusCode: http.StatusNotFound}
	ErrPhotoLimitReached = &AppError{Code: "PHOTO_LIMIT_REACHED", Message: "An artist can have at most 3 photos", StatusCode: http.StatusBadRequest}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// Settings errors.
var (
	ErrEventNotFound      = &AppError{Code: "EVENT_NOT_FOUND", Message: "Countdown event not found", StatusCode: http.StatusNotFound}
	ErrPreferenceNotFound = &AppError{Code: "PREFERENCE_NOT_FOUND", Message: "Preference not set", StatusCode: http.StatusNotFound}
)
