package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists         ErrorCode = "USER_EXISTS"

	// Attendance errors
	ErrCodeAlreadyCheckedIn  ErrorCode = "ALREADY_CHECKED_IN"
	ErrCodeAlreadyCheckedOut ErrorCode = "ALREADY_CHECKED_OUT"
	ErrCodeNotCheckedIn      ErrorCode = "NOT_CHECKED_IN"

	// Database errors
	ErrCodeDBError ErrorCode = "DB_ERROR"

	// Validation errors
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// Upstream errors
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"
)

// AppError is the error type returned across service boundaries.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so wrapped instances
// compare equal to the sentinels below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewAppError creates a new AppError.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError reports whether err (or anything it wraps) is an AppError.
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// GetAppError extracts the AppError from err.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Internal wraps an unexpected store/upstream failure.
func Internal(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

// Validation builds a client-facing validation error.
func Validation(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, nil)
}

var (
	ErrUnauthenticated    = NewAppError(ErrCodeUnauthenticated, "Unauthorized", nil)
	ErrForbidden          = NewAppError(ErrCodeForbidden, "Forbidden", nil)
	ErrInvalidToken       = NewAppError(ErrCodeInvalidToken, "Token tidak valid", nil)
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, "Email atau password salah", nil)
	ErrUserNotFound       = NewAppError(ErrCodeUserNotFound, "User tidak ditemukan", nil)
	ErrUserExists         = NewAppError(ErrCodeUserExists, "Email sudah terdaftar", nil)

	ErrAlreadyCheckedIn  = NewAppError(ErrCodeAlreadyCheckedIn, "Sudah absen hari ini", nil)
	ErrAlreadyCheckedOut = NewAppError(ErrCodeAlreadyCheckedOut, "Sudah absen pulang", nil)
	ErrNotCheckedIn      = NewAppError(ErrCodeNotCheckedIn, "Belum absen masuk", nil)
)
