package errors

import (
	"net/http"

	"talk/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches any BaseError carrying the same business code, so copies made
// by WithDetails still satisfy errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// AsAppError extracts the AppError carried anywhere in err's chain.
func AsAppError(err error) (AppError, bool) {
	return errors.AsType[AppError](err)
}

// Predefined error types
var (
	// Validation
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	ErrInvalidTalkID = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TALK_ID",
		"talk_id must be 2 uppercase letters followed by 5 digits (e.g., AB12345)",
		"",
	)

	ErrInvalidRole = NewBaseError(
		http.StatusBadRequest,
		"INVALID_ROLE",
		"role must be individual or service_provider",
		"",
	)

	ErrPasswordPolicy = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_POLICY",
		"password does not meet security requirements",
		"",
	)

	// Account
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"user with email not found",
		"",
	)

	ErrEmailAlreadyRegistered = NewBaseError(
		http.StatusConflict,
		"EMAIL_ALREADY_REGISTERED",
		"an account with this email already exists",
		"",
	)

	ErrTalkIDExhausted = NewBaseError(
		http.StatusConflict,
		"TALK_ID_EXHAUSTED",
		"failed to generate a unique talk_id after multiple attempts",
		"",
	)

	ErrTalkIDTaken = NewBaseError(
		http.StatusConflict,
		"TALK_ID_TAKEN",
		"talk_id is already assigned to another account",
		"",
	)

	ErrRoleLocked = NewBaseError(
		http.StatusConflict,
		"ROLE_LOCKED",
		"role cannot change once a profile for another role exists",
		"",
	)

	ErrEmailNotVerified = NewBaseError(
		http.StatusForbidden,
		"EMAIL_NOT_VERIFIED",
		"email address has not been verified",
		"",
	)

	// One-time passwords
	ErrOTPNotFound = NewBaseError(
		http.StatusNotFound,
		"OTP_NOT_FOUND",
		"invalid otp",
		"",
	)

	ErrOTPAlreadyUsed = NewBaseError(
		http.StatusGone,
		"OTP_ALREADY_USED",
		"otp already used",
		"",
	)

	ErrOTPExpired = NewBaseError(
		http.StatusGone,
		"OTP_EXPIRED",
		"otp expired",
		"",
	)

	ErrEmailAlreadyVerified = NewBaseError(
		http.StatusConflict,
		"EMAIL_ALREADY_VERIFIED",
		"email address is already verified",
		"",
	)

	ErrOTPResendThrottled = NewBaseError(
		http.StatusTooManyRequests,
		"OTP_RESEND_THROTTLED",
		"an otp was sent recently, try again later",
		"",
	)

	// Profiles
	ErrProfileNotFound = NewBaseError(
		http.StatusNotFound,
		"PROFILE_NOT_FOUND",
		"profile not found",
		"",
	)

	ErrProfileAlreadyExists = NewBaseError(
		http.StatusConflict,
		"PROFILE_ALREADY_EXISTS",
		"profile already exists for this account",
		"",
	)

	ErrBusinessEmailTaken = NewBaseError(
		http.StatusConflict,
		"BUSINESS_EMAIL_TAKEN",
		"business email is already in use",
		"",
	)

	ErrRoleMismatch = NewBaseError(
		http.StatusForbidden,
		"ROLE_MISMATCH",
		"account role does not allow this profile",
		"",
	)

	// Authentication
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"invalid email or password",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"invalid or expired refresh token",
		"",
	)

	ErrInvalidToken = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TOKEN",
		"invalid token",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusBadRequest,
		"TOKEN_EXPIRED",
		"activation expired",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"password processing failed",
		"",
	)

	// General
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
