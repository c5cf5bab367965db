package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Login denial catalog. The messages are part of the API contract and must
// not be reworded. Unknown email and wrong password share one error so a
// probe cannot learn whether an account exists.
var (
	ErrInvalidCredentials  = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid email or password.")
	ErrNotSchoolAdmin      = New("NOT_SCHOOL_ADMIN", http.StatusForbidden, "Only school admins can log in here.")
	ErrNoSchoolForDomain   = New("NO_SCHOOL_FOR_DOMAIN", http.StatusForbidden, "No school is linked to this domain.")
	ErrNoSchoolForUser     = New("NO_SCHOOL_FOR_USER", http.StatusForbidden, "This user is not linked to any school.")
	ErrWrongDomain         = New("WRONG_DOMAIN", http.StatusForbidden, "You are not authorized to use this domain.")
	ErrExpiredSubscription = New("EXPIRED_SUBSCRIPTION", http.StatusForbidden, "School subscription has expired.")
	ErrInactiveUser        = New("INACTIVE_USER", http.StatusForbidden, "This user account is inactive.")
	ErrInactiveSchool      = New("INACTIVE_SCHOOL", http.StatusForbidden, "This school is inactive.")
	ErrNotTeacher          = New("NOT_TEACHER", http.StatusForbidden, "Only teachers can log in here.")
	ErrTeacherNotInSchool  = New("TEACHER_NOT_IN_SCHOOL", http.StatusForbidden, "This teacher is not associated with the specified school.")
	ErrSchoolNotFound      = New("SCHOOL_NOT_FOUND", http.StatusForbidden, "School not found.")
	ErrTenantMismatch      = New("TENANT_MISMATCH", http.StatusForbidden, "School ID does not match the current tenant's school.")
	ErrRateLimited         = New("RATE_LIMITED", http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
)

// Predefined errors for common scenarios.
var (
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "Authentication credentials were not provided or are invalid.")
	ErrTenantScope  = New("TENANT_SCOPE", http.StatusForbidden, "You are not authorized for this tenant/domain.")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "You do not have permission to perform this action.")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "Resource not found.")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "Conflict.")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "Validation failed.")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "Internal server error.")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "Cache miss.")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	e := FromError(err)
	return e != nil && target != nil && e.Code == target.Code
}
