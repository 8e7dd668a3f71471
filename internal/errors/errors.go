package errors

import (
	"errors"
	"net/http"
)

// Machine-readable error codes surfaced to API clients.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidSlot         = "INVALID_SLOT"
	CodeAlreadyLocked       = "ALREADY_LOCKED"
	CodeNotLockHolder       = "NOT_LOCK_HOLDER"
	CodeCannotArchiveLocked = "CANNOT_ARCHIVE_LOCKED_VERSION"
	CodeWriteConflict       = "CONCURRENT_WRITE_CONFLICT"
	CodeInvalidTransition   = "INVALID_STATUS_TRANSITION"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeStorageUnavailable  = "STORAGE_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

// APIError carries an HTTP status, a stable machine code and a user-facing
// message. Internal holds the underlying error for logging and is never
// serialized.
type APIError struct {
	Status   int    `json:"-"`
	Code     string `json:"code"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

func New(status int, code, message string, err error) *APIError {
	return &APIError{Status: status, Code: code, Message: message, Internal: err}
}

func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, CodeValidation, message, err)
}

func NewValidationError(err error) *APIError {
	return New(http.StatusUnprocessableEntity, CodeValidation, "Validation failed", err)
}

func Unauthorized(message string, err error) *APIError {
	return New(http.StatusUnauthorized, CodeUnauthorized, message, err)
}

func Forbidden(message string, err error) *APIError {
	return New(http.StatusForbidden, CodeForbidden, message, err)
}

func NotFound(message string, err error) *APIError {
	return New(http.StatusNotFound, CodeNotFound, message, err)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, CodeInternal, "Internal server error", err)
}

func StorageUnavailable(err error) *APIError {
	return New(http.StatusServiceUnavailable, CodeStorageUnavailable, "Storage unavailable", err)
}

// Domain errors of the versioning engine.

func InvalidSlot(message string, err error) *APIError {
	return New(http.StatusUnprocessableEntity, CodeInvalidSlot, message, err)
}

func AlreadyLocked(message string, err error) *APIError {
	return New(http.StatusConflict, CodeAlreadyLocked, message, err)
}

func NotLockHolder(message string, err error) *APIError {
	return New(http.StatusForbidden, CodeNotLockHolder, message, err)
}

func CannotArchiveLocked(message string, err error) *APIError {
	return New(http.StatusConflict, CodeCannotArchiveLocked, message, err)
}

func WriteConflict(message string, err error) *APIError {
	return New(http.StatusConflict, CodeWriteConflict, message, err)
}

func InvalidTransition(message string, err error) *APIError {
	return New(http.StatusConflict, CodeInvalidTransition, message, err)
}

// HasCode reports whether err is an APIError carrying the given code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
