package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeCacheUnavailable = "CACHE_UNAVAILABLE"
	ErrCodeRefreshFailed    = "REFRESH_FAILED"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Cache error kinds. Match them with errors.Is.
var (
	// ErrInitialization means the store could not be opened. Every cache
	// operation fails until EnsureReady succeeds.
	ErrInitialization = errors.New("menu cache initialization failed")
	// ErrSchema means the menu table could not be created.
	ErrSchema = errors.New("menu cache schema failed")
	// ErrWrite means a snapshot replacement did not complete.
	ErrWrite = errors.New("menu cache write failed")
	// ErrRead means a snapshot read failed.
	ErrRead = errors.New("menu cache read failed")
)

// CacheError records a failed menu cache operation.
type CacheError struct {
	Kind error
	Op   string
	Err  error
}

// NewCacheError creates a cache error of the given kind.
func NewCacheError(kind error, op string, err error) *CacheError {
	return &CacheError{Kind: kind, Op: op, Err: err}
}

func (e *CacheError) Error() string {
	if e.Err == nil {
		return e.Kind.Error() + ": " + e.Op
	}
	return e.Kind.Error() + ": " + e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *CacheError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
