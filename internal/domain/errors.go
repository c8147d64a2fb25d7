package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeService    = "SERVICE_ERROR"
	ErrCodeModelLoad  = "MODEL_LOAD_ERROR"
	ErrCodeStore      = "STORE_ERROR"
	ErrCodeData       = "DATA_ERROR"
)

// NewServiceError wraps a remote API failure (auth, rate limit, network,
// malformed response).
func NewServiceError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeService, message, err)
}

// NewModelLoadError wraps a local model initialization failure.
func NewModelLoadError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeModelLoad, message, err)
}

// NewStoreError wraps a backing-table I/O or auth failure.
func NewStoreError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeStore, message, err)
}

// NewDataError wraps a malformed or missing cached field.
func NewDataError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeData, message, err)
}

// ErrorCode extracts the DomainError code from an error chain, or returns
// an empty string for non-domain errors.
func ErrorCode(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}

// Validation errors
var (
	ErrEmptyQuery           = NewDomainError(ErrCodeValidation, "query cannot be empty")
	ErrEmptyText            = NewDomainError(ErrCodeValidation, "text cannot be empty")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Data errors
var (
	ErrMissingEmbedding = NewDomainError(ErrCodeData, "entry has no embedding")
	ErrMissingTokens    = NewDomainError(ErrCodeData, "entry has no token count")
)
