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
	// ErrCodeConfiguration covers missing credentials and unknown providers.
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	// ErrCodeContent covers unreadable documents and insufficient text.
	ErrCodeContent = "CONTENT_ERROR"
	// ErrCodeValidation covers model output that fails the result schema.
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeProvider covers transport/vendor failures, distinct from bad output.
	ErrCodeProvider = "PROVIDER_ERROR"
	// ErrCodeBatchDisabled is returned when batch processing is turned off.
	ErrCodeBatchDisabled = "BATCH_DISABLED"
	// ErrCodePayloadTooLarge covers documents above the configured byte ceiling.
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// Content errors
var (
	ErrNoExtractableText = NewDomainError(ErrCodeContent, "PDF contains no extractable text (possibly a scanned document)")
	ErrInsufficientText  = NewDomainError(ErrCodeContent, "PDF contains too little text to analyze")
	ErrNotPDF            = NewDomainError(ErrCodeContent, "file must be a PDF")
)

// Batch errors
var (
	ErrBatchDisabled = NewDomainError(ErrCodeBatchDisabled, "batch processing is disabled")
	ErrEmptyProfile  = NewDomainError(ErrCodeValidation, "subscriber profile is required for compatibility evaluation")
)
