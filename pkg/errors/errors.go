package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related fetch errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeHTTPStatus represents unexpected HTTP status codes
	ErrorTypeHTTPStatus ErrorType = "http_status"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeValidation represents candidate validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypePublish represents artifact write/promote errors
	ErrorTypePublish ErrorType = "publish"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PipelineError represents a pipeline-stage error with its source attached
type PipelineError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if a fetch hitting this error should be retried
func (e *PipelineError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// New creates a new PipelineError
func New(errType ErrorType, source, message string, err error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *PipelineError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewHTTPStatus creates a new error for an unexpected status code
func NewHTTPStatus(source string, statusCode int) *PipelineError {
	return New(ErrorTypeHTTPStatus, source, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, retryAfter time.Duration) *PipelineError {
	message := fmt.Sprintf("rate limited; retry after %v", retryAfter)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *PipelineError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *PipelineError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewPublish creates a new publish error
func NewPublish(artifact, message string, err error) *PipelineError {
	return New(ErrorTypePublish, artifact, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf returns the ErrorType of err when it wraps a PipelineError
func TypeOf(err error) (ErrorType, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type, true
	}
	return "", false
}
