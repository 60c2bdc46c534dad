package domain

import "fmt"

// ErrorCode classifies domain failures for hosts that branch on them
type ErrorCode string

const (
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"
	ErrCodeAnalysisError     ErrorCode = "ANALYSIS_ERROR"
	ErrCodeConfigError       ErrorCode = "CONFIG_ERROR"
	ErrCodeOutputError       ErrorCode = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
)

// DomainError carries a stable code alongside the message and cause.
// The code is part of the error text so it survives plain %v formatting.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewValidationError flags a request that failed validation
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// NewInvalidInputError flags unusable input with an underlying cause
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError reports a path that could not be read
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, "file not found: "+path, cause)
}

// NewParseError reports a malformed facts document
func NewParseError(file string, cause error) error {
	return NewDomainError(ErrCodeParseError, "failed to parse facts document: "+file, cause)
}

// NewAnalysisError reports a failure inside an analysis pass
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError reports an unusable configuration
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError reports a failure while writing a report
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError rejects an output format the formatters do not know
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, "unsupported format: "+format, nil)
}
