// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"

	ErrCodeUnknownBusinessType     ErrorCode = "UNKNOWN_BUSINESS_TYPE"
	ErrCodeUnknownHighlightVariant ErrorCode = "UNKNOWN_HIGHLIGHT_VARIANT"

	ErrCodeProfileSourceFailed ErrorCode = "PROFILE_SOURCE_FAILED"
	ErrCodeProfileTableInvalid ErrorCode = "PROFILE_TABLE_INVALID"

	ErrCodeOutputSchemaViolation ErrorCode = "OUTPUT_SCHEMA_VIOLATION"
	ErrCodeJobTimeout            ErrorCode = "JOB_TIMEOUT"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParsingFailedError is returned when job variables are not a JSON object.
func NewInputParsingFailedError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err.Error(), false)
}

// NewValidationFailedError wraps schema validation messages.
func NewValidationFailedError(messages []string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed",
		fmt.Sprintf("Validation errors: %v", messages), false)
}

// NewUnknownBusinessTypeError is the non-retryable lookup miss. The original
// input and the valid identifiers travel as metadata.
func NewUnknownBusinessTypeError(input string, validTypes []string) *StandardError {
	e := newError(ErrCodeUnknownBusinessType, "Unknown business type",
		fmt.Sprintf("businessType %q is not one of: %s", input, strings.Join(validTypes, ", ")), false)
	return e.WithMetadata("businessTypeInput", input).
		WithMetadata("validBusinessTypes", validTypes)
}

// NewUnknownHighlightVariantError is the non-retryable highlight variant miss.
func NewUnknownHighlightVariantError(input string, validKeys []string) *StandardError {
	e := newError(ErrCodeUnknownHighlightVariant, "Unknown highlight variant",
		fmt.Sprintf("variant %q is not one of: %s", input, strings.Join(validKeys, ", ")), false)
	return e.WithMetadata("variantInput", input).
		WithMetadata("validVariants", validKeys)
}

// NewProfileSourceFailedError is a retryable failure reading the profile table.
func NewProfileSourceFailedError(source string, err error) *StandardError {
	return newError(ErrCodeProfileSourceFailed,
		fmt.Sprintf("Profile source '%s' failed", source), err.Error(), true)
}

// NewProfileTableInvalidError is a non-retryable data-authoring error.
func NewProfileTableInvalidError(err error) *StandardError {
	return newError(ErrCodeProfileTableInvalid, "Profile table is invalid", err.Error(), false)
}

// NewOutputSchemaViolationError flags output that does not match the registry schema.
func NewOutputSchemaViolationError(taskType string, err error) *StandardError {
	return newError(ErrCodeOutputSchemaViolation, "Worker output violates registry schema",
		fmt.Sprintf("taskType: %s, error: %s", taskType, err.Error()), false)
}

// NewJobTimeoutError is used when a job context expires.
func NewJobTimeoutError(taskType string) *StandardError {
	return newError(ErrCodeJobTimeout, "Job processing timed out",
		fmt.Sprintf("taskType: %s", taskType), true)
}

// NewInternalError wraps anything unexpected.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileSourceFailed:
		return 3
	case ErrCodeJobTimeout:
		return 2
	default:
		return 0 // business and validation errors are not retried
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// Metadata is carried over into the error variables.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "UNKNOWN_"):
		return "LOOKUP"
	case strings.HasPrefix(codeStr, "PROFILE_"):
		return "PROFILE"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING") || strings.Contains(codeStr, "SCHEMA"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	default:
		return "OTHER"
	}
}

// ExtractCode returns the error code of a StandardError, or INTERNAL_ERROR.
func ExtractCode(err error) string {
	if stdErr, ok := err.(*StandardError); ok {
		return string(stdErr.Code)
	}
	return string(ErrCodeInternal)
}
