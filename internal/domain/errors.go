package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeMissingField ErrorCode = "MISSING_FIELD"
	CodeOutOfRange   ErrorCode = "OUT_OF_RANGE"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Pipeline errors
	CodeExtractionEmpty    ErrorCode = "EXTRACTION_EMPTY"
	CodeSalienceEmpty      ErrorCode = "SALIENCE_EMPTY"
	CodeLLMServiceError    ErrorCode = "LLM_SERVICE_ERROR"
	CodeResponseUnparsable ErrorCode = "RESPONSE_UNPARSABLE"
	CodeResponseSchema     ErrorCode = "RESPONSE_SCHEMA"

	// Session errors
	CodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	CodeInvalidState    ErrorCode = "INVALID_STATE"
	CodeInvalidAnswer   ErrorCode = "INVALID_ANSWER"
	CodeStaleGeneration ErrorCode = "STALE_GENERATION"
)

// UnusableResponseMessage is what the user sees for both recovery and schema failures.
const UnusableResponseMessage = "failed to parse quiz, please try again"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code, so sentinel values work with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithContext attaches a key/value pair rendered as error details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks.
var (
	ErrSalienceEmpty      = NewError(CodeSalienceEmpty, "cannot generate quiz from this input", nil)
	ErrLLMService         = NewError(CodeLLMServiceError, "quiz generation failed", nil)
	ErrResponseUnparsable = NewError(CodeResponseUnparsable, UnusableResponseMessage, nil)
	ErrResponseSchema     = NewError(CodeResponseSchema, UnusableResponseMessage, nil)
	ErrSessionNotFound    = NewError(CodeSessionNotFound, "session not found", nil)
	ErrInvalidState       = NewError(CodeInvalidState, "operation not allowed in current state", nil)
	ErrInvalidAnswer      = NewError(CodeInvalidAnswer, "invalid answer", nil)
	ErrStaleGeneration    = NewError(CodeStaleGeneration, "superseded by a newer generation request", nil)
)

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewSalienceEmptyError() *DomainError {
	return NewError(CodeSalienceEmpty, "cannot generate quiz from this input", nil)
}

// NewLLMServiceError wraps a transport, auth or quota failure of the generation client.
func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "quiz generation failed", err)
}

func NewRecoveryError(err error) *DomainError {
	return NewError(CodeResponseUnparsable, UnusableResponseMessage, err)
}

func NewSchemaError(path, reason string) *DomainError {
	return NewError(CodeResponseSchema, UnusableResponseMessage, fmt.Errorf("%s: %s", path, reason)).
		WithContext("path", path)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("session not found: %s", sessionID), nil)
}

func NewInvalidStateError(op string, state SessionState) *DomainError {
	return NewError(CodeInvalidState, fmt.Sprintf("cannot %s while %s", op, state), nil).
		WithContext("state", state.String())
}

func NewInvalidAnswerError(message string) *DomainError {
	return NewError(CodeInvalidAnswer, message, nil)
}

// IsUnusableResponse reports whether err means the model answered but the answer can't be used.
func IsUnusableResponse(err error) bool {
	return errors.Is(err, ErrResponseUnparsable) || errors.Is(err, ErrResponseSchema)
}

// ValidationError describes one invalid request field.
type ValidationError struct {
	Code    ErrorCode   `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Code: CodeMissingField, Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Code: CodeValidation, Field: field, Message: "invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Code:    CodeOutOfRange,
		Field:   field,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
		Value:   value,
	}
}
