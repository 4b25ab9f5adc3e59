package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrIO         ErrorCode = "IO_ERROR"

	// Pipeline specific errors
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrExternalService   ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrParse             ErrorCode = "PARSE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewValidationError(message string) *DomainError {
	return NewError(ErrValidation, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewIOError(message string, err error) *DomainError {
	return NewError(ErrIO, message, err)
}

func NewDocumentNotFoundError(documentID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Document not found with ID: %s", documentID), nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewIndexNotFoundError(documentID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("No index found for document: %s", documentID), nil)
}

func NewUnsupportedFormatError(extension string) *DomainError {
	return NewError(ErrUnsupportedFormat, fmt.Sprintf("Unsupported file format: %s", extension), nil)
}

func NewExternalServiceError(service string, err error) *DomainError {
	return NewError(ErrExternalService, fmt.Sprintf("External service failed: %s", service), err)
}

func NewParseError(message string, err error) *DomainError {
	return NewError(ErrParse, message, err)
}
