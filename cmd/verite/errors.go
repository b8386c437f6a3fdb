// cmd/verite/errors.go
package main

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeStore    ErrorType = "store"
	ErrorTypeAI       ErrorType = "ai"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeFeed     ErrorType = "feed"
	ErrorTypeInternal ErrorType = "internal"
)

// Error codes
const (
	// AI error codes
	ErrAITimeout   = "AI_001"
	ErrAIQuota     = "AI_002"
	ErrAIModel     = "AI_003"
	ErrAIService   = "AI_004"
	ErrAIRateLimit = "AI_005"

	// Store error codes
	ErrStoreConnection = "STORE_001"
	ErrStoreQuery      = "STORE_002"
	ErrStoreMigration  = "STORE_003"

	// Config error codes
	ErrConfigLoad       = "CONFIG_001"
	ErrConfigValidation = "CONFIG_002"
)

// AppError is the custom error type for the application. Status carries the
// HTTP status the error maps to when it reaches a handler.
type AppError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
	Inner   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("[%s-%s] %s: %v", e.Type, e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("[%s-%s] %s", e.Type, e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Inner
}

// NewError creates a new AppError
func NewError(errType ErrorType, code string, message string, status int, inner error) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Status:  status,
		Inner:   inner,
	}
}

// Common error constructors
func NewAIError(code string, message string, status int, inner error) *AppError {
	return NewError(ErrorTypeAI, code, message, status, inner)
}

func NewStoreError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeStore, code, message, http.StatusInternalServerError, inner)
}

func NewConfigError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeConfig, code, message, 0, inner)
}
