package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeRateLimit        ErrorType = "RATE_LIMIT_ERROR"
	ErrorTypeRecipeGeneration ErrorType = "RECIPE_GENERATION_ERROR"
	ErrorTypeImageGeneration  ErrorType = "IMAGE_GENERATION_ERROR"
	ErrorTypeChat             ErrorType = "CHAT_ERROR"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	ErrorCode     string    `json:"errorCode"`
	IsOperational bool      `json:"isOperational"`
	Recovery      string    `json:"recoverySuggestion,omitempty"`
	Err           error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// IsRetryable determines if the operation that caused the error should be retried
func (e *AppError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit:
		return true
	case ErrorTypeRecipeGeneration, ErrorTypeImageGeneration, ErrorTypeChat:
		// Upstream failures surface as 5xx and are usually transient.
		return e.StatusCode >= 500
	default:
		return false
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeValidation,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeRateLimit,
		Message:       message,
		StatusCode:    http.StatusTooManyRequests,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewRecipeGenerationError creates a new recipe generation error (502)
func NewRecipeGenerationError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeRecipeGeneration,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Try again in a moment, or adjust the ingredient list.",
		Err:           err,
	}
}

// NewImageGenerationError creates a new image generation error (502)
func NewImageGenerationError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeImageGeneration,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "The recipe is still usable; retry the image later.",
		Err:           err,
	}
}

// NewChatError creates a new chat error (502)
func NewChatError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeChat,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Send the message again.",
		Err:           err,
	}
}

// NewInternalError creates a new internal error (500)
func NewInternalError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInternal,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: false,
		Err:           err,
	}
}
