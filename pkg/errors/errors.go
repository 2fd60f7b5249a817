package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodePanelError  = "PANEL_ERROR"
	CodeAPIError    = "API_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
	CodeCache       = "CACHE_ERROR"
	CodeService     = "SERVICE_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeKeyRotation = "KEY_ROTATION_ERROR"
)

type PanelError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *PanelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PanelError) Unwrap() error {
	return e.Cause
}

func NewPanelError(message, code string, statusCode int, context map[string]any) *PanelError {
	return &PanelError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *PanelError) WithCause(cause error) *PanelError {
	e.Cause = cause
	return e
}

type APIError struct {
	*PanelError
}

func (e *APIError) Unwrap() error {
	return e.PanelError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		PanelError: &PanelError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*PanelError
	Field string
	Value interface{}
}

func (e *ValidationError) Unwrap() error {
	return e.PanelError
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		PanelError: &PanelError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type NotFoundError struct {
	*PanelError
	Resource string
}

func (e *NotFoundError) Unwrap() error {
	return e.PanelError
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		PanelError: &PanelError{
			Message:    fmt.Sprintf("%s not found", resource),
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"resource": resource,
				"id":       id,
			},
		},
		Resource: resource,
	}
}

type CacheError struct {
	*PanelError
	Operation string
	Key       string
}

func (e *CacheError) Unwrap() error {
	return e.PanelError
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		PanelError: &PanelError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*PanelError
	Service   string
	Operation string
}

func (e *ServiceError) Unwrap() error {
	return e.PanelError
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		PanelError: &PanelError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

type KeyRotationError struct {
	*APIError
}

func (e *KeyRotationError) Unwrap() error {
	return e.APIError
}

func NewKeyRotationError(message string, statusCode int, context map[string]any) *KeyRotationError {
	return &KeyRotationError{
		APIError: &APIError{
			PanelError: &PanelError{
				Message:    message,
				Code:       CodeKeyRotation,
				StatusCode: statusCode,
				Context:    context,
			},
		},
	}
}

// NormalizedError is the wire shape the dashboard receives for any failure.
// Raw causes and stack traces stay in the logs.
type NormalizedError struct {
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Normalize converts any error into the user-facing {message, code} shape.
// Panel errors keep their code and message; everything else collapses into a
// generic service failure tagged with the platform it came from.
func Normalize(err error, platform string) NormalizedError {
	if err == nil {
		return NormalizedError{}
	}

	var pe *PanelError
	if errors.As(err, &pe) {
		return NormalizedError{
			Message:  pe.Message,
			Code:     pe.Code,
			Platform: platform,
		}
	}

	return NormalizedError{
		Message:  "request failed, please try again",
		Code:     CodeService,
		Platform: platform,
	}
}

// StatusCode extracts the HTTP status from a panel error, defaulting to 500.
func StatusCode(err error) int {
	var pe *PanelError
	if errors.As(err, &pe) && pe.StatusCode > 0 {
		return pe.StatusCode
	}
	return 500
}
