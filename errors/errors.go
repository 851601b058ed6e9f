package errors

import (
	"fmt"
	"net/http"

	"github.com/TechHelpSeniors/techhelp-proxy/logger"
)

type ErrorType string

const (
	ValidationError       ErrorType = "VALIDATION_ERROR"
	ConfigurationError    ErrorType = "CONFIGURATION_ERROR"
	ForwardingError       ErrorType = "FORWARDING_ERROR"
	StorageError          ErrorType = "STORAGE_ERROR"
	ServerError           ErrorType = "SERVER_ERROR"
	NotFoundError         ErrorType = "NOT_FOUND"
	MethodNotAllowedError ErrorType = "METHOD_NOT_ALLOWED"
)

// AppError represents a structured application error.
// Message becomes the "error" field of the response envelope and Detail,
// when set, the "message" field.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"error"`
	Detail     string    `json:"message,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status code the error maps to.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors

func ValidationFailed(message string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingConfiguration reports a deployment problem. The message is shown to
// the caller as-is so it should tell the operator how to fix it.
func MissingConfiguration(message string, err error) *AppError {
	logger.GetLogger().Errorw("Configuration error", "error", err)
	return &AppError{
		Type:       ConfigurationError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func ForwardingFailed(err error) *AppError {
	return Wrap(err, ForwardingError, "Failed to submit form")
}

func StorageFailed(message string, err error) *AppError {
	return Wrap(err, StorageError, message)
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NotFound(message string) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

func MethodNotAllowed() *AppError {
	return &AppError{
		Type:       MethodNotAllowedError,
		Message:    "Method not allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case MethodNotAllowedError:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
