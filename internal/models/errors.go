package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeUpstream     = "UPSTREAM_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// ServerErrorBody is the plain-text body of every 5xx response.
const ServerErrorBody = "Server error"

// FieldError is one entry of a validation failure list.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// ErrorResponse is the body for single-message failures.
type ErrorResponse struct {
	Msg  string `json:"msg"`
	Code string `json:"code,omitempty"`
}

// ValidationResponse is the body for field-level failures.
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Errors  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports a missing resource with a client-facing message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// NewValidationError reports input problems. With no fields the message
// becomes the single entry of the errors list.
func NewValidationError(message string, fields ...FieldError) *AppError {
	if len(fields) == 0 {
		fields = []FieldError{{Msg: message}}
	}
	return &AppError{Code: CodeValidation, Message: message, Errors: fields}
}

// NewUnauthorizedError reports a missing or rejected credential.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

// NewForbiddenError reports an authenticated caller acting on someone else's
// resource. It is answered with 401, not 403.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewUpstreamError reports a failed lookup against an external service.
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Code: CodeUpstream, Message: message, Err: err}
}

// NewConflictError reports a request that contradicts current state.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusFor maps an error to an HTTP status. notFoundStatus is route specific.
func StatusFor(err error, notFoundStatus int) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeConflict, CodeUpstream:
		return fiber.StatusBadRequest
	case CodeUnauthorized, CodeForbidden:
		return fiber.StatusUnauthorized
	case CodeNotFound:
		return notFoundStatus
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standard error body for status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	if status >= fiber.StatusInternalServerError {
		return c.Status(status).SendString(ServerErrorBody)
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return c.Status(status).JSON(ErrorResponse{Msg: err.Error()})
	}
	if len(appErr.Errors) > 0 {
		return c.Status(status).JSON(ValidationResponse{Errors: appErr.Errors})
	}
	return c.Status(status).JSON(ErrorResponse{Msg: appErr.Message, Code: appErr.Code})
}
