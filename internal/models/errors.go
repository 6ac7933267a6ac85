package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Error codes carried by AppError.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the wire format for every error: the reason phrase of
// the status code, plus an optional detail (a string, or a field-keyed
// map for multi-field validation failures).
type ErrorResponse struct {
	Error   string `json:"error"`
	Message any    `json:"message,omitempty"`
}

// AppError is the application error type. Fields is populated only for
// validation failures that implicate multiple input fields.
type AppError struct {
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation failed: %v", e.Fields)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to its status code.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewFieldValidationError reports per-field validation failures.
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{Code: CodeValidation, Fields: fields}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewForbiddenError() *AppError {
	return &AppError{Code: CodeForbidden, Message: "You do not have permission to perform this action"}
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s with ID %v not found", resource, id)}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// RespondWithError writes the standardized error envelope. Unknown error
// types are treated as internal failures.
func RespondWithError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	response := ErrorResponse{}

	if appErr, ok := err.(*AppError); ok {
		status = appErr.HTTPStatus()
		if len(appErr.Fields) > 0 {
			response.Message = appErr.Fields
		} else if appErr.Message != "" && appErr.Code != CodeInternal {
			response.Message = appErr.Message
		}
	}

	response.Error = utils.StatusMessage(status)
	return c.Status(status).JSON(response)
}
