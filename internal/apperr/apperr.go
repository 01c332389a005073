package apperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Code identifies a failure kind in the API error taxonomy. Every error
// response carries exactly one of these.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeNoToken            Code = "NO_TOKEN"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeProductNotFound    Code = "PRODUCT_NOT_FOUND"
	CodeDuplicateField     Code = "DUPLICATE_FIELD"
	CodeInternal           Code = "INTERNAL_ERROR"

	// CodeRequest covers client errors raised by the HTTP layer itself,
	// e.g. an unknown route or a disallowed method.
	CodeRequest Code = "REQUEST_ERROR"
)

// FieldError describes a single violated validation rule.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error is the application error type. Handlers and middleware return it
// up the Fiber chain; the central error handler renders it.
type Error struct {
	Code    Code
	Message string
	Status  int
	Details []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with an explicit status. Prefer the named
// constructors below.
func New(code Code, status int, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// Validation reports one or more violated rules as a single 400 response.
func Validation(details []FieldError) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "Validation failed",
		Status:  fiber.StatusBadRequest,
		Details: details,
	}
}

func NoToken() *Error {
	return New(CodeNoToken, fiber.StatusUnauthorized, "Authorization token is required")
}

func InvalidToken() *Error {
	return New(CodeInvalidToken, fiber.StatusUnauthorized, "Invalid authorization token")
}

func TokenExpired() *Error {
	return New(CodeTokenExpired, fiber.StatusUnauthorized, "Authorization token has expired")
}

func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, fiber.StatusUnauthorized, "Invalid credentials")
}

func ProductNotFound() *Error {
	return New(CodeProductNotFound, fiber.StatusNotFound, "Product not found")
}

func DuplicateField(field string) *Error {
	return New(CodeDuplicateField, fiber.StatusBadRequest, fmt.Sprintf("%s already exists", field))
}

func Internal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "Internal server error",
		Status:  fiber.StatusInternalServerError,
		Cause:   cause,
	}
}
