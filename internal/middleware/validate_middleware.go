package middleware

import (
	"github.com/gofiber/fiber/v2"

	"gudang/internal/apperr"
	"gudang/internal/validation"
)

// Normalizer is implemented by request payloads that sanitize themselves
// (trimming, lower-casing) and apply defaults before validation.
type Normalizer interface {
	Normalize()
}

// CrossValidator is implemented by payloads with rules spanning more than
// one field, e.g. maxPrice >= minPrice.
type CrossValidator interface {
	CrossValidate() []apperr.FieldError
}

const (
	localsBody  = "validated_body"
	localsQuery = "validated_query"
)

// ValidateBody is the validation gate for request bodies. payload must
// return a pointer to a fresh DTO; only fields declared on it bind, so
// unknown body fields are stripped rather than passed through. On success
// the normalized payload replaces the raw body for the handler, reachable
// via Body. On failure every violated rule is reported in one response
// and the handler is never reached.
func ValidateBody(payload func() interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := payload()
		if err := c.BodyParser(req); err != nil {
			return apperr.Validation([]apperr.FieldError{
				{Field: "body", Message: "Invalid request body"},
			})
		}
		return runSchema(c, req, localsBody)
	}
}

// ValidateQuery is the validation gate for query strings. Numeric
// parameters are coerced during parsing; a non-numeric value for a
// numeric parameter is a validation failure.
func ValidateQuery(payload func() interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := payload()
		if err := c.QueryParser(req); err != nil {
			return apperr.Validation([]apperr.FieldError{
				{Field: "query", Message: "Invalid query parameters"},
			})
		}
		return runSchema(c, req, localsQuery)
	}
}

func runSchema(c *fiber.Ctx, req interface{}, key string) error {
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}

	details := validation.Struct(req)
	if cv, ok := req.(CrossValidator); ok {
		details = append(details, cv.CrossValidate()...)
	}
	if len(details) > 0 {
		return apperr.Validation(details)
	}

	c.Locals(key, req)
	return c.Next()
}

// Body returns the normalized body payload stored by ValidateBody.
func Body(c *fiber.Ctx) interface{} {
	return c.Locals(localsBody)
}

// Query returns the normalized query payload stored by ValidateQuery.
func Query(c *fiber.Ctx) interface{} {
	return c.Locals(localsQuery)
}
