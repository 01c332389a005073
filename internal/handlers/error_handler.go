package handlers

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"gudang/internal/apperr"
	"gudang/internal/repositories"
	"gudang/internal/services"
)

// ErrorHandler is the single place where failures become responses.
// Store and service sentinels are translated into the error taxonomy
// here, once; route handlers just return errors. Outside production,
// responses to unanticipated failures carry a diagnostic trace.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := translate(err)

		if appErr.Status >= fiber.StatusInternalServerError {
			log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		}

		body := fiber.Map{
			"message": appErr.Message,
			"code":    appErr.Code,
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		if !production && appErr.Status >= fiber.StatusInternalServerError {
			body["stack"] = fmt.Sprintf("%v\n%s", err, debug.Stack())
		}

		return c.Status(appErr.Status).JSON(fiber.Map{
			"success": false,
			"error":   body,
		})
	}
}

func translate(err error) *apperr.Error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return apperr.ProductNotFound()
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return apperr.DuplicateField("email")
	case errors.Is(err, repositories.ErrUserNotFound):
		// Users are only read via /auth/me; a token whose subject no
		// longer exists is an invalid token, not a 404.
		return apperr.InvalidToken()
	case errors.Is(err, services.ErrInvalidCredentials):
		return apperr.InvalidCredentials()
	case errors.Is(err, services.ErrTokenExpired):
		return apperr.TokenExpired()
	case errors.Is(err, services.ErrTokenInvalid):
		return apperr.InvalidToken()
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code < fiber.StatusInternalServerError {
			return apperr.New(apperr.CodeRequest, fiberErr.Code, fiberErr.Message)
		}
		return apperr.New(apperr.CodeInternal, fiberErr.Code, fiberErr.Message)
	}
	return apperr.Internal(err)
}
