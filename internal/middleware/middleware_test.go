package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/apperr"
	"gudang/internal/middleware"
	"gudang/internal/repositories"
	"gudang/internal/services"
)

// errorToJSON is a minimal error handler for middleware tests; the full
// translation lives in the handlers package.
func errorToJSON(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"code": "INTERNAL_ERROR"})
	}
	return c.Status(appErr.Status).JSON(fiber.Map{
		"code":    string(appErr.Code),
		"details": appErr.Details,
	})
}

type errorResponse struct {
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details"`
}

func runRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, errorResponse) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestAuthRequired(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, "middleware_test_secret")

	user, token, err := authService.Register(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: errorToJSON})
	app.Get("/protected", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"code": "OK", "userID": middleware.UserID(c)})
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			UserID string `json:"userID"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, user.ID, body.UserID)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, body := runRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "NO_TOKEN", body.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		resp, body := runRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "NO_TOKEN", body.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		resp, body := runRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_TOKEN", body.Code)
	})
}

type gatePayload struct {
	Name  string `json:"name" validate:"required,max=10"`
	Count int    `json:"count" query:"count" validate:"gte=0"`
}

func (p *gatePayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

func newGateApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorToJSON})
	app.Post("/body",
		middleware.ValidateBody(func() interface{} { return new(gatePayload) }),
		func(c *fiber.Ctx) error {
			return c.JSON(middleware.Body(c))
		},
	)
	app.Get("/query",
		middleware.ValidateQuery(func() interface{} { return new(gatePayload) }),
		func(c *fiber.Ctx) error {
			return c.JSON(middleware.Query(c))
		},
	)
	return app
}

func TestValidateBody(t *testing.T) {
	app := newGateApp()

	t.Run("valid body is normalized and stored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/body",
			bytes.NewReader([]byte(`{"name":"  Widget  ","count":3}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body gatePayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Widget", body.Name)
		assert.Equal(t, 3, body.Count)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/body",
			bytes.NewReader([]byte(`{"name":`)))
		req.Header.Set("Content-Type", "application/json")

		resp, body := runRequest(t, app, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "body", body.Details[0].Field)
	})

	t.Run("all violations reported at once", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/body",
			bytes.NewReader([]byte(`{"name":"","count":-1}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, body := runRequest(t, app, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		assert.Len(t, body.Details, 2)
	})
}

func TestValidateQuery(t *testing.T) {
	app := newGateApp()

	t.Run("valid query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/query?name=Widget&count=2", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-numeric value for numeric parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/query?name=Widget&count=abc", nil)
		resp, body := runRequest(t, app, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "query", body.Details[0].Field)
	})
}
