package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gudang/internal/middleware"
	"gudang/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes. auth is the
// guard applied to routes that require a bearer token.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register",
		middleware.ValidateBody(func() interface{} { return new(RegisterRequest) }),
		h.HandleRegister,
	)
	authRoutes.Post("/login",
		middleware.ValidateBody(func() interface{} { return new(LoginRequest) }),
		h.HandleLogin,
	)
	authRoutes.Get("/me", auth, h.HandleMe)
}

// HandleRegister creates a new account and returns it with a token.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	req := middleware.Body(c).(*RegisterRequest)

	user, token, err := h.authService.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respondData(c, fiber.StatusCreated, fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogin authenticates a user and returns it with a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	req := middleware.Body(c).(*LoginRequest)

	user, token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respondData(c, fiber.StatusOK, fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleMe returns the authenticated user's public profile.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return respondData(c, fiber.StatusOK, user)
}
