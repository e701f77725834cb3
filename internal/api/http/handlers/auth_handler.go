package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AuthHandler exposes login and current-user endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	limiter *auth.LoginRateLimiter
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, limiter *auth.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{auth: authService, limiter: limiter}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	if !h.limiter.Allow(c.UserContext(), req.Email+"|"+c.IP()) {
		return apperrors.NewRateLimited("too many login attempts")
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserResponse(user),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized(http.StatusText(http.StatusUnauthorized))
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}
