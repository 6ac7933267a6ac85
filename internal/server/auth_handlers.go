package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/auth"
	"microblog/internal/models"
)

// Ping handles GET /api/ping, a connectivity check.
func (s *Server) Ping(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// IssueToken handles POST /api/tokens: Basic credentials in, bearer
// token out. Failures never reveal whether the username exists.
func (s *Server) IssueToken(c *fiber.Ctx) error {
	username, password, ok := parseBasicAuth(c)
	if !ok {
		return models.RespondWithError(c, models.NewUnauthorizedError("Basic credentials required"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), username, password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	ttl := time.Duration(s.config.TokenTTLSeconds) * time.Second
	token, err := auth.IssueToken(user, s.config.JWTSecret, ttl)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}
