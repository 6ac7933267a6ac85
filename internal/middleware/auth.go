// Package middleware provides authentication and request logging middleware.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/auth"
	"microblog/internal/models"
	"microblog/internal/observability"
	"microblog/internal/repository"
)

// CurrentUserKey is the fiber.Ctx local under which the authenticated
// user is stored.
const CurrentUserKey = "currentUser"

// TokenAuth verifies bearer tokens and resolves them to the persisted
// user record.
type TokenAuth struct {
	secret   string
	userRepo repository.UserRepository
}

// NewTokenAuth creates token middleware bound to the signing secret.
func NewTokenAuth(secret string, userRepo repository.UserRepository) *TokenAuth {
	return &TokenAuth{secret: secret, userRepo: userRepo}
}

// RequireToken enforces authentication. On success the current user is
// re-fetched from storage (never trusted from the token alone), its
// last_seen timestamp is refreshed once for this request, and the user
// is stored in the request locals. Every failure is a uniform 401.
func (a *TokenAuth) RequireToken(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return models.RespondWithError(c, models.NewUnauthorizedError("Authorization header required"))
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid authorization header format"))
	}

	claims, err := auth.ParseToken(parts[1], a.secret)
	if err != nil {
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
	}

	user, err := a.userRepo.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		// The account may have been deleted since the token was issued.
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
	}

	if touchErr := a.userRepo.TouchLastSeen(c.UserContext(), user.ID); touchErr != nil {
		// last_seen is best effort; the request proceeds.
		observability.GlobalLogger.Warn("failed to refresh last_seen", "user_id", user.ID, "error", touchErr)
	}

	c.Locals(CurrentUserKey, user)
	return c.Next()
}

// CurrentUser returns the authenticated user set by RequireToken.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}
