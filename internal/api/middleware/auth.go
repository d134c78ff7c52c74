package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/auth"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

const (
	// LocalUserID is the key to retrieve the user id from context.
	LocalUserID = "user_id"
	// LocalUser is the key to retrieve the full user from context.
	LocalUser = "user"
	// LocalToken is the key to retrieve the raw bearer token.
	LocalToken = "token"
)

type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) bool
}

type AuthDependencies struct {
	JWT         *auth.JWTService
	Users       UserLoader
	Revocations RevocationChecker
	Logger      *slog.Logger
}

// Auth validates the bearer JWT, rejects revoked sessions, and loads
// the user into the request context.
func Auth(deps AuthDependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		claims, err := deps.JWT.ValidateToken(token)
		if err != nil {
			return err
		}

		if deps.Revocations.IsRevoked(c.Context(), token) {
			return domain.ErrTokenInvalid
		}

		user, err := deps.Users.GetByID(c.Context(), claims.UserID)
		if err != nil {
			// Token is valid but the account is gone.
			return domain.ErrUnauthorized
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUser, user)
		c.Locals(LocalToken, token)

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetUserID retrieves the authenticated user id from the Fiber context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(LocalUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

// GetUser retrieves the authenticated user from the Fiber context.
func GetUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := c.Locals(LocalUser).(*domain.User)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// GetToken retrieves the raw bearer token from the Fiber context.
func GetToken(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals(LocalToken).(string)
	if !ok || token == "" {
		return "", domain.ErrUnauthorized
	}
	return token, nil
}
