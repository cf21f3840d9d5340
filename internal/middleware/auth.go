// Package middleware provides the Fiber middleware of the API.
package middleware

import (
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// TokenHeader is the header the web client sends its token in.
const TokenHeader = "x-auth-token"

// UserIDLocal is the fiber locals key holding the authenticated user id.
const UserIDLocal = "userID"

// Auth failure messages.
const (
	MsgNoToken      = "No token, authorization denied"
	MsgInvalidToken = "Token is not valid"
)

// TokenVerifier validates a token and returns the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthRequired rejects requests without a valid token. The token is read
// from x-auth-token, falling back to "Authorization: Bearer".
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(MsgNoToken))
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(MsgInvalidToken))
		}

		c.Locals(UserIDLocal, userID)
		c.SetUserContext(observability.WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// UserID returns the authenticated user id, or "" on public routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocal).(string)
	return id
}

func extractToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(TokenHeader)); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
