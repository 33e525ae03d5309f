package middleware

import (
	"strings"

	"cardbase/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey is the context local under which the authenticated user is
// stored.
const CurrentUserKey = "currentUser"

// TokenResolver maps an opaque bearer token to its user.
type TokenResolver interface {
	ResolveAccessToken(token string) (*models.User, error)
}

// APIKeyResolver maps an API key to its user.
type APIKeyResolver interface {
	ResolveAPIKey(key string) (*models.User, error)
}

// RequireUser validates the Authorization bearer token and stores the
// resolved user in the request context. A missing or invalid token yields a
// 401 with an empty body; it never leaks whether anything exists.
func RequireUser(resolver TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).SendString("")
		}

		user, err := resolver.ResolveAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString("")
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// RequireAPIKey validates the Authorization header against the API key
// table. The share and link ingestion endpoints authenticate this way.
func RequireAPIKey(resolver APIKeyResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := bearerToken(c.Get(fiber.HeaderAuthorization))
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).SendString("")
		}

		user, err := resolver.ResolveAPIKey(key)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString("")
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
