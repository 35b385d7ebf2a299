package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dobosmarton/gaffer-app/internal/pkg/identity"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usercontext"
)

// RequireUser resolves the bearer token on the request against the auth
// service and stores the user ID in the request context. Requests without a
// valid token get a 401 before any handler runs.
func RequireUser(resolver *identity.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid Authorization header",
			})
		}

		user, err := resolver.ResolveUser(c.Context(), token)
		if err != nil {
			log.Warnf("[Auth] Token verification failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		usercontext.SetUserID(c, user.ID)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
