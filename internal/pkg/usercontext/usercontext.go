package usercontext

import "github.com/gofiber/fiber/v2"

const keyUserID = "USER_ID"

// SetUserID stores the verified user ID for the current request
func SetUserID(c *fiber.Ctx, userID string) {
	c.Locals(keyUserID, userID)
}

// GetUserID returns the verified user ID, or empty string if the request is
// not authenticated.
func GetUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(keyUserID).(string); ok {
		return id
	}
	return ""
}
