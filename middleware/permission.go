package middleware

import (
	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRoles returns a middleware that allows the request through only
// when the authenticated user carries one of the given platform roles.
// The role check happens once here at the route boundary; handlers never
// re-check roles themselves.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		var user models.User
		err := database.Database.Db.Where("id = ? AND is_deleted = false", userID).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
			}
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}

		if !allowed[user.Role] {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}

		c.Locals("userRole", user.Role)
		return c.Next()
	}
}
