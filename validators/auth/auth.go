package authValidator

import (
	"learnhub/middleware"
	"learnhub/models"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Phone    string `json:"phone"`
			Password string `json:"password"`
			Role     string `json:"role"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}

		if strings.TrimSpace(reqData.Email) == "" {
			errors["email"] = "Email is required!"
		} else if !strings.Contains(reqData.Email, "@") {
			errors["email"] = "Email is invalid!"
		}

		if len(reqData.Password) < 6 {
			errors["password"] = "Password must be at least 6 characters!"
		}

		// Only learner and mentor accounts self-register; privileged
		// roles are provisioned out of band
		if reqData.Role != "" && reqData.Role != models.RoleStudent && reqData.Role != models.RoleMentor {
			errors["role"] = "Role must be STUDENT or MENTOR!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}
