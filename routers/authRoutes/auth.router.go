package authRoutes

import (
	authControllers "learnhub/controllers/auth"
	authValidators "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authControllers.Login)
}
