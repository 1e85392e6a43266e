package sandboxRoutes

import (
	sandboxControllers "learnhub/controllers/sandbox"
	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupSandboxRoutes(app *fiber.App) {
	sandboxGroup := app.Group("/sandbox")

	sandboxGroup.Post("/execute", middleware.JWTMiddleware, sandboxControllers.ExecuteCode)
}
