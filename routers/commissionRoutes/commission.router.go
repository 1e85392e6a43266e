package commissionRoutes

import (
	commissionControllers "learnhub/controllers/commission"
	"learnhub/middleware"
	"learnhub/models"
	commissionValidators "learnhub/validators/commission"

	"github.com/gofiber/fiber/v2"
)

func SetupCommissionRoutes(app *fiber.App) {
	adminGroup := app.Group("/commission", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleOwner, models.RoleAdmin))

	adminGroup.Post("/rate", commissionValidators.SetRate(), commissionControllers.SetCommissionRate)
	adminGroup.Get("/rates", commissionControllers.GetCommissionRates)
	adminGroup.Get("/list", commissionControllers.ListCommissions)
	adminGroup.Post("/mark-paid", commissionValidators.MarkPaid(), commissionControllers.MarkCommissionsPaid)
	adminGroup.Post("/:id/cancel", commissionValidators.CommissionID(), commissionControllers.CancelCommission)

	// Mentors see only their own ledger
	mentorGroup := app.Group("/mentor/commissions", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleMentor))
	mentorGroup.Get("/", commissionControllers.GetMentorCommissions)
}
