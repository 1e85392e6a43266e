package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupMentorRoutes sets up content management routes. Mentors manage
// their own courses; admins manage any course.
func SetupMentorRoutes(app *fiber.App) {
	mentorGroup := app.Group("/mentor", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleMentor, models.RoleAdmin))

	mentorGroup.Get("/courses", controllers.GetMentorCourses)
	mentorGroup.Post("/course", validators.CourseBody(), controllers.CreateCourse)
	mentorGroup.Put("/course/:id", validators.CourseID(), validators.CourseBody(), controllers.UpdateCourse)

	mentorGroup.Post("/course/:id/module", validators.CourseID(), validators.ModuleBody(), controllers.CreateModule)
	mentorGroup.Put("/course/:id/module/:moduleId", validators.CourseID(), validators.ModuleID(), validators.ModuleBody(), controllers.UpdateModule)
	mentorGroup.Delete("/course/:id/module/:moduleId", validators.CourseID(), validators.ModuleID(), controllers.DeleteModule)

	mentorGroup.Post("/course/:id/assessment", validators.CourseID(), validators.AssessmentBody(), controllers.UpsertAssessment)
}
