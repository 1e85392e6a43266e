package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment and payment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	enrollmentGroup := app.Group("/enrollment")
	enrollmentGroup.Post("/:id/confirm-payment", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.ConfirmPayment)

	// Content consumption
	courseGroup.Get("/:id/viewer", middleware.JWTMiddleware, validators.CourseID(), controllers.CourseViewer)
	courseGroup.Post("/:id/module/:moduleId/complete", middleware.JWTMiddleware, validators.CourseID(), validators.ModuleID(), controllers.MarkModuleComplete)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetProgress)

	// Assessment
	courseGroup.Get("/:id/assessment", middleware.JWTMiddleware, validators.CourseID(), controllers.GetAssessment)
	courseGroup.Post("/:id/assessment/submit", middleware.JWTMiddleware, validators.CourseID(), validators.SubmissionBody(), controllers.SubmitAssessment)
	courseGroup.Get("/:id/assessment/results", middleware.JWTMiddleware, validators.CourseID(), controllers.GetAssessmentResults)

	// Certificates
	courseGroup.Get("/:id/certificate", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCertificate)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Public verification by certificate number
	app.Get("/certificate/verify/:number", controllers.VerifyCertificate)
}
