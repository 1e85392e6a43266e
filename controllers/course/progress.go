package controllers

import (
	"encoding/json"
	"fmt"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderedModules loads a course's modules in consumption order.
// OrderIndex ascending, ties broken by creation order.
func orderedModules(db *gorm.DB, courseID uint) ([]courseModels.Module, error) {
	var modules []courseModels.Module
	err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").
		Find(&modules).Error
	return modules, err
}

// completedModuleIDs returns the enrollment's completed-module set
func completedModuleIDs(db *gorm.DB, enrollmentID uint) (map[uint]bool, error) {
	var completions []courseModels.ModuleCompletion
	if err := db.Where("enrollment_id = ?", enrollmentID).Find(&completions).Error; err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(completions))
	for _, completion := range completions {
		completed[completion.ModuleID] = true
	}
	return completed, nil
}

// resolveCurrentModule picks the module a learner lands on. The frontier is
// the first module in order that is not yet completed. A request for a
// completed module or the frontier itself is honored; anything past the
// frontier is locked and falls back to the frontier. With requestedID zero
// the frontier is served, or the last module once everything is done.
func resolveCurrentModule(modules []courseModels.Module, completed map[uint]bool, requestedID uint) (*courseModels.Module, bool) {
	if len(modules) == 0 {
		return nil, false
	}

	frontier := &modules[len(modules)-1]
	for i := range modules {
		if !completed[modules[i].ID] {
			frontier = &modules[i]
			break
		}
	}

	if requestedID == 0 {
		return frontier, false
	}

	for i := range modules {
		if modules[i].ID != requestedID {
			continue
		}
		if completed[requestedID] || frontier.ID == requestedID {
			return &modules[i], false
		}
		return frontier, true
	}

	// Unknown module id, treat like no request
	return frontier, false
}

// progressPercentage is the floor of completed/total in percent
func progressPercentage(completedCount, total int) int {
	if total == 0 {
		return 0
	}
	return completedCount * 100 / total
}

// activeEnrollment loads the caller's paid enrollment for a course. A
// pending or failed payment does not grant content access.
func activeEnrollment(db *gorm.DB, userID uint, courseID int) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	if enrollment.PaymentStatus != courseModels.PaymentCompleted {
		return nil, fmt.Errorf("payment not completed")
	}
	return &enrollment, nil
}

// MarkModuleComplete adds a module to the enrollment's completed set.
// Re-completing a module is a harmless no-op. Modules carrying a quiz may
// include answers, which are scored and stored on the completion record.
func MarkModuleComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	db := database.Database.Db

	enrollment, err := activeEnrollment(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found in this course!", nil)
	}

	completion := courseModels.ModuleCompletion{
		EnrollmentID: enrollment.ID,
		ModuleID:     module.ID,
	}

	// Optional quiz answers for quiz-bearing modules
	if len(module.QuizData) > 0 {
		reqData := new(struct {
			Answers map[string]string `json:"answers"`
		})
		if err := c.BodyParser(reqData); err == nil && len(reqData.Answers) > 0 {
			var questions []courseModels.EmbeddedQuestion
			if err := json.Unmarshal(module.QuizData, &questions); err == nil {
				score := scoreEmbeddedQuiz(questions, reqData.Answers)
				completion.QuizScore = &score
				answersJSON, _ := json.Marshal(reqData.Answers)
				completion.QuizAnswers = answersJSON
			}
		}
	}

	// Insert-or-ignore keeps concurrent completions atomic
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(&completion).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark module complete!", nil)
	}

	modules, err := orderedModules(db, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}
	completed, err := completedModuleIDs(db, enrollment.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module marked as complete!", fiber.Map{
		"module_id":           module.ID,
		"quiz_score":          completion.QuizScore,
		"completed_modules":   len(completed),
		"total_modules":       len(modules),
		"progress_percentage": progressPercentage(len(completed), len(modules)),
	})
}

// CourseViewer serves the module a learner should see. Requesting a module
// past the frontier does not error: the response redirects to the frontier
// and flags the lock so clients can explain the bounce.
func CourseViewer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	requestedID := uint(c.QueryInt("module_id", 0))

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment, err := activeEnrollment(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	modules, err := orderedModules(db, crs.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}
	if len(modules) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course has no modules yet!", nil)
	}

	completed, err := completedModuleIDs(db, enrollment.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	current, locked := resolveCurrentModule(modules, completed, requestedID)

	// Previous and next in consumption order
	var prevID, nextID *uint
	for i := range modules {
		if modules[i].ID == current.ID {
			if i > 0 {
				prevID = &modules[i-1].ID
			}
			if i < len(modules)-1 {
				nextID = &modules[i+1].ID
			}
			break
		}
	}

	response := fiber.Map{
		"course": fiber.Map{
			"id":    crs.ID,
			"title": crs.Title,
		},
		"module":              current,
		"module_completed":    completed[current.ID],
		"locked_redirect":     locked,
		"previous_module_id":  prevID,
		"next_module_id":      nextID,
		"completed_modules":   len(completed),
		"total_modules":       len(modules),
		"progress_percentage": progressPercentage(len(completed), len(modules)),
	}
	if locked {
		response["redirect_url"] = fmt.Sprintf("/api/v1/course/%d/viewer?module_id=%d", crs.ID, current.ID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", response)
}

// GetProgress reports per-module completion and the overall state of an
// enrollment. Finishing every module and passing the assessment are
// reported separately; only the latter completes the enrollment.
func GetProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	enrollment, err := activeEnrollment(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	modules, err := orderedModules(db, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}
	completed, err := completedModuleIDs(db, enrollment.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	type moduleProgress struct {
		ModuleID  uint   `json:"module_id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}

	progress := make([]moduleProgress, len(modules))
	for i, mod := range modules {
		progress[i] = moduleProgress{
			ModuleID:  mod.ID,
			Title:     mod.Title,
			Completed: completed[mod.ID],
		}
	}

	var certificate courseModels.Certificate
	hasCertificate := db.Where("enrollment_id = ?", enrollment.ID).First(&certificate).Error == nil

	response := fiber.Map{
		"enrollment":            enrollment,
		"modules":               progress,
		"completed_modules":     len(completed),
		"total_modules":         len(modules),
		"progress_percentage":   progressPercentage(len(completed), len(modules)),
		"all_modules_completed": len(modules) > 0 && len(completed) >= len(modules),
		"course_completed":      enrollment.Completed,
	}
	if hasCertificate {
		response["certificate"] = certificate
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", response)
}
