package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists active courses for the catalog
func GetAllCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	level := c.Query("level")
	search := c.Query("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_active = ?", false, true)

	if level != "" {
		db = db.Where("level = ?", level)
	}
	if search != "" {
		db = db.Where("title LIKE ?", "%"+search+"%")
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns a course, its module outline and the caller's
// enrollment state. Module bodies stay out of the outline; the viewer is
// the only place content is served.
func GetCourseDetails(c *fiber.Ctx) error {
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

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	modules, err := orderedModules(db, crs.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course details!", nil)
	}

	type moduleOutline struct {
		ModuleID    uint   `json:"module_id"`
		Title       string `json:"title"`
		ContentType string `json:"content_type"`
		OrderIndex  int    `json:"order_index"`
		HasQuiz     bool   `json:"has_quiz"`
		Completed   bool   `json:"completed"`
	}

	outline := make([]moduleOutline, len(modules))
	for i, mod := range modules {
		outline[i] = moduleOutline{
			ModuleID:    mod.ID,
			Title:       mod.Title,
			ContentType: mod.ContentType,
			OrderIndex:  mod.OrderIndex,
			HasQuiz:     len(mod.QuizData) > 0,
		}
	}

	response := fiber.Map{
		"course":        crs,
		"modules":       outline,
		"total_modules": len(modules),
		"enrolled":      false,
	}

	var mentor models.User
	if crs.MentorID != nil && db.Where("id = ?", *crs.MentorID).First(&mentor).Error == nil {
		response["mentor_name"] = mentor.Name
	}

	var assessment courseModels.Assessment
	response["has_assessment"] = db.Where("course_id = ?", crs.ID).First(&assessment).Error == nil

	enrollment, err := activeEnrollment(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", response)
	}

	completed, err := completedModuleIDs(db, enrollment.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course details!", nil)
	}
	for i := range outline {
		outline[i].Completed = completed[outline[i].ModuleID]
	}

	response["enrolled"] = true
	response["enrollment"] = enrollment
	response["progress_percentage"] = progressPercentage(len(completed), len(modules))

	var certificate courseModels.Certificate
	if db.Where("enrollment_id = ?", enrollment.ID).First(&certificate).Error == nil {
		response["certificate"] = certificate
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", response)
}
