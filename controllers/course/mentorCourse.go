package controllers

import (
	"encoding/json"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// manageableCourse loads a course the caller may edit: admins edit any
// course, mentors only their own.
func manageableCourse(db *gorm.DB, courseID int, userID uint, role string) (*courseModels.Course, error) {
	var crs courseModels.Course
	query := db.Where("id = ? AND is_deleted = ?", courseID, false)
	if role == models.RoleMentor {
		query = query.Where("mentor_id = ?", userID)
	}
	if err := query.First(&crs).Error; err != nil {
		return nil, err
	}
	return &crs, nil
}

// CreateCourse registers a new course owned by the calling mentor
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title         string          `json:"title"`
		Description   string          `json:"description"`
		Price         decimal.Decimal `json:"price"`
		Level         string          `json:"level"`
		DurationHours int             `json:"duration_hours"`
		ThumbnailURL  string          `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	crs := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		MentorID:     &userID,
		Price:        reqData.Price,
		Level:        reqData.Level,
		ThumbnailURL: reqData.ThumbnailURL,
		IsActive:     true,
	}
	if reqData.DurationHours > 0 {
		crs.DurationHours = reqData.DurationHours
	}

	if err := database.Database.Db.Create(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", crs)
}

// UpdateCourse edits course metadata
func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title         string          `json:"title"`
		Description   string          `json:"description"`
		Price         decimal.Decimal `json:"price"`
		Level         string          `json:"level"`
		DurationHours int             `json:"duration_hours"`
		ThumbnailURL  string          `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	crs, err := manageableCourse(db, courseID, userID, role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	crs.Title = reqData.Title
	crs.Description = reqData.Description
	crs.Price = reqData.Price
	crs.Level = reqData.Level
	crs.ThumbnailURL = reqData.ThumbnailURL
	if reqData.DurationHours > 0 {
		crs.DurationHours = reqData.DurationHours
	}

	if err := db.Save(crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", crs)
}

// CreateModule appends a lesson to a course. When no order index is given
// the module lands after the current last one, with gaps of ten so later
// insertions between modules stay cheap.
func CreateModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title          string                          `json:"title"`
		OrderIndex     *int                            `json:"order_index"`
		ContentType    string                          `json:"content_type"`
		Content        string                          `json:"content"`
		VideoURL       string                          `json:"video_url"`
		Language       string                          `json:"language"`
		StarterCode    string                          `json:"starter_code"`
		ExpectedOutput string                          `json:"expected_output"`
		Quiz           []courseModels.EmbeddedQuestion `json:"quiz"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	crs, err := manageableCourse(db, courseID, userID, role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	orderIndex := 0
	if reqData.OrderIndex != nil {
		orderIndex = *reqData.OrderIndex
	} else {
		var maxOrder *int
		db.Model(&courseModels.Module{}).
			Where("course_id = ? AND is_deleted = ?", crs.ID, false).
			Select("MAX(order_index)").
			Scan(&maxOrder)
		if maxOrder != nil {
			orderIndex = *maxOrder + 10
		}
	}

	module := courseModels.Module{
		CourseID:       crs.ID,
		Title:          reqData.Title,
		OrderIndex:     orderIndex,
		ContentType:    reqData.ContentType,
		Content:        reqData.Content,
		VideoURL:       reqData.VideoURL,
		StarterCode:    reqData.StarterCode,
		ExpectedOutput: reqData.ExpectedOutput,
	}
	if reqData.Language != "" {
		module.Language = reqData.Language
	}
	if len(reqData.Quiz) > 0 {
		quizJSON, err := json.Marshal(reqData.Quiz)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz data!", nil)
		}
		module.QuizData = quizJSON
	}

	if err := db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// UpdateModule edits a lesson in place. The order index is only changed
// when the payload carries one.
func UpdateModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title          string                          `json:"title"`
		OrderIndex     *int                            `json:"order_index"`
		ContentType    string                          `json:"content_type"`
		Content        string                          `json:"content"`
		VideoURL       string                          `json:"video_url"`
		Language       string                          `json:"language"`
		StarterCode    string                          `json:"starter_code"`
		ExpectedOutput string                          `json:"expected_output"`
		Quiz           []courseModels.EmbeddedQuestion `json:"quiz"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	crs, err := manageableCourse(db, courseID, userID, role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, crs.ID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found in this course!", nil)
	}

	module.Title = reqData.Title
	module.ContentType = reqData.ContentType
	module.Content = reqData.Content
	module.VideoURL = reqData.VideoURL
	module.StarterCode = reqData.StarterCode
	module.ExpectedOutput = reqData.ExpectedOutput
	if reqData.OrderIndex != nil {
		module.OrderIndex = *reqData.OrderIndex
	}
	if reqData.Language != "" {
		module.Language = reqData.Language
	}
	if len(reqData.Quiz) > 0 {
		quizJSON, err := json.Marshal(reqData.Quiz)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz data!", nil)
		}
		module.QuizData = quizJSON
	}

	if err := db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule soft-deletes a lesson. Completion records for it remain,
// but it drops out of ordering and progress totals immediately.
func DeleteModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	db := database.Database.Db

	crs, err := manageableCourse(db, courseID, userID, role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, crs.ID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found in this course!", nil)
	}

	if err := db.Model(&module).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// UpsertAssessment creates or replaces a course's assessment in either
// representation: embedded questions inline, or structured question and
// choice rows. Supplying both is rejected by the validator.
func UpsertAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedAssessment").(*struct {
		Title             string                          `json:"title"`
		PassingScore      int                             `json:"passing_score"`
		EmbeddedQuestions []courseModels.EmbeddedQuestion `json:"embedded_questions"`
		Questions         []struct {
			Prompt  string `json:"prompt"`
			Choices []struct {
				Text      string `json:"text"`
				IsCorrect bool   `json:"is_correct"`
			} `json:"choices"`
		} `json:"questions"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	crs, err := manageableCourse(db, courseID, userID, role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	passingScore := reqData.PassingScore
	if passingScore <= 0 {
		passingScore = 70
	}

	tx := db.Begin()

	// Replace semantics: drop the previous assessment and its questions
	var existing courseModels.Assessment
	if err := tx.Where("course_id = ?", crs.ID).First(&existing).Error; err == nil {
		var questionIDs []uint
		tx.Model(&courseModels.Question{}).Where("assessment_id = ?", existing.ID).Pluck("id", &questionIDs)
		if len(questionIDs) > 0 {
			tx.Where("question_id IN ?", questionIDs).Delete(&courseModels.Choice{})
		}
		tx.Where("assessment_id = ?", existing.ID).Delete(&courseModels.Question{})
		tx.Delete(&existing)
	}

	assessment := courseModels.Assessment{
		CourseID:     crs.ID,
		Title:        reqData.Title,
		PassingScore: passingScore,
	}
	if len(reqData.EmbeddedQuestions) > 0 {
		questionsJSON, err := json.Marshal(reqData.EmbeddedQuestions)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid questions data!", nil)
		}
		assessment.QuestionsData = questionsJSON
	}

	if err := tx.Create(&assessment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save assessment!", nil)
	}

	for i, q := range reqData.Questions {
		question := courseModels.Question{
			AssessmentID: assessment.ID,
			Prompt:       q.Prompt,
			OrderIndex:   (i + 1) * 10,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save assessment!", nil)
		}
		for j, ch := range q.Choices {
			choice := courseModels.Choice{
				QuestionID: question.ID,
				Text:       ch.Text,
				IsCorrect:  ch.IsCorrect,
				OrderIndex: (j + 1) * 10,
			}
			if err := tx.Create(&choice).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save assessment!", nil)
			}
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assessment saved successfully!", assessment)
}

// GetMentorCourses lists the calling mentor's own courses
func GetMentorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("mentor_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}
