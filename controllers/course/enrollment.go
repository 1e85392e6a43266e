package controllers

import (
	commissionController "learnhub/controllers/commission"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EnrollInCourse creates a pending enrollment with a fresh access key.
// The commission ledger stays untouched until the payment completes.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	// Check the key against the store before committing; the unique
	// column is the backstop
	var accessKey string
	for attempt := 0; attempt < 5; attempt++ {
		key, err := utils.GenerateAccessKey()
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
		var count int64
		database.Database.Db.Model(&courseModels.Enrollment{}).Where("access_key = ?", key).Count(&count)
		if count == 0 {
			accessKey = key
			break
		}
	}
	if accessKey == "" {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:        userID,
		CourseID:      uint(courseID),
		AccessKey:     accessKey,
		PaymentRef:    uuid.NewString(),
		PaymentStatus: courseModels.PaymentPending,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment created, awaiting payment!", fiber.Map{
		"enrollment":  enrollment,
		"payment_ref": enrollment.PaymentRef,
	})
}

// ConfirmPayment marks a pending enrollment as paid. Completing the payment
// is the single trigger for commission posting and access key delivery;
// both happen exactly once per enrollment.
func ConfirmPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", enrollmentID, userID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.PaymentStatus == courseModels.PaymentCompleted {
		// Posting is idempotent per (enrollment, role), so re-confirming
		// records any entries a previous confirm failed to post
		if err := commissionController.PostForEnrollment(db, &enrollment); err != nil {
			log.Printf("[ENROLLMENT] Commission posting failed for enrollment %d: %v", enrollment.ID, err)
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already confirmed!", nil)
	}
	if enrollment.PaymentStatus == courseModels.PaymentFailed {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment payment has failed, please enroll again!", nil)
	}

	// Guard the transition so two concurrent confirms cannot both win
	result := db.Model(&courseModels.Enrollment{}).
		Where("id = ? AND payment_status = ?", enrollment.ID, courseModels.PaymentPending).
		Update("payment_status", courseModels.PaymentCompleted)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to confirm payment!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already confirmed!", nil)
	}
	enrollment.PaymentStatus = courseModels.PaymentCompleted

	if err := commissionController.PostForEnrollment(db, &enrollment); err != nil {
		// The payment stays confirmed; re-confirming this enrollment
		// retries the idempotent posting.
		log.Printf("[ENROLLMENT] Commission posting failed for enrollment %d: %v", enrollment.ID, err)
	}

	var crs courseModels.Course
	if err := db.Where("id = ?", enrollment.CourseID).First(&crs).Error; err == nil {
		utils.SendAccessKeyEmail(user.Email, user.Name, crs.Title, enrollment.AccessKey)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment confirmed successfully!", enrollment)
}

// GetEnrollments lists the authenticated user's enrollments
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND is_deleted = ?", userID, false)

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}
