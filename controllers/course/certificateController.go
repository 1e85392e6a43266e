package controllers

import (
	"errors"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotPassed means certificate issuance was attempted for an enrollment
// that has not passed the assessment.
var ErrNotPassed = errors.New("enrollment has not passed the assessment")

// issueCertificate creates the completion certificate for a passed
// enrollment, or returns the existing one. The unique enrollment index
// makes concurrent issuance collapse to a single certificate.
func issueCertificate(db *gorm.DB, enrollment *courseModels.Enrollment) (*courseModels.Certificate, error) {
	if !enrollment.Completed {
		return nil, ErrNotPassed
	}

	var existing courseModels.Certificate
	if err := db.Where("enrollment_id = ?", enrollment.ID).First(&existing).Error; err == nil {
		return &existing, nil
	}

	// Check the number against the store before committing; the unique
	// column is the backstop
	var number string
	for attempt := 0; attempt < 5; attempt++ {
		candidate, err := utils.GenerateCertificateNumber()
		if err != nil {
			return nil, err
		}
		var count int64
		db.Model(&courseModels.Certificate{}).Where("certificate_number = ?", candidate).Count(&count)
		if count == 0 {
			number = candidate
			break
		}
	}
	if number == "" {
		return nil, errors.New("could not generate a unique certificate number")
	}

	certificate := courseModels.Certificate{
		UserID:            enrollment.UserID,
		CourseID:          enrollment.CourseID,
		EnrollmentID:      enrollment.ID,
		CertificateNumber: number,
		IssuedAt:          time.Now(),
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}},
		DoNothing: true,
	}).Create(&certificate).Error
	if err != nil {
		return nil, err
	}

	// Refetch so a concurrent winner's row is the one returned
	var issued courseModels.Certificate
	if err := db.Where("enrollment_id = ?", enrollment.ID).First(&issued).Error; err != nil {
		return nil, err
	}
	return &issued, nil
}

// certificateForCourse returns the user's certificate for a course. When
// the enrollment passed but no row exists (issuance failed at pass time),
// the idempotent issuance runs again here, so a transient store failure
// never strands a completed enrollment without a certificate.
func certificateForCourse(db *gorm.DB, userID uint, courseID int) (*courseModels.Certificate, error) {
	var certificate courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&certificate).Error; err == nil {
		return &certificate, nil
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return nil, err
	}

	return issueCertificate(db, &enrollment)
}

// GetCertificate returns the caller's certificate for a course
func GetCertificate(c *fiber.Ctx) error {
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

	certificate, err := certificateForCourse(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found! Pass the course assessment first.", nil)
	}

	var crs courseModels.Course
	db.Where("id = ?", courseID).First(&crs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", fiber.Map{
		"certificate":  certificate,
		"course_title": crs.Title,
		"student_name": user.Name,
	})
}

// GetUserCertificates lists every certificate the caller has earned
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}

// VerifyCertificate is the public lookup by certificate number
func VerifyCertificate(c *fiber.Ctx) error {
	number := c.Params("number")
	if number == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	db := database.Database.Db

	var certificate courseModels.Certificate
	if err := db.Where("certificate_number = ?", number).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var user models.User
	db.Where("id = ?", certificate.UserID).First(&user)

	var crs courseModels.Course
	db.Where("id = ?", certificate.CourseID).First(&crs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", fiber.Map{
		"certificate_number": certificate.CertificateNumber,
		"issued_at":          certificate.IssuedAt,
		"student_name":       user.Name,
		"course_title":       crs.Title,
	})
}
