package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// assessmentOptionView is one selectable option, stripped of correctness
type assessmentOptionView struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// assessmentQuestionView is the canonical question shape served to takers.
// Both storage variants normalize to it, so clients and the scorer never
// care which representation a course uses.
type assessmentQuestionView struct {
	Key      string                 `json:"key"`
	Prompt   string                 `json:"prompt"`
	ImageURL string                 `json:"image_url,omitempty"`
	Options  []assessmentOptionView `json:"options"`
}

// loadCanonicalQuestions normalizes an assessment's questions to the
// canonical view plus an answer key mapping question key to the correct
// submission value. Structured questions key by row id and answer by
// choice id; embedded questions key by list position and answer by
// option text, so duplicate prompts never collapse into one entry.
func loadCanonicalQuestions(db *gorm.DB, assessment *courseModels.Assessment) ([]assessmentQuestionView, map[string]string, error) {
	if assessment.Variant() == courseModels.VariantEmbedded {
		var questions []courseModels.EmbeddedQuestion
		if err := json.Unmarshal(assessment.QuestionsData, &questions); err != nil {
			return nil, nil, err
		}

		views := make([]assessmentQuestionView, len(questions))
		answerKey := make(map[string]string, len(questions))
		for i, q := range questions {
			options := make([]assessmentOptionView, len(q.Options))
			for j, opt := range q.Options {
				options[j] = assessmentOptionView{Key: opt, Text: opt}
			}
			questionKey := embeddedQuestionKey(i)
			views[i] = assessmentQuestionView{
				Key:      questionKey,
				Prompt:   q.Question,
				ImageURL: q.ImageURL,
				Options:  options,
			}
			answerKey[questionKey] = q.CorrectAnswer
		}
		return views, answerKey, nil
	}

	var questions []courseModels.Question
	err := db.Where("assessment_id = ?", assessment.ID).
		Order("order_index asc, id asc").
		Find(&questions).Error
	if err != nil {
		return nil, nil, err
	}

	views := make([]assessmentQuestionView, len(questions))
	answerKey := make(map[string]string, len(questions))
	for i, q := range questions {
		var choices []courseModels.Choice
		err := db.Where("question_id = ?", q.ID).
			Order("order_index asc, id asc").
			Find(&choices).Error
		if err != nil {
			return nil, nil, err
		}

		questionKey := strconv.FormatUint(uint64(q.ID), 10)
		options := make([]assessmentOptionView, len(choices))
		for j, choice := range choices {
			choiceKey := strconv.FormatUint(uint64(choice.ID), 10)
			options[j] = assessmentOptionView{Key: choiceKey, Text: choice.Text}
			if choice.IsCorrect && answerKey[questionKey] == "" {
				answerKey[questionKey] = choiceKey
			}
		}
		views[i] = assessmentQuestionView{
			Key:     questionKey,
			Prompt:  q.Prompt,
			Options: options,
		}
	}
	return views, answerKey, nil
}

// scoreSubmission grades answers against an answer key. Unanswered
// questions count as incorrect. The score is the percentage of correct
// answers rounded to the nearest integer; an empty key scores zero.
func scoreSubmission(answerKey map[string]string, answers map[string]string) (score, correct, total int) {
	total = len(answerKey)
	if total == 0 {
		return 0, 0, 0
	}
	for key, want := range answerKey {
		if answers[key] == want {
			correct++
		}
	}
	score = int(math.Round(float64(correct) * 100 / float64(total)))
	return score, correct, total
}

// embeddedQuestionKey is the stable submission key for an embedded
// question at a given list position
func embeddedQuestionKey(index int) string {
	return fmt.Sprintf("question_%d", index)
}

// scoreEmbeddedQuiz grades a free-standing embedded question list keyed
// by position, answered by option text. Module quizzes use the same shape.
func scoreEmbeddedQuiz(questions []courseModels.EmbeddedQuestion, answers map[string]string) int {
	answerKey := make(map[string]string, len(questions))
	for i, q := range questions {
		answerKey[embeddedQuestionKey(i)] = q.CorrectAnswer
	}
	score, _, _ := scoreSubmission(answerKey, answers)
	return score
}

// GetAssessment serves the course assessment to an enrolled learner with
// all correctness information stripped.
func GetAssessment(c *fiber.Ctx) error {
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

	if _, err := activeEnrollment(db, userID, courseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var assessment courseModels.Assessment
	if err := db.Where("course_id = ?", courseID).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found for this course!", nil)
	}

	questions, _, err := loadCanonicalQuestions(db, &assessment)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment fetched successfully!", fiber.Map{
		"assessment": fiber.Map{
			"id":            assessment.ID,
			"title":         assessment.Title,
			"passing_score": assessment.PassingScore,
		},
		"questions": questions,
	})
}

// SubmitAssessment grades a submission and records the attempt. Attempts
// are append-only, but once an enrollment has a passing attempt further
// submissions are rejected without recording anything. A first pass
// completes the enrollment and issues the certificate.
func SubmitAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		Answers map[string]string `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	enrollment, err := activeEnrollment(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var assessment courseModels.Assessment
	if err := db.Where("course_id = ?", courseID).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found for this course!", nil)
	}

	var passedResult courseModels.AssessmentResult
	if err := db.Where("enrollment_id = ? AND passed = ?", enrollment.ID, true).First(&passedResult).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assessment already passed!", nil)
	}

	_, answerKey, err := loadCanonicalQuestions(db, &assessment)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	score, correct, total := scoreSubmission(answerKey, reqData.Answers)
	passed := total > 0 && score >= assessment.PassingScore

	answersJSON, _ := json.Marshal(reqData.Answers)
	result := courseModels.AssessmentResult{
		UserID:       userID,
		AssessmentID: assessment.ID,
		EnrollmentID: enrollment.ID,
		Score:        score,
		Answers:      answersJSON,
		Passed:       passed,
		CompletedAt:  time.Now(),
	}
	if err := db.Create(&result).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record submission!", nil)
	}

	response := fiber.Map{
		"score":         score,
		"correct":       correct,
		"total":         total,
		"passing_score": assessment.PassingScore,
		"passed":        passed,
	}

	if passed {
		now := time.Now()
		db.Model(&courseModels.Enrollment{}).
			Where("id = ? AND completed = ?", enrollment.ID, false).
			Updates(map[string]interface{}{"completed": true, "completed_at": now})
		enrollment.Completed = true
		enrollment.CompletedAt = &now

		certificate, err := issueCertificate(db, enrollment)
		if err != nil {
			// Issuance is idempotent; the certificate lookup retries it
			// for a completed enrollment
			log.Printf("[ASSESSMENT] Certificate issuance failed for enrollment %d: %v", enrollment.ID, err)
		} else {
			response["certificate"] = certificate

			var crs courseModels.Course
			if db.Where("id = ?", enrollment.CourseID).First(&crs).Error == nil {
				utils.SendCertificateEmail(user.Email, user.Name, crs.Title, certificate.CertificateNumber)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment submitted successfully!", response)
}

// GetAssessmentResults lists the caller's attempts for a course, newest first
func GetAssessmentResults(c *fiber.Ctx) error {
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

	var results []courseModels.AssessmentResult
	if err := db.Where("enrollment_id = ?", enrollment.ID).Order("created_at desc").Find(&results).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment results fetched successfully!", results)
}
