package courseValidator

import (
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// paramID parses a positive integer route parameter
func paramID(c *fiber.Ctx, name string) (int, bool) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func ModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok := paramID(c, "moduleId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}

		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", enrollmentID)
		return c.Next()
	}
}

var validLevels = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

func CourseBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string          `json:"title"`
			Description   string          `json:"description"`
			Price         decimal.Decimal `json:"price"`
			Level         string          `json:"level"`
			DurationHours int             `json:"duration_hours"`
			ThumbnailURL  string          `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.Price.IsNegative() {
			errors["price"] = "Price must not be negative!"
		}

		if reqData.Level == "" {
			reqData.Level = "beginner"
		} else if !validLevels[reqData.Level] {
			errors["level"] = "Level must be beginner, intermediate or advanced!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

var validContentTypes = map[string]bool{
	courseModels.ContentText:  true,
	courseModels.ContentVideo: true,
	courseModels.ContentCode:  true,
}

func ModuleBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if !validContentTypes[reqData.ContentType] {
			errors["content_type"] = "Content type must be text, video or code!"
		}

		if reqData.ContentType == courseModels.ContentVideo && strings.TrimSpace(reqData.VideoURL) == "" {
			errors["video_url"] = "Video URL is required for video modules!"
		}

		for _, q := range reqData.Quiz {
			if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 || strings.TrimSpace(q.CorrectAnswer) == "" {
				errors["quiz"] = "Each quiz question needs a prompt, at least two options and a correct answer!"
				break
			}
			if !containsOption(q.Options, q.CorrectAnswer) {
				errors["quiz"] = "The correct answer must be one of the options!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}

func AssessmentBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.PassingScore < 0 || reqData.PassingScore > 100 {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}

		hasEmbedded := len(reqData.EmbeddedQuestions) > 0
		hasStructured := len(reqData.Questions) > 0

		if hasEmbedded && hasStructured {
			errors["questions"] = "Provide either embedded_questions or questions, not both!"
		}
		if !hasEmbedded && !hasStructured {
			errors["questions"] = "Assessment needs at least one question!"
		}

		for _, q := range reqData.EmbeddedQuestions {
			if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 || strings.TrimSpace(q.CorrectAnswer) == "" {
				errors["embedded_questions"] = "Each question needs a prompt, at least two options and a correct answer!"
				break
			}
			if !containsOption(q.Options, q.CorrectAnswer) {
				errors["embedded_questions"] = "The correct answer must be one of the options!"
				break
			}
		}

		for _, q := range reqData.Questions {
			if strings.TrimSpace(q.Prompt) == "" || len(q.Choices) < 2 {
				errors["questions"] = "Each question needs a prompt and at least two choices!"
				break
			}
			correctCount := 0
			for _, ch := range q.Choices {
				if ch.IsCorrect {
					correctCount++
				}
			}
			if correctCount != 1 {
				errors["questions"] = "Each question needs exactly one correct choice!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssessment", reqData)
		return c.Next()
	}
}

func SubmissionBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers map[string]string `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Answers == nil {
			reqData.Answers = map[string]string{}
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}
