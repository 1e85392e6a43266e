package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assessment variants
const (
	VariantStructured = "structured"
	VariantEmbedded   = "embedded"
)

// Assessment is the pass/fail quiz tied to a course (at most one).
// Questions live in exactly one of two representations: normalized
// Question/Choice rows, or the QuestionsData JSON list of
// {question, options, correct_answer} records.
type Assessment struct {
	gorm.Model
	CourseID      uint           `json:"course_id" gorm:"uniqueIndex;not null"`
	Title         string         `json:"title"`
	PassingScore  int            `json:"passing_score" gorm:"default:70"`
	QuestionsData datatypes.JSON `json:"questions_data"` // Embedded variant; empty when structured
}

// Variant reports which representation this assessment uses.
func (a *Assessment) Variant() string {
	if len(a.QuestionsData) > 0 && string(a.QuestionsData) != "null" && string(a.QuestionsData) != "[]" {
		return VariantEmbedded
	}
	return VariantStructured
}

// Question belongs to a structured assessment
type Question struct {
	gorm.Model
	AssessmentID uint   `json:"assessment_id" gorm:"index;not null"`
	Prompt       string `json:"prompt" gorm:"type:text"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
}

// Choice is one selectable option of a structured question
type Choice struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
}

// EmbeddedQuestion is one record of the embedded QuestionsData list
type EmbeddedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	ImageURL      string   `json:"image_url,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
}

// AssessmentResult is one submission attempt. Rows are append-only;
// only the first passing attempt drives downstream effects.
type AssessmentResult struct {
	gorm.Model
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	AssessmentID uint           `json:"assessment_id" gorm:"index;not null"`
	EnrollmentID uint           `json:"enrollment_id" gorm:"index;not null"`
	Score        int            `json:"score"` // 0-100
	Answers      datatypes.JSON `json:"answers"`
	Passed       bool           `json:"passed" gorm:"default:false"`
	CompletedAt  time.Time      `json:"completed_at"`
}
