package course

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	MentorID      *uint           `json:"mentor_id" gorm:"index"` // Content owner, optional
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Level         string          `json:"level" gorm:"default:'beginner'"` // beginner, intermediate, advanced
	DurationHours int             `json:"duration_hours" gorm:"default:10"`
	ThumbnailURL  string          `json:"thumbnail_url"`
	IsActive      bool            `json:"is_active"` // Set explicitly on create; a default tag would swallow false
	IsDeleted     bool            `gorm:"default:false"`
}

// Module content kinds
const (
	ContentText  = "text"
	ContentVideo = "video"
	ContentCode  = "code"
)

// Module represents a lesson within a course. Modules are consumed in
// ascending OrderIndex; ties fall back to creation order (lower id first).
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	ContentType string `json:"content_type"` // text, video, code
	Content     string `json:"content" gorm:"type:text"`
	VideoURL    string `json:"video_url"`

	// For code exercises
	Language       string `json:"language" gorm:"default:'python'"` // python, javascript, html
	StarterCode    string `json:"starter_code" gorm:"type:text"`
	ExpectedOutput string `json:"expected_output" gorm:"type:text"`

	// Optional per-module quiz: list of {question, options, correct_answer}
	QuizData datatypes.JSON `json:"quiz_data"`

	IsDeleted bool `gorm:"default:false"`
}
