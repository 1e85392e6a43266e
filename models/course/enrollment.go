package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment payment lifecycle
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// Enrollment tracks a user's purchase of a course. One per (user, course).
// Completed flips to true only once the course assessment has been passed;
// finishing every module on its own does not complete an enrollment.
type Enrollment struct {
	gorm.Model
	UserID        uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID      uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	AccessKey     string     `json:"access_key" gorm:"size:32;unique;not null"` // Assigned once at creation
	PaymentRef    string     `json:"payment_ref" gorm:"size:64"`
	PaymentStatus string     `json:"payment_status" gorm:"default:'PENDING'"` // PENDING, COMPLETED, FAILED
	Completed     bool       `json:"completed" gorm:"default:false"`
	CompletedAt   *time.Time `json:"completed_at"`
	IsDeleted     bool       `gorm:"default:false"`
}

// ModuleCompletion is one element of an enrollment's completed-module set.
// The unique (enrollment_id, module_id) index makes insert-or-ignore an
// atomic set-add, so concurrent completions never lose updates.
type ModuleCompletion struct {
	gorm.Model
	EnrollmentID uint `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_completions_enrollment_module"`
	ModuleID     uint `json:"module_id" gorm:"not null;uniqueIndex:idx_completions_enrollment_module"`

	// Optional quiz sub-record for modules carrying QuizData
	QuizScore   *int           `json:"quiz_score"`
	QuizAnswers datatypes.JSON `json:"quiz_answers"`
}
