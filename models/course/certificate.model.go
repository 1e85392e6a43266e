package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents the completion certificate for an enrollment.
// At most one exists per enrollment and it never changes after issuance.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	EnrollmentID      uint      `json:"enrollment_id" gorm:"uniqueIndex;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique;not null"`
	IssuedAt          time.Time `json:"issued_at"`
}
