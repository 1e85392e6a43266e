package models

import (
	"time"

	"gorm.io/gorm"
)

// Platform roles. Kept as a closed set so authorization decisions are
// made against constants instead of free-form strings.
const (
	RoleAdmin   = "ADMIN"
	RoleOwner   = "OWNER"
	RoleMentor  = "MENTOR"
	RoleStudent = "STUDENT"
	RoleService = "SERVICE"
)

type User struct {
	gorm.Model
	Name              string `json:"name" gorm:"default:''"`
	Email             string `json:"email" gorm:"unique;not null"`
	Phone             string `json:"phone" gorm:"default:''"`
	Role              string `json:"role" gorm:"default:'STUDENT'"` // ADMIN, OWNER, MENTOR, STUDENT, SERVICE
	Password          string `json:"-" gorm:"not null"`
	BankAccountNumber string `json:"bank_account_number" gorm:"default:''"` // For mentor payouts
	IsEmailVerified   bool   `json:"is_email_verified" gorm:"default:false"`
	LastLogin         *time.Time
	IsDeleted         bool `gorm:"default:false"`
}

// ValidRole reports whether the given role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOwner, RoleMentor, RoleStudent, RoleService:
		return true
	}
	return false
}
