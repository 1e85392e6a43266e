package commission

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Beneficiary roles eligible for a cut of a completed enrollment.
const (
	RoleMentor  = "MENTOR"  // Content owner of the course
	RoleAdmin   = "ADMIN"   // Platform administration
	RoleService = "SERVICE" // Service operations
)

// BeneficiaryRoles returns the closed set of roles commissions are
// posted for, in posting order.
func BeneficiaryRoles() []string {
	return []string{RoleMentor, RoleAdmin, RoleService}
}

// Rate types
const (
	RatePercentage = "PERCENTAGE"
	RateFlat       = "FLAT"
)

// Commission status lifecycle. Transitions are one-directional:
// PENDING -> PAID and PENDING -> CANCELLED only.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
)

// CommissionRate is the rate configured by the owner for a role, either
// for one course or globally (CourseID nil). Course-specific rates take
// precedence over the global fallback during resolution.
type CommissionRate struct {
	gorm.Model
	Role       string          `json:"role" gorm:"not null;index:idx_rates_role_course"`
	CourseID   *uint           `json:"course_id" gorm:"index:idx_rates_role_course"` // nil = global rate
	RateType   string          `json:"rate_type" gorm:"default:'PERCENTAGE'"`        // PERCENTAGE, FLAT
	Percentage decimal.Decimal `json:"percentage" gorm:"type:decimal(12,2)"`         // Used if type is PERCENTAGE
	FlatAmount decimal.Decimal `json:"flat_amount" gorm:"type:decimal(12,2)"` // Used if type is FLAT

	// No default tag: gorm drops zero-value fields carrying one on
	// Create, which would turn IsActive false into true. Creation
	// paths set it explicitly.
	IsActive bool `json:"is_active"`
}

// Commission is one ledger entry: at most one per (enrollment, role).
// Amount is locked at posting time from the course price then in effect.
type Commission struct {
	gorm.Model
	UserID       uint            `json:"user_id" gorm:"index;not null"`
	Role         string          `json:"role" gorm:"not null;uniqueIndex:idx_commissions_enrollment_role"`
	EnrollmentID uint            `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_commissions_enrollment_role"`
	CourseID     uint            `json:"course_id" gorm:"index;not null"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	RateType     string          `json:"rate_type" gorm:"default:'PERCENTAGE'"`
	RateValue    decimal.Decimal `json:"rate_value" gorm:"type:decimal(12,2)"` // Percentage or flat amount applied
	Status       string          `json:"status" gorm:"default:'PENDING'"`      // PENDING, PAID, CANCELLED
	Note         string          `json:"note" gorm:"type:text"`
	PaidAt       *time.Time      `json:"paid_at"` // Set only on the PENDING -> PAID transition
}
