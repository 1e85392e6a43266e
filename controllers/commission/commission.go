package commissionController

import (
	"errors"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/models/commission"
	courseModels "learnhub/models/course"
	"learnhub/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRateUnresolved means no active rate exists for a (role, course) pair,
// neither course-specific nor global. Posting skips the role; it is not
// surfaced to the caller.
var ErrRateUnresolved = errors.New("no applicable commission rate")

// ResolveRate selects the applicable active rate for a beneficiary role
// and course: the course-specific rate wins, the global rate (course_id
// NULL) is the fallback.
func ResolveRate(db *gorm.DB, role string, courseID uint) (*commission.CommissionRate, error) {
	var rate commission.CommissionRate

	err := db.Where("role = ? AND course_id = ? AND is_active = true", role, courseID).First(&rate).Error
	if err == nil {
		return &rate, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Where("role = ? AND course_id IS NULL AND is_active = true", role).First(&rate).Error
	if err == nil {
		return &rate, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRateUnresolved
	}
	return nil, err
}

// ComputeAmount derives the commission amount from a resolved rate and the
// course price. Percentage rates round to currency precision; flat rates
// apply verbatim regardless of price.
func ComputeAmount(rate *commission.CommissionRate, price decimal.Decimal) decimal.Decimal {
	if rate.RateType == commission.RateFlat {
		return rate.FlatAmount
	}
	return price.Mul(rate.Percentage).Div(decimal.NewFromInt(100)).Round(2)
}

// RateValue returns the raw configured value recorded on the ledger entry.
func RateValue(rate *commission.CommissionRate) decimal.Decimal {
	if rate.RateType == commission.RateFlat {
		return rate.FlatAmount
	}
	return rate.Percentage
}

// resolveBeneficiary finds the user a commission for the given role goes
// to: the course mentor for MENTOR, the first active platform user holding
// the role otherwise.
func resolveBeneficiary(db *gorm.DB, role string, crs *courseModels.Course) (*models.User, error) {
	var user models.User

	if role == commission.RoleMentor {
		if crs.MentorID == nil {
			return nil, gorm.ErrRecordNotFound
		}
		err := db.Where("id = ? AND is_deleted = false", *crs.MentorID).First(&user).Error
		if err != nil {
			return nil, err
		}
		return &user, nil
	}

	err := db.Where("role = ? AND is_deleted = false", role).Order("id asc").First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PostForEnrollment records pending commission entries for every
// beneficiary role of a freshly completed enrollment. Safe to call more
// than once: the unique (enrollment, role) index turns duplicate posts
// into no-ops.
func PostForEnrollment(db *gorm.DB, enrollment *courseModels.Enrollment) error {
	if enrollment.PaymentStatus != courseModels.PaymentCompleted {
		return errors.New("commission posting requires a completed payment")
	}

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", enrollment.CourseID).First(&crs).Error; err != nil {
		return err
	}

	for _, role := range commission.BeneficiaryRoles() {
		rate, err := ResolveRate(db, role, crs.ID)
		if errors.Is(err, ErrRateUnresolved) {
			log.Printf("[COMMISSION] No active rate for role %s on course %d, skipping", role, crs.ID)
			continue
		}
		if err != nil {
			return err
		}

		beneficiary, err := resolveBeneficiary(db, role, &crs)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[COMMISSION] No beneficiary user for role %s on course %d, skipping", role, crs.ID)
			continue
		}
		if err != nil {
			return err
		}

		entry := commission.Commission{
			UserID:       beneficiary.ID,
			Role:         role,
			EnrollmentID: enrollment.ID,
			CourseID:     crs.ID,
			Amount:       ComputeAmount(rate, crs.Price),
			RateType:     rate.RateType,
			RateValue:    RateValue(rate),
			Status:       commission.StatusPending,
		}

		// Duplicate posts for the same (enrollment, role) are benign no-ops
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "role"}},
			DoNothing: true,
		}).Create(&entry).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// MarkPaid transitions the given pending commissions to PAID and stamps
// paid_at. Ids that are not pending are left untouched. Returns the
// entries actually transitioned.
func MarkPaid(db *gorm.DB, commissionIDs []uint) ([]commission.Commission, error) {
	var pendingIDs []uint
	err := db.Model(&commission.Commission{}).
		Where("id IN ? AND status = ?", commissionIDs, commission.StatusPending).
		Pluck("id", &pendingIDs).Error
	if err != nil {
		return nil, err
	}
	if len(pendingIDs) == 0 {
		return nil, nil
	}

	now := time.Now()
	result := db.Model(&commission.Commission{}).
		Where("id IN ? AND status = ?", pendingIDs, commission.StatusPending).
		Updates(map[string]interface{}{"status": commission.StatusPaid, "paid_at": now})
	if result.Error != nil {
		return nil, result.Error
	}

	var paid []commission.Commission
	if err := db.Where("id IN ? AND status = ?", pendingIDs, commission.StatusPaid).Find(&paid).Error; err != nil {
		return nil, err
	}
	return paid, nil
}

// SetCommissionRate creates or replaces the active rate for a (role, course)
// pair. The previous active rate, if any, is deactivated in the same
// transaction so at most one active rate exists per pair.
func SetCommissionRate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRate").(*struct {
		Role       string          `json:"role"`
		CourseID   *uint           `json:"course_id"`
		RateType   string          `json:"rate_type"`
		Percentage decimal.Decimal `json:"percentage"`
		FlatAmount decimal.Decimal `json:"flat_amount"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if reqData.CourseID != nil {
		var crs courseModels.Course
		if err := db.Where("id = ? AND is_deleted = false", *reqData.CourseID).First(&crs).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
	}

	rate := commission.CommissionRate{
		Role:       reqData.Role,
		CourseID:   reqData.CourseID,
		RateType:   reqData.RateType,
		Percentage: reqData.Percentage,
		FlatAmount: reqData.FlatAmount,
		IsActive:   true,
	}

	tx := db.Begin()

	deactivate := tx.Model(&commission.CommissionRate{}).Where("role = ? AND is_active = true", reqData.Role)
	if reqData.CourseID != nil {
		deactivate = deactivate.Where("course_id = ?", *reqData.CourseID)
	} else {
		deactivate = deactivate.Where("course_id IS NULL")
	}
	if err := deactivate.Update("is_active", false).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update commission rate!", nil)
	}

	if err := tx.Create(&rate).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create commission rate!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Commission rate saved successfully!", rate)
}

// GetCommissionRates lists configured rates, active first
func GetCommissionRates(c *fiber.Ctx) error {
	var rates []commission.CommissionRate
	if err := database.Database.Db.Order("is_active desc, role asc, course_id asc").Find(&rates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch commission rates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commission rates fetched successfully!", rates)
}

// commissionView adds the report formatting external consumers rely on
type commissionView struct {
	commission.Commission
	FormattedAmount string `json:"formatted_amount"`
}

// ListCommissions returns the ledger with optional status/role filters
func ListCommissions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")
	role := c.Query("role")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&commission.Commission{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var entries []commission.Commission
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch commissions!", nil)
	}

	views := make([]commissionView, len(entries))
	for i, entry := range entries {
		views[i] = commissionView{Commission: entry, FormattedAmount: utils.FormatAmount(entry.Amount)}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commissions fetched successfully!", fiber.Map{
		"commissions": views,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetMentorCommissions returns the authenticated mentor's own ledger
func GetMentorCommissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var entries []commission.Commission
	if err := database.Database.Db.
		Where("user_id = ? AND role = ?", userID, commission.RoleMentor).
		Order("created_at desc").
		Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch commissions!", nil)
	}

	views := make([]commissionView, len(entries))
	pendingTotal := decimal.Zero
	paidTotal := decimal.Zero
	for i, entry := range entries {
		views[i] = commissionView{Commission: entry, FormattedAmount: utils.FormatAmount(entry.Amount)}
		switch entry.Status {
		case commission.StatusPending:
			pendingTotal = pendingTotal.Add(entry.Amount)
		case commission.StatusPaid:
			paidTotal = paidTotal.Add(entry.Amount)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commissions fetched successfully!", fiber.Map{
		"commissions":   views,
		"pending_total": utils.FormatAmount(pendingTotal),
		"paid_total":    utils.FormatAmount(paidTotal),
	})
}

// MarkCommissionsPaid bulk-transitions pending commissions to PAID
func MarkCommissionsPaid(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedMarkPaid").(*struct {
		CommissionIDs []uint `json:"commission_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	paid, err := MarkPaid(db, reqData.CommissionIDs)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark commissions as paid!", nil)
	}

	// Notify each beneficiary about their payout total
	totals := make(map[uint]decimal.Decimal)
	counts := make(map[uint]int)
	for _, entry := range paid {
		totals[entry.UserID] = totals[entry.UserID].Add(entry.Amount)
		counts[entry.UserID]++
	}
	for userID, total := range totals {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err == nil {
			utils.SendCommissionPaidEmail(user.Email, user.Name, utils.FormatAmount(total), counts[userID])
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commissions marked as paid!", fiber.Map{
		"requested": len(reqData.CommissionIDs),
		"updated":   len(paid),
	})
}

// CancelCommission administratively cancels a single pending commission
func CancelCommission(c *fiber.Ctx) error {
	commissionID := c.Locals("commissionID").(int)

	db := database.Database.Db

	var entry commission.Commission
	if err := db.Where("id = ?", commissionID).First(&entry).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Commission not found!", nil)
	}

	if entry.Status != commission.StatusPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only pending commissions can be cancelled!", nil)
	}

	if err := db.Model(&entry).Update("status", commission.StatusCancelled).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel commission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commission cancelled successfully!", entry)
}
