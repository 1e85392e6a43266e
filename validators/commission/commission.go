package commissionValidator

import (
	"learnhub/middleware"
	"learnhub/models/commission"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func CommissionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		commissionID, err := strconv.Atoi(raw)
		if err != nil || commissionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Commission ID!", nil)
		}

		c.Locals("commissionID", commissionID)
		return c.Next()
	}
}

func SetRate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Role       string          `json:"role"`
			CourseID   *uint           `json:"course_id"`
			RateType   string          `json:"rate_type"`
			Percentage decimal.Decimal `json:"percentage"`
			FlatAmount decimal.Decimal `json:"flat_amount"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		validRole := false
		for _, role := range commission.BeneficiaryRoles() {
			if reqData.Role == role {
				validRole = true
				break
			}
		}
		if !validRole {
			errors["role"] = "Role must be MENTOR, ADMIN or SERVICE!"
		}

		switch reqData.RateType {
		case commission.RatePercentage:
			if reqData.Percentage.IsNegative() || reqData.Percentage.GreaterThan(decimal.NewFromInt(100)) {
				errors["percentage"] = "Percentage must be between 0 and 100!"
			}
		case commission.RateFlat:
			if reqData.FlatAmount.IsNegative() {
				errors["flat_amount"] = "Flat amount must not be negative!"
			}
		default:
			errors["rate_type"] = "Rate type must be PERCENTAGE or FLAT!"
		}

		if reqData.CourseID != nil && *reqData.CourseID == 0 {
			errors["course_id"] = "Course ID must be a positive integer!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRate", reqData)
		return c.Next()
	}
}

func MarkPaid() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CommissionIDs []uint `json:"commission_ids"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.CommissionIDs) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "At least one commission ID is required!", nil)
		}

		c.Locals("validatedMarkPaid", reqData)
		return c.Next()
	}
}
