package controllers

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	"learnhub/models/commission"
	courseModels "learnhub/models/course"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmPaymentRetriesCommissionPosting(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&commission.CommissionRate{}, &commission.Commission{}))

	config.LoadConfig()
	database.Database = database.DbInstance{Db: db}

	mentor := models.User{Name: "Mentor", Email: "mentor@confirm.test", Role: models.RoleMentor}
	require.NoError(t, db.Create(&mentor).Error)
	student := models.User{Name: "Student", Email: "student@confirm.test", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	crs := courseModels.Course{Title: "Paid Course", MentorID: &mentor.ID, Price: decimal.NewFromInt(100000), IsActive: true}
	require.NoError(t, db.Create(&crs).Error)

	rate := commission.CommissionRate{
		Role:       commission.RoleMentor,
		RateType:   commission.RatePercentage,
		Percentage: decimal.NewFromInt(60),
		IsActive:   true,
	}
	require.NoError(t, db.Create(&rate).Error)

	enrollment := courseModels.Enrollment{
		UserID:        student.ID,
		CourseID:      crs.ID,
		AccessKey:     "CONFIRMKEY000001",
		PaymentStatus: courseModels.PaymentPending,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	app := fiber.New()
	app.Post("/enrollment/:id/confirm-payment", func(c *fiber.Ctx) error {
		c.Locals("userId", student.ID)
		return c.Next()
	}, validators.EnrollmentID(), ConfirmPayment)

	url := fmt.Sprintf("/enrollment/%d/confirm-payment", enrollment.ID)

	// The ledger store fails during the first confirm: the payment is
	// confirmed, the commission is not posted
	require.NoError(t, db.Migrator().DropTable(&commission.Commission{}))

	resp, err := app.Test(httptest.NewRequest("POST", url, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated courseModels.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, courseModels.PaymentCompleted, updated.PaymentStatus)

	// Store is back. Re-confirming answers Conflict but retries the
	// idempotent posting, so the entry lands after all.
	require.NoError(t, db.AutoMigrate(&commission.Commission{}))

	resp, err = app.Test(httptest.NewRequest("POST", url, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var entries []commission.Commission
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, commission.RoleMentor, entries[0].Role)
	assert.Equal(t, mentor.ID, entries[0].UserID)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(60000)))

	// And a further confirm does not duplicate it
	resp, err = app.Test(httptest.NewRequest("POST", url, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var count int64
	db.Model(&commission.Commission{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
