package utils

import (
	"learnhub/config"
	"learnhub/database"
	"learnhub/models/course"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeEnrollmentScheduler sets up the pending-payment expiry scheduler
func InitializeEnrollmentScheduler() {
	log.Println("[ENROLLMENT-SCHEDULER] Initializing enrollment scheduler...")

	c := cron.New()

	// Run daily at 2 AM to fail abandoned pending payments
	c.AddFunc("0 2 * * *", func() {
		log.Println("[ENROLLMENT-SCHEDULER] Running daily pending payment check...")
		ExpirePendingEnrollments()
	})

	c.Start()
	log.Println("[ENROLLMENT-SCHEDULER] Enrollment scheduler started - runs daily at 2 AM")
}

// ExpirePendingEnrollments marks pending enrollments older than the
// configured TTL as FAILED. Failed enrollments never post commissions.
func ExpirePendingEnrollments() {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.PendingPaymentTTLHours) * time.Hour)

	result := db.Model(&course.Enrollment{}).
		Where("payment_status = ? AND created_at < ? AND is_deleted = false", course.PaymentPending, cutoff).
		Update("payment_status", course.PaymentFailed)

	if result.Error != nil {
		log.Printf("[ENROLLMENT-SCHEDULER] Error expiring pending enrollments: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[ENROLLMENT-SCHEDULER] Failed %d abandoned pending enrollments", result.RowsAffected)
	}
}
