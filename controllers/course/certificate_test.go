package controllers

import (
	"testing"
	"time"

	courseModels "learnhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCertificateRequiresPass(t *testing.T) {
	db := setupTestDB(t)

	enrollment, _ := createTestEnrollment(t, db, 1)

	_, err := issueCertificate(db, enrollment)
	assert.ErrorIs(t, err, ErrNotPassed)

	var count int64
	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.Zero(t, count, "no certificate row for an unpassed enrollment")
}

func TestIssueCertificateIdempotent(t *testing.T) {
	db := setupTestDB(t)

	enrollment, _ := createTestEnrollment(t, db, 1)

	now := time.Now()
	enrollment.Completed = true
	enrollment.CompletedAt = &now
	require.NoError(t, db.Save(enrollment).Error)

	first, err := issueCertificate(db, enrollment)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, enrollment.ID, first.EnrollmentID)
	assert.Contains(t, first.CertificateNumber, "CERT-")

	// A second issuance returns the same certificate, not a new one
	second, err := issueCertificate(db, enrollment)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCertificateLookupRecoversFromFailedIssuance(t *testing.T) {
	db := setupTestDB(t)

	enrollment, _ := createTestEnrollment(t, db, 1)

	now := time.Now()
	enrollment.Completed = true
	enrollment.CompletedAt = &now
	require.NoError(t, db.Save(enrollment).Error)

	// The enrollment passed but no certificate row exists, as if the
	// store failed at pass time. The lookup must issue it on the fly.
	var count int64
	db.Model(&courseModels.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
	require.Zero(t, count)

	certificate, err := certificateForCourse(db, enrollment.UserID, int(enrollment.CourseID))
	require.NoError(t, err)
	require.NotNil(t, certificate)
	assert.Equal(t, enrollment.ID, certificate.EnrollmentID)
	assert.Contains(t, certificate.CertificateNumber, "CERT-")

	// A later lookup returns the same certificate
	again, err := certificateForCourse(db, enrollment.UserID, int(enrollment.CourseID))
	require.NoError(t, err)
	assert.Equal(t, certificate.ID, again.ID)
}

func TestCertificateLookupRequiresPass(t *testing.T) {
	db := setupTestDB(t)

	enrollment, _ := createTestEnrollment(t, db, 1)

	_, err := certificateForCourse(db, enrollment.UserID, int(enrollment.CourseID))
	assert.ErrorIs(t, err, ErrNotPassed)

	var count int64
	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.Zero(t, count)
}
