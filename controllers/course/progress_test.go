package controllers

import (
	"fmt"
	"testing"

	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Enrollment{},
		&courseModels.ModuleCompletion{},
		&courseModels.Assessment{},
		&courseModels.Question{},
		&courseModels.Choice{},
		&courseModels.AssessmentResult{},
		&courseModels.Certificate{},
	)
	require.NoError(t, err)

	return db
}

func createTestEnrollment(t *testing.T, db *gorm.DB, moduleCount int) (*courseModels.Enrollment, []courseModels.Module) {
	t.Helper()

	user := models.User{Name: "Student", Email: fmt.Sprintf("%s@test.io", t.Name()), Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	crs := courseModels.Course{Title: "Go Basics", Price: decimal.NewFromInt(100000), IsActive: true}
	require.NoError(t, db.Create(&crs).Error)

	modules := make([]courseModels.Module, moduleCount)
	for i := 0; i < moduleCount; i++ {
		modules[i] = courseModels.Module{
			CourseID:    crs.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			OrderIndex:  (i + 1) * 10,
			ContentType: courseModels.ContentText,
			Content:     "...",
		}
		require.NoError(t, db.Create(&modules[i]).Error)
	}

	enrollment := courseModels.Enrollment{
		UserID:        user.ID,
		CourseID:      crs.ID,
		AccessKey:     fmt.Sprintf("KEY%013d", user.ID),
		PaymentStatus: courseModels.PaymentCompleted,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return &enrollment, modules
}

func TestProgressPercentage(t *testing.T) {
	assert.Equal(t, 0, progressPercentage(0, 0), "course without modules reports zero")
	assert.Equal(t, 0, progressPercentage(0, 5))
	assert.Equal(t, 33, progressPercentage(1, 3), "percentage is floored")
	assert.Equal(t, 66, progressPercentage(2, 3))
	assert.Equal(t, 100, progressPercentage(3, 3))
}

func TestOrderedModulesTieBreak(t *testing.T) {
	db := setupTestDB(t)

	crs := courseModels.Course{Title: "Ordering", Price: decimal.Zero, IsActive: true}
	require.NoError(t, db.Create(&crs).Error)

	first := courseModels.Module{CourseID: crs.ID, Title: "A", OrderIndex: 10}
	second := courseModels.Module{CourseID: crs.ID, Title: "B", OrderIndex: 10}
	third := courseModels.Module{CourseID: crs.ID, Title: "C", OrderIndex: 5}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&third).Error)

	modules, err := orderedModules(db, crs.ID)
	require.NoError(t, err)
	require.Len(t, modules, 3)

	assert.Equal(t, "C", modules[0].Title, "lower order index comes first")
	assert.Equal(t, "A", modules[1].Title, "ties resolve by creation order")
	assert.Equal(t, "B", modules[2].Title)
}

func TestResolveCurrentModule(t *testing.T) {
	modules := []courseModels.Module{
		{Model: gorm.Model{ID: 1}, Title: "One", OrderIndex: 10},
		{Model: gorm.Model{ID: 2}, Title: "Two", OrderIndex: 20},
		{Model: gorm.Model{ID: 3}, Title: "Three", OrderIndex: 30},
	}

	t.Run("fresh enrollment lands on the first module", func(t *testing.T) {
		current, locked := resolveCurrentModule(modules, map[uint]bool{}, 0)
		require.NotNil(t, current)
		assert.Equal(t, uint(1), current.ID)
		assert.False(t, locked)
	})

	t.Run("frontier is the first incomplete module", func(t *testing.T) {
		current, locked := resolveCurrentModule(modules, map[uint]bool{1: true}, 0)
		require.NotNil(t, current)
		assert.Equal(t, uint(2), current.ID)
		assert.False(t, locked)
	})

	t.Run("completed modules stay revisitable", func(t *testing.T) {
		current, locked := resolveCurrentModule(modules, map[uint]bool{1: true}, 1)
		require.NotNil(t, current)
		assert.Equal(t, uint(1), current.ID)
		assert.False(t, locked)
	})

	t.Run("requesting the frontier is allowed", func(t *testing.T) {
		current, locked := resolveCurrentModule(modules, map[uint]bool{1: true}, 2)
		require.NotNil(t, current)
		assert.Equal(t, uint(2), current.ID)
		assert.False(t, locked)
	})

	t.Run("a module past the frontier is locked and redirects", func(t *testing.T) {
		current, locked := resolveCurrentModule(modules, map[uint]bool{1: true}, 3)
		require.NotNil(t, current)
		assert.Equal(t, uint(2), current.ID, "falls back to the frontier")
		assert.True(t, locked)
	})

	t.Run("all modules done serves the last one", func(t *testing.T) {
		completed := map[uint]bool{1: true, 2: true, 3: true}
		current, locked := resolveCurrentModule(modules, completed, 0)
		require.NotNil(t, current)
		assert.Equal(t, uint(3), current.ID)
		assert.False(t, locked)
	})

	t.Run("unknown module id falls back to the frontier", func(t *testing.T) {
		current, locked := resolveCurrentModule(modules, map[uint]bool{}, 99)
		require.NotNil(t, current)
		assert.Equal(t, uint(1), current.ID)
		assert.False(t, locked)
	})

	t.Run("empty course has no current module", func(t *testing.T) {
		current, locked := resolveCurrentModule(nil, map[uint]bool{}, 0)
		assert.Nil(t, current)
		assert.False(t, locked)
	})
}

func TestModuleCompletionSetAdd(t *testing.T) {
	db := setupTestDB(t)

	enrollment, modules := createTestEnrollment(t, db, 3)

	completion := courseModels.ModuleCompletion{EnrollmentID: enrollment.ID, ModuleID: modules[0].ID}
	require.NoError(t, db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(&completion).Error)

	// Completing the same module again must not grow the set
	duplicate := courseModels.ModuleCompletion{EnrollmentID: enrollment.ID, ModuleID: modules[0].ID}
	require.NoError(t, db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(&duplicate).Error)

	completed, err := completedModuleIDs(db, enrollment.ID)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
	assert.True(t, completed[modules[0].ID])

	// The completed set is always a subset of the course's modules
	moduleIDs := make(map[uint]bool, len(modules))
	for _, m := range modules {
		moduleIDs[m.ID] = true
	}
	for id := range completed {
		assert.True(t, moduleIDs[id], "completion outside the course's module set")
	}
}

func TestActiveEnrollmentRequiresCompletedPayment(t *testing.T) {
	db := setupTestDB(t)

	enrollment, _ := createTestEnrollment(t, db, 1)

	found, err := activeEnrollment(db, enrollment.UserID, int(enrollment.CourseID))
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, found.ID)

	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("id = ?", enrollment.ID).
		Update("payment_status", courseModels.PaymentPending).Error)

	_, err = activeEnrollment(db, enrollment.UserID, int(enrollment.CourseID))
	assert.Error(t, err, "pending payment must not grant access")
}
