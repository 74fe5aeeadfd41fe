package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rateme/internal/httpapi/models"
)

// newTestDB opens a fresh in-memory database per test so tests stay isolated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Course{},
		&models.Feedback{},
		&models.Suggestion{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, code string, lecturerID string) *models.Course {
	t.Helper()

	course := &models.Course{
		Code:       code,
		Name:       "Course " + code,
		LecturerID: lecturerID,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func floatPtr(v float64) *float64 { return &v }
