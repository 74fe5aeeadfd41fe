package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rateme/internal/httpapi/models"
)

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

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "x",
		Role:      role,
		FirstName: "Test",
		LastName:  username,
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

// fakeNotifications records dispatches instead of sending mail.
type fakeNotifications struct {
	feedbackSent   int
	suggestionSent int
}

func (f *fakeNotifications) SendFeedbackNotification(_ *models.Feedback) bool {
	f.feedbackSent++
	return true
}

func (f *fakeNotifications) SendSuggestionNotification(_ *models.User, _ *models.Suggestion) bool {
	f.suggestionSent++
	return true
}

// fakeCompletionClient returns a canned response or error and remembers the
// last prompt it was given.
type fakeCompletionClient struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeCompletionClient) GenerateText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
