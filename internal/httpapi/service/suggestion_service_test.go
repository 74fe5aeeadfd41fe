package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
)

type suggestionFixture struct {
	svc           SuggestionService
	db            *gorm.DB
	client        *fakeCompletionClient
	notifications *fakeNotifications
	lecturer      *models.User
	student       *models.User
	course        *models.Course
}

func newSuggestionFixture(t *testing.T, client CompletionClient) *suggestionFixture {
	t.Helper()

	db := newTestDB(t)
	notifications := &fakeNotifications{}
	svc := NewSuggestionService(
		repository.NewSuggestionRepository(db),
		repository.NewFeedbackRepository(db),
		repository.NewUserRepository(db),
		client,
		notifications,
		testLogger(),
	)

	fx := &suggestionFixture{
		svc:           svc,
		db:            db,
		notifications: notifications,
		lecturer:      createUser(t, db, "lecturer1", models.RoleLecturer),
		student:       createUser(t, db, "student1", models.RoleStudent),
	}
	if c, ok := client.(*fakeCompletionClient); ok {
		fx.client = c
	}
	fx.course = createCourse(t, db, "CS101", fx.lecturer.ID)
	return fx
}

func (fx *suggestionFixture) addFeedback(t *testing.T, rating float64, comment string) {
	t.Helper()

	extra := createUser(t, fx.db, "s-extra-"+comment, models.RoleStudent)
	fb := &models.Feedback{
		StudentID:  extra.ID,
		LecturerID: fx.lecturer.ID,
		CourseID:   fx.course.ID,
		Rating:     rating,
	}
	if comment != "" {
		fb.Comment = &comment
	}
	require.NoError(t, fx.db.Create(fb).Error)
}

func TestGenerate_NoFeedback(t *testing.T) {
	fx := newSuggestionFixture(t, &fakeCompletionClient{response: "ok"})

	_, err := fx.svc.Generate(context.Background(), fx.lecturer.ID)
	assert.ErrorIs(t, err, ErrNoFeedback)

	// nothing was persisted and no call left the building
	var count int64
	require.NoError(t, fx.db.Model(&models.Suggestion{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, fx.client.calls)
	assert.Equal(t, 0, fx.notifications.suggestionSent)
}

func TestGenerate_NotConfigured(t *testing.T) {
	fx := newSuggestionFixture(t, nil)
	fx.addFeedback(t, 4, "a")

	_, err := fx.svc.Generate(context.Background(), fx.lecturer.ID)
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func TestGenerate_PersistsSuggestion(t *testing.T) {
	fx := newSuggestionFixture(t, &fakeCompletionClient{response: "1. Teaching: try more examples"})
	fx.addFeedback(t, 5, "great course")
	fx.addFeedback(t, 3, "too fast")

	suggestion, err := fx.svc.Generate(context.Background(), fx.lecturer.ID)
	require.NoError(t, err)

	assert.Equal(t, "1. Teaching: try more examples", suggestion.SuggestionsText)
	assert.Equal(t, 2, suggestion.BasedOnFeedbackCount)
	assert.Equal(t, fx.lecturer.ID, suggestion.LecturerID)
	assert.Equal(t, 1, fx.notifications.suggestionSent)

	stored, err := repository.NewSuggestionRepository(fx.db).FindLatestByLecturer(fx.lecturer.ID)
	require.NoError(t, err)
	assert.Equal(t, suggestion.ID, stored.ID)
}

func TestGenerate_FailingClientPersistsFallback(t *testing.T) {
	fx := newSuggestionFixture(t, &fakeCompletionClient{err: errors.New("quota exceeded")})
	fx.addFeedback(t, 2, "hard to follow")

	suggestion, err := fx.svc.Generate(context.Background(), fx.lecturer.ID)
	require.NoError(t, err)

	assert.Equal(t,
		"Error generating suggestions: quota exceeded\n\nPlease check your AI API key configuration.",
		suggestion.SuggestionsText)
	assert.Equal(t, 1, suggestion.BasedOnFeedbackCount)

	// fallback is a real suggestion row, not a skipped write
	var count int64
	require.NoError(t, fx.db.Model(&models.Suggestion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerate_UnknownLecturer(t *testing.T) {
	fx := newSuggestionFixture(t, &fakeCompletionClient{response: "ok"})

	_, err := fx.svc.Generate(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrLecturerNotFound)
}

func TestBuildSuggestionPrompt(t *testing.T) {
	comment := "more worked examples please"
	feedback := []models.Feedback{
		{
			Course:              models.Course{Code: "CS101"},
			Rating:              4,
			TeachingRating:      floatPtr(5),
			CommunicationRating: floatPtr(3.5),
			EngagementRating:    floatPtr(4),
			Comment:             &comment,
		},
		{
			Course: models.Course{Code: "CS202"},
			Rating: 2,
		},
	}

	prompt := BuildSuggestionPrompt(feedback, "Jane Doe")

	assert.Contains(t, prompt, "analyzing student feedback for Jane Doe")
	assert.Contains(t, prompt, "Course: CS101\nOverall Rating: 4/5\n")
	assert.Contains(t, prompt, "Teaching: 5/5 | Communication: 3.5/5 | Engagement: 4/5\n")
	assert.Contains(t, prompt, "Comment: more worked examples please\n")
	assert.Contains(t, prompt, "Course: CS202\nOverall Rating: 2/5\n---\n")
	assert.Contains(t, prompt, "provide 5 specific, actionable improvement suggestions")
	assert.Equal(t, 2, strings.Count(prompt, "---\n"))
}
