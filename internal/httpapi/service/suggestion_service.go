package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
)

var (
	ErrNoFeedback      = errors.New("no feedback available yet")
	ErrAINotConfigured = errors.New("AI service is not configured")
)

// CompletionClient is the boundary to the external text-completion service.
// One prompt in, one opaque text out. A nil client means "not configured".
type CompletionClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type SuggestionService interface {
	Generate(ctx context.Context, lecturerID string) (*models.Suggestion, error)
	History(lecturerID string) ([]models.Suggestion, error)
	Latest(lecturerID string) (*models.Suggestion, error)
}

type suggestionService struct {
	suggestionRepo repository.SuggestionRepository
	feedbackRepo   repository.FeedbackRepository
	userRepo       repository.UserRepository
	client         CompletionClient
	notifications  NotificationService
	log            *slog.Logger
}

func NewSuggestionService(
	suggestionRepo repository.SuggestionRepository,
	feedbackRepo repository.FeedbackRepository,
	userRepo repository.UserRepository,
	client CompletionClient,
	notifications NotificationService,
	log *slog.Logger,
) SuggestionService {
	return &suggestionService{
		suggestionRepo: suggestionRepo,
		feedbackRepo:   feedbackRepo,
		userRepo:       userRepo,
		client:         client,
		notifications:  notifications,
		log:            log,
	}
}

// Generate builds a prompt from the lecturer's full feedback history, asks
// the completion service for improvement suggestions and persists the result.
// The persisted BasedOnFeedbackCount is the exact number of rows serialized
// into the prompt, captured here and never recomputed. A failing service
// does not fail the operation: the error text is persisted as the
// suggestion body so the lecturer sees what went wrong.
func (s *suggestionService) Generate(ctx context.Context, lecturerID string) (*models.Suggestion, error) {
	lecturer, err := s.userRepo.FindByID(lecturerID)
	if err != nil {
		return nil, ErrLecturerNotFound
	}

	feedback, err := s.feedbackRepo.FindByLecturer(lecturerID)
	if err != nil {
		return nil, err
	}
	if len(feedback) == 0 {
		return nil, ErrNoFeedback
	}

	if s.client == nil {
		return nil, ErrAINotConfigured
	}

	prompt := BuildSuggestionPrompt(feedback, lecturer.FullName())
	count := len(feedback)

	text, err := s.client.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Error("text completion failed, persisting fallback", "lecturer", lecturer.Username, "error", err)
		text = fmt.Sprintf("Error generating suggestions: %v\n\nPlease check your AI API key configuration.", err)
	}

	suggestion := &models.Suggestion{
		LecturerID:           lecturerID,
		SuggestionsText:      text,
		BasedOnFeedbackCount: count,
	}
	if err := s.suggestionRepo.Create(suggestion); err != nil {
		return nil, err
	}

	// fire-and-forget; generation already succeeded
	s.notifications.SendSuggestionNotification(lecturer, suggestion)

	return suggestion, nil
}

func (s *suggestionService) History(lecturerID string) ([]models.Suggestion, error) {
	return s.suggestionRepo.FindByLecturer(lecturerID)
}

func (s *suggestionService) Latest(lecturerID string) (*models.Suggestion, error) {
	return s.suggestionRepo.FindLatestByLecturer(lecturerID)
}

// BuildSuggestionPrompt serializes each feedback row into a fixed block and
// embeds the result in the consultant prompt. The response is requested as
// exactly 5 numbered "[Category]: [suggestion]" lines but treated as opaque
// text downstream; nothing parses or validates the shape.
func BuildSuggestionPrompt(feedback []models.Feedback, lecturerName string) string {
	var b strings.Builder
	for _, fb := range feedback {
		fmt.Fprintf(&b, "Course: %s\n", fb.Course.Code)
		fmt.Fprintf(&b, "Overall Rating: %g/5\n", fb.Rating)

		if fb.TeachingRating != nil {
			fmt.Fprintf(&b, "Teaching: %g/5 | ", *fb.TeachingRating)
		}
		if fb.CommunicationRating != nil {
			fmt.Fprintf(&b, "Communication: %g/5 | ", *fb.CommunicationRating)
		}
		if fb.EngagementRating != nil {
			fmt.Fprintf(&b, "Engagement: %g/5\n", *fb.EngagementRating)
		}

		if fb.Comment != nil && *fb.Comment != "" {
			fmt.Fprintf(&b, "Comment: %s\n", *fb.Comment)
		}
		b.WriteString("---\n")
	}

	return fmt.Sprintf(`You are an educational consultant analyzing student feedback for %s, a university lecturer.

STUDENT FEEDBACK DATA:
%s

TASK: Analyze this feedback and provide 5 specific, actionable improvement suggestions.

FORMAT YOUR RESPONSE AS:
1. [Category]: [Specific actionable suggestion with details]
2. [Category]: [Specific actionable suggestion with details]
3. [Category]: [Specific actionable suggestion with details]
4. [Category]: [Specific actionable suggestion with details]
5. [Category]: [Specific actionable suggestion with details]

FOCUS AREAS:
- Teaching methodology and delivery
- Communication clarity and effectiveness
- Student engagement and interaction
- Course structure and organization
- Assessment and feedback practices

REQUIREMENTS:
- Be constructive and supportive in tone
- Provide specific, implementable actions
- Base suggestions on patterns in the feedback
- Avoid generic advice
- Include practical examples where relevant
`, lecturerName, b.String())
}
