package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"rateme/internal/cache"
	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
)

var (
	ErrLecturerNotFound  = errors.New("lecturer not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrDuplicateFeedback = errors.New("feedback already submitted for this course")
)

type SubmitFeedbackInput struct {
	CourseID            int64
	Rating              float64
	TeachingRating      *float64
	CommunicationRating *float64
	EngagementRating    *float64
	Comment             string
	IsAnonymous         bool
}

type FeedbackService interface {
	Submit(ctx context.Context, studentID, lecturerID string, input SubmitFeedbackInput) (*models.Feedback, error)
	ListByLecturer(lecturerID string) ([]models.Feedback, error)
	RecentByLecturer(lecturerID string, limit int) ([]models.Feedback, error)
}

type feedbackService struct {
	feedbackRepo  repository.FeedbackRepository
	courseRepo    repository.CourseRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	statsCache    *cache.StatsCache // nil disables cache invalidation
	log           *slog.Logger
}

func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	statsCache *cache.StatsCache,
	log *slog.Logger,
) FeedbackService {
	return &feedbackService{
		feedbackRepo:  feedbackRepo,
		courseRepo:    courseRepo,
		userRepo:      userRepo,
		notifications: notifications,
		statsCache:    statsCache,
		log:           log,
	}
}

// Submit records one feedback entry for (student, lecturer, course). The
// triple is allowed exactly once: a pre-check gives the common case a clean
// error, and the unique index turns the submit/submit race into a
// deterministic conflict mapped to the same ErrDuplicateFeedback.
func (s *feedbackService) Submit(ctx context.Context, studentID, lecturerID string, input SubmitFeedbackInput) (*models.Feedback, error) {
	if err := validateRatings(input); err != nil {
		return nil, err
	}

	lecturer, err := s.userRepo.FindByID(lecturerID)
	if err != nil || lecturer.Role != models.RoleLecturer {
		return nil, ErrLecturerNotFound
	}

	course, err := s.courseRepo.FindByID(input.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.LecturerID != lecturerID {
		return nil, ErrCourseNotFound
	}

	exists, err := s.feedbackRepo.ExistsForTriple(studentID, lecturerID, input.CourseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateFeedback
	}

	feedback := &models.Feedback{
		StudentID:           studentID,
		LecturerID:          lecturerID,
		CourseID:            input.CourseID,
		Rating:              input.Rating,
		TeachingRating:      input.TeachingRating,
		CommunicationRating: input.CommunicationRating,
		EngagementRating:    input.EngagementRating,
		IsAnonymous:         input.IsAnonymous,
	}
	if input.Comment != "" {
		feedback.Comment = &input.Comment
	}

	if err := s.feedbackRepo.Create(feedback); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateFeedback
		}
		return nil, err
	}

	// cached statistics are stale now
	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx, lecturerID); err != nil {
			s.log.Warn("failed to invalidate stats cache", "lecturer_id", lecturerID, "error", err)
		}
	}

	// fire-and-forget email; the submission already succeeded
	feedback.Lecturer = *lecturer
	feedback.Course = *course
	s.notifications.SendFeedbackNotification(feedback)

	return feedback, nil
}

func (s *feedbackService) ListByLecturer(lecturerID string) ([]models.Feedback, error) {
	return s.feedbackRepo.FindByLecturer(lecturerID)
}

func (s *feedbackService) RecentByLecturer(lecturerID string, limit int) ([]models.Feedback, error) {
	return s.feedbackRepo.FindRecentByLecturer(lecturerID, limit)
}

func validateRatings(input SubmitFeedbackInput) error {
	check := func(v float64) bool { return v >= 1 && v <= 5 }

	if !check(input.Rating) {
		return ErrInvalidRating
	}
	for _, sub := range []*float64{input.TeachingRating, input.CommunicationRating, input.EngagementRating} {
		if sub != nil && !check(*sub) {
			return ErrInvalidRating
		}
	}
	return nil
}
