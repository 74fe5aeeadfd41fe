package repository

import (
	"rateme/internal/httpapi/models"

	"gorm.io/gorm"
)

// LecturerStats is the aggregate view over a lecturer's feedback: four
// averages plus the row count. Averages are 0 when the set is empty; the
// sub-rating averages only consider rows where that rating was given
// (SQL AVG skips NULLs).
type LecturerStats struct {
	AvgRating        float64 `json:"avg_rating"`
	AvgTeaching      float64 `json:"avg_teaching"`
	AvgCommunication float64 `json:"avg_communication"`
	AvgEngagement    float64 `json:"avg_engagement"`
	TotalFeedback    int64   `json:"total_feedback"`
}

type FeedbackRepository interface {
	Create(feedback *models.Feedback) error
	ExistsForTriple(studentID, lecturerID string, courseID int64) (bool, error)
	FindByLecturer(lecturerID string) ([]models.Feedback, error)
	FindRecentByLecturer(lecturerID string, limit int) ([]models.Feedback, error)
	CountByLecturer(lecturerID string) (int64, error)
	LecturerStats(lecturerID string) (*LecturerStats, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create inserts a new feedback row
func (r *feedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// ExistsForTriple reports whether the student already submitted feedback for
// this lecturer and course. The unique index on the same triple is the
// authoritative guard; this check only exists for a friendlier error path.
func (r *feedbackRepository) ExistsForTriple(studentID, lecturerID string, courseID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Feedback{}).
		Where("student_id = ? AND lecturer_id = ? AND course_id = ?", studentID, lecturerID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByLecturer retrieves all feedback for a lecturer, newest first, with
// course and student preloaded for rendering and prompt building.
func (r *feedbackRepository) FindByLecturer(lecturerID string) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.Where("lecturer_id = ?", lecturerID).
		Preload("Course").
		Preload("Student").
		Order("created_at DESC").
		Find(&feedback).Error
	return feedback, err
}

func (r *feedbackRepository) FindRecentByLecturer(lecturerID string, limit int) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.Where("lecturer_id = ?", lecturerID).
		Preload("Course").
		Preload("Student").
		Order("created_at DESC").
		Limit(limit).
		Find(&feedback).Error
	return feedback, err
}

func (r *feedbackRepository) CountByLecturer(lecturerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Feedback{}).Where("lecturer_id = ?", lecturerID).Count(&count).Error
	return count, err
}

// LecturerStats computes the aggregate statistics for a lecturer in a single
// query. COALESCE keeps the empty set at 0 instead of NULL.
func (r *feedbackRepository) LecturerStats(lecturerID string) (*LecturerStats, error) {
	var stats LecturerStats

	err := r.db.Model(&models.Feedback{}).
		Select(
			"COALESCE(AVG(rating), 0) as avg_rating, " +
				"COALESCE(AVG(teaching_rating), 0) as avg_teaching, " +
				"COALESCE(AVG(communication_rating), 0) as avg_communication, " +
				"COALESCE(AVG(engagement_rating), 0) as avg_engagement, " +
				"COUNT(id) as total_feedback").
		Where("lecturer_id = ?", lecturerID).
		Scan(&stats).Error

	if err != nil {
		return nil, err
	}

	return &stats, nil
}
