package models

import "time"

// Feedback is immutable once created: there is no edit or delete endpoint,
// and CreatedAt is set exactly once. The compound unique index closes the
// one-submission-per-(student, lecturer, course) invariant at the store
// level; the service layer still pre-checks to give a friendly message.
type Feedback struct {
	ID         int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID  string `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_feedback_once,priority:1"`
	LecturerID string `json:"lecturer_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_feedback_once,priority:2"`
	CourseID   int64  `json:"course_id" gorm:"not null;uniqueIndex:idx_feedback_once,priority:3"`

	Rating              float64  `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	TeachingRating      *float64 `json:"teaching_rating,omitempty"`
	CommunicationRating *float64 `json:"communication_rating,omitempty"`
	EngagementRating    *float64 `json:"engagement_rating,omitempty"`
	Comment             *string  `json:"comment,omitempty"`
	IsAnonymous         bool     `json:"is_anonymous" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Student  User   `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE;"`
	Lecturer User   `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID;constraint:OnDelete:CASCADE;"`
	Course   Course `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`
}

func (Feedback) TableName() string {
	return "feedback"
}
