package models

import "time"

// Suggestion is an AI-generated improvement text for a lecturer.
// BasedOnFeedbackCount is a snapshot of how many feedback rows fed the
// prompt, captured at generation time and never recomputed. Rows accumulate
// as a history and are read back most-recent-first.
type Suggestion struct {
	ID                   int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	LecturerID           string    `json:"lecturer_id" gorm:"type:uuid;not null;index"`
	SuggestionsText      string    `json:"suggestions_text" gorm:"not null"`
	BasedOnFeedbackCount int       `json:"based_on_feedback_count" gorm:"not null;default:0"`
	GeneratedAt          time.Time `json:"generated_at" gorm:"autoCreateTime"`

	// Associations
	Lecturer User `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID;constraint:OnDelete:CASCADE;"`
}

func (Suggestion) TableName() string {
	return "suggestions"
}
