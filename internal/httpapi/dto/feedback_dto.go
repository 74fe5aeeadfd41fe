package dto

import (
	"time"

	"rateme/internal/httpapi/models"
)

type SubmitFeedbackRequest struct {
	CourseID            int64    `json:"course_id" binding:"required"`
	Rating              float64  `json:"rating" binding:"required,min=1,max=5"`
	TeachingRating      *float64 `json:"teaching_rating" binding:"omitempty,min=1,max=5"`
	CommunicationRating *float64 `json:"communication_rating" binding:"omitempty,min=1,max=5"`
	EngagementRating    *float64 `json:"engagement_rating" binding:"omitempty,min=1,max=5"`
	Comment             string   `json:"comment"`
	IsAnonymous         bool     `json:"is_anonymous"`
}

// FeedbackResponse is the lecturer-facing view of one feedback entry.
// Anonymous feedback never exposes the student's name.
type FeedbackResponse struct {
	ID                  int64     `json:"id"`
	CourseCode          string    `json:"course_code"`
	CourseName          string    `json:"course_name"`
	StudentName         string    `json:"student_name"`
	Rating              float64   `json:"rating"`
	TeachingRating      *float64  `json:"teaching_rating,omitempty"`
	CommunicationRating *float64  `json:"communication_rating,omitempty"`
	EngagementRating    *float64  `json:"engagement_rating,omitempty"`
	Comment             string    `json:"comment,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// FromModelToFeedbackResponse converts a Feedback model to FeedbackResponse DTO
func FromModelToFeedbackResponse(fb *models.Feedback) *FeedbackResponse {
	studentName := "Anonymous"
	if !fb.IsAnonymous && fb.Student.ID != "" {
		studentName = fb.Student.FullName()
	}

	resp := &FeedbackResponse{
		ID:                  fb.ID,
		CourseCode:          fb.Course.Code,
		CourseName:          fb.Course.Name,
		StudentName:         studentName,
		Rating:              fb.Rating,
		TeachingRating:      fb.TeachingRating,
		CommunicationRating: fb.CommunicationRating,
		EngagementRating:    fb.EngagementRating,
		CreatedAt:           fb.CreatedAt,
	}
	if fb.Comment != nil {
		resp.Comment = *fb.Comment
	}
	return resp
}

func FromModelsToFeedbackResponses(feedback []models.Feedback) []FeedbackResponse {
	responses := make([]FeedbackResponse, 0, len(feedback))
	for i := range feedback {
		responses = append(responses, *FromModelToFeedbackResponse(&feedback[i]))
	}
	return responses
}
