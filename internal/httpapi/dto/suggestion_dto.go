package dto

import (
	"time"

	"rateme/internal/httpapi/models"
)

type SuggestionResponse struct {
	ID                   int64     `json:"id"`
	SuggestionsText      string    `json:"suggestions_text"`
	BasedOnFeedbackCount int       `json:"based_on_feedback_count"`
	GeneratedAt          time.Time `json:"generated_at"`
}

func FromModelToSuggestionResponse(s *models.Suggestion) *SuggestionResponse {
	return &SuggestionResponse{
		ID:                   s.ID,
		SuggestionsText:      s.SuggestionsText,
		BasedOnFeedbackCount: s.BasedOnFeedbackCount,
		GeneratedAt:          s.GeneratedAt,
	}
}

func FromModelsToSuggestionResponses(suggestions []models.Suggestion) []SuggestionResponse {
	responses := make([]SuggestionResponse, 0, len(suggestions))
	for i := range suggestions {
		responses = append(responses, *FromModelToSuggestionResponse(&suggestions[i]))
	}
	return responses
}
