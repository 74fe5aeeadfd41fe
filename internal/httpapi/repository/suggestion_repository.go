package repository

import (
	"rateme/internal/httpapi/models"

	"gorm.io/gorm"
)

type SuggestionRepository interface {
	Create(suggestion *models.Suggestion) error
	FindByLecturer(lecturerID string) ([]models.Suggestion, error)
	FindLatestByLecturer(lecturerID string) (*models.Suggestion, error)
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) Create(suggestion *models.Suggestion) error {
	return r.db.Create(suggestion).Error
}

// FindByLecturer returns the full suggestion history, most recent first.
func (r *suggestionRepository) FindByLecturer(lecturerID string) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	err := r.db.Where("lecturer_id = ?", lecturerID).
		Order("generated_at DESC").
		Find(&suggestions).Error
	return suggestions, err
}

func (r *suggestionRepository) FindLatestByLecturer(lecturerID string) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	err := r.db.Where("lecturer_id = ?", lecturerID).
		Order("generated_at DESC").
		First(&suggestion).Error
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}
