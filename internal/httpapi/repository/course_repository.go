package repository

import (
	"rateme/internal/httpapi/models"

	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *models.Course) error
	FindByID(id int64) (*models.Course, error)
	FindByCode(code string) (*models.Course, error)
	FindAll() ([]models.Course, error)
	FindByLecturer(lecturerID string) ([]models.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id int64) (*models.Course, error) {
	var course models.Course
	if err := r.db.Preload("Lecturer").First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByCode(code string) (*models.Course, error) {
	var course models.Course
	if err := r.db.Where("code = ?", code).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindAll returns every course with its owning lecturer preloaded,
// newest first. Used for the student dashboard.
func (r *courseRepository) FindAll() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Preload("Lecturer").
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) FindByLecturer(lecturerID string) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Where("lecturer_id = ?", lecturerID).
		Order("code ASC").
		Find(&courses).Error
	return courses, err
}
