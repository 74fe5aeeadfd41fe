package service

import (
	"errors"

	"gorm.io/gorm"

	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
)

var ErrCourseCodeInUse = errors.New("course code already in use")

type CreateCourseInput struct {
	Code        string
	Name        string
	Department  string
	Description string
}

type CourseService interface {
	Create(lecturerID string, input CreateCourseInput) (*models.Course, error)
	ListAll() ([]models.Course, error)
	ListByLecturer(lecturerID string) ([]models.Course, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
}

func NewCourseService(courseRepo repository.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

// Create registers a new course owned by the given lecturer. Course codes
// are globally unique; ownership never changes afterwards.
func (s *courseService) Create(lecturerID string, input CreateCourseInput) (*models.Course, error) {
	if _, err := s.courseRepo.FindByCode(input.Code); err == nil {
		return nil, ErrCourseCodeInUse
	}

	course := &models.Course{
		Code:       input.Code,
		Name:       input.Name,
		LecturerID: lecturerID,
	}
	if input.Department != "" {
		course.Department = &input.Department
	}
	if input.Description != "" {
		course.Description = &input.Description
	}

	if err := s.courseRepo.Create(course); err != nil {
		// the unique index backs up the pre-check
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCourseCodeInUse
		}
		return nil, err
	}

	return course, nil
}

func (s *courseService) ListAll() ([]models.Course, error) {
	return s.courseRepo.FindAll()
}

func (s *courseService) ListByLecturer(lecturerID string) ([]models.Course, error) {
	return s.courseRepo.FindByLecturer(lecturerID)
}
