package dto

import (
	"time"

	"rateme/internal/httpapi/models"
)

type CreateCourseRequest struct {
	Code        string `json:"code" binding:"required,max=10"`
	Name        string `json:"name" binding:"required,max=100"`
	Department  string `json:"department"`
	Description string `json:"description"`
}

type CourseResponse struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Department   string    `json:"department,omitempty"`
	Description  string    `json:"description,omitempty"`
	LecturerName string    `json:"lecturer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromModelToCourseResponse converts a Course model to CourseResponse DTO
func FromModelToCourseResponse(course *models.Course) *CourseResponse {
	resp := &CourseResponse{
		ID:        course.ID,
		Code:      course.Code,
		Name:      course.Name,
		CreatedAt: course.CreatedAt,
	}
	if course.Department != nil {
		resp.Department = *course.Department
	}
	if course.Description != nil {
		resp.Description = *course.Description
	}
	if course.Lecturer.ID != "" {
		resp.LecturerName = course.Lecturer.FullName()
	}
	return resp
}

func FromModelsToCourseResponses(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, *FromModelToCourseResponse(&courses[i]))
	}
	return responses
}
