package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rateme/internal/httpapi/dto"
	"rateme/internal/httpapi/middleware"
	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
	"rateme/internal/httpapi/service"
)

type FeedbackHandler struct {
	feedbackService service.FeedbackService
	courseService   service.CourseService
	userRepo        repository.UserRepository
}

func NewFeedbackHandler(
	feedbackService service.FeedbackService,
	courseService service.CourseService,
	userRepo repository.UserRepository,
) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		courseService:   courseService,
		userRepo:        userRepo,
	}
}

// RegisterRoutes registers the student-only rating routes
func (h *FeedbackHandler) RegisterRoutes(router *gin.RouterGroup) {
	lecturers := router.Group("/lecturers", middleware.RequireRole(models.RoleStudent))
	{
		lecturers.GET("", h.ListLecturers)
		lecturers.GET("/:lecturer_id/courses", h.ListLecturerCourses)
		lecturers.POST("/:lecturer_id/feedback", h.Submit)
	}
}

// ListLecturers returns every lecturer with their courses.
// GET /api/lecturers
func (h *FeedbackHandler) ListLecturers(c *gin.Context) {
	lecturers, err := h.userRepo.FindLecturers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type lecturerEntry struct {
		ID         string               `json:"id"`
		Name       string               `json:"name"`
		Department string               `json:"department,omitempty"`
		Courses    []dto.CourseResponse `json:"courses"`
	}

	entries := make([]lecturerEntry, 0, len(lecturers))
	for i := range lecturers {
		lecturer := &lecturers[i]
		courses, err := h.courseService.ListByLecturer(lecturer.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		entry := lecturerEntry{
			ID:      lecturer.ID,
			Name:    lecturer.FullName(),
			Courses: dto.FromModelsToCourseResponses(courses),
		}
		if lecturer.Department != nil {
			entry.Department = *lecturer.Department
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{"lecturers": entries})
}

// ListLecturerCourses returns the courses of one lecturer, for the rating form.
// GET /api/lecturers/:lecturer_id/courses
func (h *FeedbackHandler) ListLecturerCourses(c *gin.Context) {
	lecturerID := c.Param("lecturer_id")

	lecturer, err := h.userRepo.FindByID(lecturerID)
	if err != nil || lecturer.Role != models.RoleLecturer {
		c.JSON(http.StatusNotFound, gin.H{"error": "lecturer not found"})
		return
	}

	courses, err := h.courseService.ListByLecturer(lecturerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": dto.FromModelsToCourseResponses(courses)})
}

// Submit records the caller's feedback for one of the lecturer's courses.
// POST /api/lecturers/:lecturer_id/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	studentID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	lecturerID := c.Param("lecturer_id")

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.feedbackService.Submit(c.Request.Context(), studentID, lecturerID, service.SubmitFeedbackInput{
		CourseID:            req.CourseID,
		Rating:              req.Rating,
		TeachingRating:      req.TeachingRating,
		CommunicationRating: req.CommunicationRating,
		EngagementRating:    req.EngagementRating,
		Comment:             req.Comment,
		IsAnonymous:         req.IsAnonymous,
	})
	if err != nil {
		switch err {
		case service.ErrLecturerNotFound, service.ErrCourseNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrDuplicateFeedback:
			c.JSON(http.StatusConflict, gin.H{"error": "You have already submitted feedback for this course."})
		case service.ErrInvalidRating:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Thank you! Your feedback has been submitted.",
		"feedback": dto.FromModelToFeedbackResponse(feedback),
	})
}
