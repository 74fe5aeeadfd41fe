package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rateme/internal/httpapi/dto"
	"rateme/internal/httpapi/middleware"
	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/service"
)

type CourseHandler struct {
	courseService service.CourseService
}

func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// RegisterRoutes registers course routes (parent group is authenticated)
func (h *CourseHandler) RegisterRoutes(router *gin.RouterGroup) {
	courses := router.Group("/courses")
	{
		courses.POST("", middleware.RequireRole(models.RoleLecturer), h.Create)
		courses.GET("", h.List)
	}
}

// Create adds a new course owned by the calling lecturer.
// POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	lecturerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courseService.Create(lecturerID, service.CreateCourseInput{
		Code:        req.Code,
		Name:        req.Name,
		Department:  req.Department,
		Description: req.Description,
	})
	if err != nil {
		if err == service.ErrCourseCodeInUse {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToCourseResponse(course))
}

// List retrieves all courses with their lecturers.
// GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": dto.FromModelsToCourseResponses(courses)})
}
